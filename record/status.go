// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

// KeyStatus - derived state of a key
type KeyStatus int

// possible key states
const (
	KeyNone KeyStatus = iota
	KeySubmitted
	KeyPending
	KeyConfirming
	KeyValid
	KeyExpired
	KeyFailed
)

var keyStatusNames = map[KeyStatus]string{
	KeyNone:       "none",
	KeySubmitted:  "submitted",
	KeyPending:    "pending",
	KeyConfirming: "confirming",
	KeyValid:      "valid",
	KeyExpired:    "expired",
	KeyFailed:     "failed",
}

// String - text form of a key status
func (s KeyStatus) String() string {
	if name, ok := keyStatusNames[s]; ok {
		return name
	}
	return keyStatusNames[KeyNone]
}

// MarshalText - convert key status to text for JSON
func (s KeyStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - convert text into a key status
//
// unrecognised text becomes KeyNone
func (s *KeyStatus) UnmarshalText(text []byte) error {
	for status, name := range keyStatusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	*s = KeyNone
	return nil
}

// Blocking - true if the status prevents a key from being valid
func (s KeyStatus) Blocking() bool {
	switch s {
	case KeySubmitted, KeyPending, KeyConfirming, KeyFailed:
		return true
	default:
		return false
	}
}

// TransactionStatus - state of a transaction on the chain
type TransactionStatus int

// possible transaction states
const (
	TransactionNone TransactionStatus = iota
	TransactionSubmitted
	TransactionPending
	TransactionMined
	TransactionFailed
)

var transactionStatusNames = map[TransactionStatus]string{
	TransactionNone:      "none",
	TransactionSubmitted: "submitted",
	TransactionPending:   "pending",
	TransactionMined:     "mined",
	TransactionFailed:    "failed",
}

// String - text form of a transaction status
func (s TransactionStatus) String() string {
	if name, ok := transactionStatusNames[s]; ok {
		return name
	}
	return transactionStatusNames[TransactionNone]
}

// MarshalText - convert transaction status to text for JSON
func (s TransactionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - convert text into a transaction status
//
// unrecognised text becomes TransactionNone
func (s *TransactionStatus) UnmarshalText(text []byte) error {
	for status, name := range transactionStatusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	*s = TransactionNone
	return nil
}

// Mined - true once the transaction is in a block
func (s TransactionStatus) Mined() bool {
	return TransactionMined == s || TransactionFailed == s
}

// TransactionType - what a transaction does
type TransactionType string

// known transaction types
const (
	TransactionTypeKeyPurchase    TransactionType = "KEY_PURCHASE"
	TransactionTypeLockCreation   TransactionType = "LOCK_CREATION"
	TransactionTypeUpdateKeyPrice TransactionType = "UPDATE_KEY_PRICE"
	TransactionTypeWithdrawal     TransactionType = "WITHDRAWAL"
)
