// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package web3

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/big"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/record"
	"github.com/unlock-protocol/unlockd/util"
)

// revert reason of keyExpirationTimestampFor for an owner without a key
const noSuchKey = "NO_SUCH_KEY"

// Client - Reader and Wallet over a node connection
type Client struct {
	log     *logger.L
	backend Backend
	caller  Caller
	rpc     *rpc.Client

	// token decimals by contract address
	decimalsLock sync.RWMutex
	decimals     map[string]uint8
}

// Dial - connect to a node
func Dial(ctx context.Context, url string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if nil != err {
		return nil, err
	}
	c := New(ethclient.NewClient(rpcClient), rpcClient)
	c.rpc = rpcClient
	return c, nil
}

// New - create a client from existing connections
func New(backend Backend, caller Caller) *Client {
	return &Client{
		log:      logger.New("web3"),
		backend:  backend,
		caller:   caller,
		decimals: make(map[string]uint8),
	}
}

// Close - drop the node connection
func (c *Client) Close() {
	if nil != c.rpc {
		c.rpc.Close()
	}
}

// NetworkID - the network the node is connected to
func (c *Client) NetworkID(ctx context.Context) (uint64, error) {
	id, err := c.backend.NetworkID(ctx)
	if nil != err {
		return 0, err
	}
	return id.Uint64(), nil
}

// BlockNumber - the most recent block
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.backend.BlockNumber(ctx)
}

// Balance - native currency balance of an account as a decimal string
func (c *Client) Balance(ctx context.Context, account string) (string, error) {
	address, err := toAddress(account)
	if nil != err {
		return "", err
	}
	wei, err := c.backend.BalanceAt(ctx, address, nil)
	if nil != err {
		return "", err
	}
	return FromWei(wei, etherDecimals), nil
}

// Lock - read the terms of a lock
func (c *Client) Lock(ctx context.Context, lockAddress string) (record.Lock, error) {
	address, err := toAddress(lockAddress)
	if nil != err {
		return record.Lock{}, err
	}

	var name string
	if err := c.call(ctx, address, "name", &name); nil != err {
		return record.Lock{}, err
	}

	var tokenAddress common.Address
	if err := c.call(ctx, address, "tokenAddress", &tokenAddress); nil != err {
		return record.Lock{}, err
	}

	var owner common.Address
	if err := c.call(ctx, address, "owner", &owner); nil != err {
		return record.Lock{}, err
	}

	var keyPrice, expirationDuration, maxNumberOfKeys, totalSupply *big.Int
	if err := c.call(ctx, address, "keyPrice", &keyPrice); nil != err {
		return record.Lock{}, err
	}
	if err := c.call(ctx, address, "expirationDuration", &expirationDuration); nil != err {
		return record.Lock{}, err
	}
	if err := c.call(ctx, address, "maxNumberOfKeys", &maxNumberOfKeys); nil != err {
		return record.Lock{}, err
	}
	if err := c.call(ctx, address, "totalSupply", &totalSupply); nil != err {
		return record.Lock{}, err
	}

	lock := record.Lock{
		Address:            strings.ToLower(address.Hex()),
		Name:               name,
		ExpirationDuration: saturate(expirationDuration),
		MaxNumberOfKeys:    -1,
		OutstandingKeys:    saturate(totalSupply),
		Owner:              strings.ToLower(owner.Hex()),
	}

	if maxNumberOfKeys.IsInt64() {
		lock.MaxNumberOfKeys = maxNumberOfKeys.Int64()
	}

	decimals := uint8(etherDecimals)
	if (common.Address{}) != tokenAddress {
		lock.CurrencyContractAddress = strings.ToLower(tokenAddress.Hex())
		decimals, err = c.tokenDecimals(ctx, tokenAddress)
		if nil != err {
			return record.Lock{}, err
		}
	}
	lock.KeyPrice = FromWei(keyPrice, decimals)

	return lock, nil
}

// KeyExpiration - expiry time of an owner's key, 0 if there is none
func (c *Client) KeyExpiration(ctx context.Context, lockAddress string, ownerAddress string) (int64, error) {
	lock, err := toAddress(lockAddress)
	if nil != err {
		return 0, err
	}
	owner, err := toAddress(ownerAddress)
	if nil != err {
		return 0, err
	}

	var expiration *big.Int
	err = c.call(ctx, lock, "keyExpirationTimestampFor", &expiration, owner)
	if nil != err {
		if isNoSuchKey(err) {
			return 0, nil
		}
		return 0, err
	}
	if !expiration.IsInt64() {
		return math.MaxInt64, nil
	}
	return expiration.Int64(), nil
}

// Transaction - the chain state of a transaction
//
// a transaction unknown to the node is reported as submitted
func (c *Client) Transaction(ctx context.Context, hash string) (record.Transaction, error) {
	if !isHash(hash) {
		return record.Transaction{}, fault.InvalidTransactionHash
	}
	h := common.HexToHash(hash)

	result := record.Transaction{
		Hash:   strings.ToLower(h.Hex()),
		Status: record.TransactionSubmitted,
	}

	tx, isPending, err := c.backend.TransactionByHash(ctx, h)
	if errors.Is(err, ethereum.NotFound) {
		return result, nil
	} else if nil != err {
		return record.Transaction{}, err
	}

	c.describe(&result, tx)

	if isPending {
		result.Status = record.TransactionPending
		return result, nil
	}

	receipt, err := c.backend.TransactionReceipt(ctx, h)
	if errors.Is(err, ethereum.NotFound) {
		result.Status = record.TransactionPending
		return result, nil
	} else if nil != err {
		return record.Transaction{}, err
	}

	current, err := c.backend.BlockNumber(ctx)
	if nil != err {
		return record.Transaction{}, err
	}

	result.Status = record.TransactionMined
	if types.ReceiptStatusSuccessful != receipt.Status {
		result.Status = record.TransactionFailed
	}
	if nil != receipt.BlockNumber {
		result.BlockNumber = receipt.BlockNumber.Uint64()
		if current > result.BlockNumber {
			result.Confirmations = current - result.BlockNumber
		}
	}
	return result, nil
}

// fill sender, recipient and purchase details from a transaction
func (c *Client) describe(result *record.Transaction, tx *types.Transaction) {
	if nil == tx {
		return
	}
	if nil != tx.To() {
		result.To = strings.ToLower(tx.To().Hex())
		result.Lock = result.To
	}
	if nil != tx.ChainId() && tx.ChainId().Sign() > 0 {
		from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
		if nil == err {
			result.From = strings.ToLower(from.Hex())
		}
	}

	purchase := PublicLock.Methods["purchase"]
	data := tx.Data()
	if len(data) >= 4 && bytes.Equal(data[:4], purchase.ID) {
		result.Type = record.TransactionTypeKeyPurchase
		args, err := purchase.Inputs.Unpack(data[4:])
		if nil == err && len(args) >= 2 {
			if recipient, ok := args[1].(common.Address); ok {
				result.For = strings.ToLower(recipient.Hex())
			}
		}
	}
}

// Account - the first account of the node, empty if it has none
func (c *Client) Account(ctx context.Context) (string, error) {
	var accounts []common.Address
	err := c.caller.CallContext(ctx, &accounts, "eth_accounts")
	if nil != err {
		return "", err
	}
	if 0 == len(accounts) {
		return "", nil
	}
	return strings.ToLower(accounts[0].Hex()), nil
}

// the eth_sendTransaction parameter object
type sendTransactionArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value"`
	Data  hexutil.Bytes  `json:"data"`
}

// PurchaseKey - send a purchase transaction from the node account
//
// returns the transaction hash
func (c *Client) PurchaseKey(ctx context.Context, request PurchaseRequest) (string, error) {
	account, err := c.Account(ctx)
	if nil != err {
		return "", err
	}
	if "" == account {
		return "", fault.MissingAccount
	}

	lock, err := toAddress(request.Lock.Address)
	if nil != err {
		return "", err
	}

	owner := common.HexToAddress(account)
	if "" != request.Owner {
		owner, err = toAddress(request.Owner)
		if nil != err {
			return "", err
		}
	}

	referrer := owner
	if "" != request.Referrer {
		referrer, err = toAddress(request.Referrer)
		if nil != err {
			return "", err
		}
	}

	decimals := uint8(etherDecimals)
	native := "" == request.Lock.CurrencyContractAddress
	if !native {
		token, err := toAddress(request.Lock.CurrencyContractAddress)
		if nil != err {
			return "", err
		}
		decimals, err = c.tokenDecimals(ctx, token)
		if nil != err {
			return "", err
		}
	}

	price, err := ToWei(request.Lock.KeyPrice, decimals)
	if nil != err {
		return "", err
	}
	tip := big.NewInt(0)
	if "" != request.Tip {
		tip, err = ToWei(request.Tip, decimals)
		if nil != err {
			return "", fault.InvalidTip
		}
	}
	amount := new(big.Int).Add(price, tip)

	data, err := PublicLock.Pack("purchase", amount, owner, referrer, []byte{})
	if nil != err {
		return "", err
	}

	value := big.NewInt(0)
	if native {
		value = amount
	}

	args := sendTransactionArgs{
		From:  common.HexToAddress(account),
		To:    lock,
		Value: (*hexutil.Big)(value),
		Data:  data,
	}

	var hash common.Hash
	err = c.caller.CallContext(ctx, &hash, "eth_sendTransaction", args)
	if nil != err {
		return "", err
	}

	c.log.Infof("purchase: lock: %s  owner: %s  amount: %s  tx: %s", lock.Hex(), owner.Hex(), amount, hash.Hex())
	return strings.ToLower(hash.Hex()), nil
}

// read decimals of an ERC20 token, cached
func (c *Client) tokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	key := strings.ToLower(token.Hex())

	c.decimalsLock.RLock()
	d, ok := c.decimals[key]
	c.decimalsLock.RUnlock()
	if ok {
		return d, nil
	}

	data, err := ERC20.Pack("decimals")
	if nil != err {
		return 0, err
	}
	output, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if nil != err {
		return 0, err
	}
	values, err := ERC20.Unpack("decimals", output)
	if nil != err {
		return 0, err
	}
	d, ok = values[0].(uint8)
	if !ok {
		return 0, fault.InvalidAmount
	}

	c.decimalsLock.Lock()
	c.decimals[key] = d
	c.decimalsLock.Unlock()
	return d, nil
}

// call a lock view function and store its single output
func (c *Client) call(ctx context.Context, contract common.Address, method string, result interface{}, args ...interface{}) error {
	data, err := PublicLock.Pack(method, args...)
	if nil != err {
		return err
	}
	output, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if nil != err {
		return err
	}

	// no contract at the address
	if 0 == len(output) {
		return fault.LockNotFound
	}
	values, err := PublicLock.Unpack(method, output)
	if nil != err {
		return err
	}
	if 1 != len(values) {
		return fault.InvalidMessage
	}

	switch r := result.(type) {
	case *string:
		v, ok := values[0].(string)
		if !ok {
			return fault.InvalidMessage
		}
		*r = v
	case *common.Address:
		v, ok := values[0].(common.Address)
		if !ok {
			return fault.InvalidMessage
		}
		*r = v
	case **big.Int:
		v, ok := values[0].(*big.Int)
		if !ok {
			return fault.InvalidMessage
		}
		*r = v
	default:
		return fault.InvalidMessage
	}
	return nil
}

func toAddress(s string) (common.Address, error) {
	checksummed, err := util.ChecksumAddress(s)
	if nil != err {
		return common.Address{}, err
	}
	return common.HexToAddress(checksummed), nil
}

func isHash(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	b, err := hexutil.Decode(strings.ToLower(s))
	return nil == err && common.HashLength == len(b)
}

func isNoSuchKey(err error) bool {
	if strings.Contains(err.Error(), noSuchKey) {
		return true
	}
	var dataError rpc.DataError
	if errors.As(err, &dataError) {
		if data, ok := dataError.ErrorData().(string); ok {
			return strings.Contains(data, hexutil.Encode([]byte(noSuchKey))[2:])
		}
	}
	return false
}

func saturate(n *big.Int) uint64 {
	if nil == n || n.Sign() < 0 {
		return 0
	}
	if !n.IsUint64() {
		return ^uint64(0)
	}
	return n.Uint64()
}
