// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJson(handle io.Writer, title string, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(handle, "%s: marshal error: %s\n", title, err)
		return
	}
	fmt.Fprintf(handle, "%s:\n%s\n", title, b)
}
