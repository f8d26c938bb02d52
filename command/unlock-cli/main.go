// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"
)

type metadata struct {
	connect   string
	locksmith string
	timeout   time.Duration
	verbose   bool
	e         io.Writer
	w         io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	if err := app.Run(os.Args); nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "unlock-cli"
	app.Usage = "exercise an unlockd paywall and query locksmith"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2130",
			EnvVar: "UNLOCKD_CONNECT",
			Usage:  " unlockd RPC `HOST:PORT`",
		},
		cli.StringFlag{
			Name:   "locksmith, l",
			Value:  "http://127.0.0.1:8080",
			EnvVar: "LOCKSMITH_URL",
			Usage:  " locksmith base `URL`",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: 10 * time.Second,
			Usage: " connection and request `DURATION`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "display unlockd status",
			Action: runInfo,
		},
		{
			Name:      "open",
			Usage:     "open a paywall session",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "origin, o",
					Value: "",
					Usage: "*page origin `URL`",
				},
				cli.BoolFlag{
					Name:  "default, d",
					Usage: " start with the default paywall",
				},
			},
			Action: runOpen,
		},
		{
			Name:      "post",
			Usage:     "post a message to a session",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "session, s",
					Value: "",
					Usage: "*session `ID`",
				},
				cli.StringFlag{
					Name:  "type, T",
					Value: "",
					Usage: "*message `TYPE` e.g. SEND_UPDATES",
				},
				cli.StringFlag{
					Name:  "payload, p",
					Value: "",
					Usage: " message payload `JSON`",
				},
				cli.StringFlag{
					Name:  "paywall, f",
					Value: "",
					Usage: " send a CONFIG message from a paywall `FILE`",
				},
			},
			Action: runPost,
		},
		{
			Name:      "poll",
			Usage:     "fetch queued messages from a session",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "session, s",
					Value: "",
					Usage: "*session `ID`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 0,
					Usage: " maximum messages `COUNT`, zero for the server limit",
				},
			},
			Action: runPoll,
		},
		{
			Name:      "close",
			Usage:     "close a session",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "session, s",
					Value: "",
					Usage: "*session `ID`",
				},
			},
			Action: runClose,
		},
		{
			Name:      "check",
			Usage:     "open a session with a paywall file and show the lock state as it changes",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "origin, o",
					Value: "http://localhost",
					Usage: " page origin `URL`",
				},
				cli.StringFlag{
					Name:  "paywall, f",
					Value: "",
					Usage: "*paywall configuration `FILE`",
				},
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: " viewing account `ADDRESS`, the node account if empty",
				},
				cli.DurationFlag{
					Name:  "interval, i",
					Value: time.Second,
					Usage: " poll `DURATION`",
				},
				cli.IntFlag{
					Name:  "polls, n",
					Value: 10,
					Usage: " number of polls `COUNT`",
				},
			},
			Action: runCheck,
		},
		{
			Name:      "watch",
			Usage:     "subscribe to published session events",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "publisher, P",
					Value: "127.0.0.1:2135",
					Usage: " publisher `HOST:PORT`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " publisher public key `HEX`, fetched from info if empty",
				},
				cli.StringFlag{
					Name:  "session, s",
					Value: "",
					Usage: " only events for session `ID`",
				},
				cli.IntFlag{
					Name:  "events, n",
					Value: 0,
					Usage: " stop after `COUNT` events, zero to run until interrupted",
				},
			},
			Action: runWatch,
		},
		{
			Name:      "lock",
			Usage:     "display a lock registered with locksmith",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*lock `ADDRESS`",
				},
			},
			Action: runLock,
		},
		{
			Name:      "locks",
			Usage:     "list the locks of an owner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*owner `ADDRESS`",
				},
			},
			Action: runLocks,
		},
		{
			Name:      "price",
			Usage:     "display the key price of a lock",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*lock `ADDRESS`",
				},
			},
			Action: runPrice,
		},
		{
			Name:      "transactions",
			Usage:     "list transactions recorded by locksmith",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "sender, s",
					Value: "",
					Usage: "*sender `ADDRESS`",
				},
				cli.StringSliceFlag{
					Name:  "recipient, r",
					Usage: "*lock `ADDRESS`, may be repeated",
				},
			},
			Action: runTransactions,
		},
		{
			Name:  "version",
			Usage: "display unlock-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		c.App.Metadata["config"] = &metadata{
			connect:   c.GlobalString("connect"),
			locksmith: c.GlobalString("locksmith"),
			timeout:   c.GlobalDuration("timeout"),
			verbose:   c.GlobalBool("verbose"),
			e:         c.App.ErrWriter,
			w:         c.App.Writer,
		}
		return nil
	}

	return app
}
