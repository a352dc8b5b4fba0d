// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/blockminer/blockdigest"
	blockminerVersion "github.com/bitmark-inc/blockminer/version"
)

type metadata struct {
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = blockminerVersion.Version

func main() {

	app := cli.NewApp()
	app.Name = "makeblock"
	app.Usage = "mine, hash and verify single blocks"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	hashFlag := cli.StringFlag{
		Name:  "hash, a",
		Value: blockdigest.SHA3,
		Usage: " hash `ALGORITHM` [sha3-256|blake3|argon2id]",
	}
	zeroBitsFlag := cli.IntFlag{
		Name:  "zero-bits, z",
		Value: 16,
		Usage: " leading zero `BITS` required of the digest",
	}
	indexFlag := cli.Uint64Flag{
		Name:  "index, i",
		Value: 0,
		Usage: " block `INDEX`",
	}
	payloadFlag := cli.StringFlag{
		Name:  "payload, p",
		Value: "",
		Usage: "*block `PAYLOAD`",
	}
	previousFlag := cli.StringFlag{
		Name:  "previous, r",
		Value: "",
		Usage: " previous block digest `HEX` [default all zero]",
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "log-directory, l",
			Value: os.TempDir(),
			Usage: " write the log file in `DIR`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "mine",
			Usage:     "search for the nonce of a single block",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				indexFlag,
				payloadFlag,
				previousFlag,
				hashFlag,
				zeroBitsFlag,
				cli.IntFlag{
					Name:  "threads, t",
					Value: 1,
					Usage: " number of search `THREADS`",
				},
			},
			Action: runMine,
		},
		{
			Name:      "hash",
			Usage:     "compute the commitment digest of block fields",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				indexFlag,
				payloadFlag,
				previousFlag,
				hashFlag,
				cli.StringFlag{
					Name:  "nonce, n",
					Value: "0",
					Usage: " decimal `NONCE`",
				},
			},
			Action: runHash,
		},
		{
			Name:      "verify",
			Usage:     "check the digest and difficulty of a block in JSON",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				hashFlag,
				zeroBitsFlag,
				cli.StringFlag{
					Name:  "file, f",
					Value: "-",
					Usage: " read the block JSON from `FILE` [- is standard input]",
				},
			},
			Action: runVerify,
		},
		{
			Name:  "version",
			Usage: "display makeblock version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		level := "critical"
		if verbose {
			level = "debug"
		}
		err := logger.Initialise(logger.Configuration{
			Directory: c.GlobalString("log-directory"),
			File:      app.Name + ".log",
			Size:      1024 * 1024,
			Count:     2,
			Console:   verbose,
			Levels: map[string]string{
				logger.DefaultTag: level,
			},
		})
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			verbose: verbose,
			e:       e,
			w:       w,
		}

		return nil
	}

	app.After = func(c *cli.Context) error {
		logger.Finalise()
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
