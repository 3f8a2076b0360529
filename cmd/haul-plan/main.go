// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "haul-plan",
		Usage: "Utility for planning colony logistics",
		Commands: []*cli.Command{
			planCmd,
			genCmd,
		},
	}
}

var planCmd = &cli.Command{
	Name:    "plan",
	Usage:   "Run ticks of a scenario and write the bound task chains",
	Aliases: []string{"p"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "scenario",
			Required: true,
			Usage:    "specify the input scenario.json (.zst for compressed)",
		},
		&cli.StringFlag{
			Name:     "out",
			Required: true,
			Usage:    "specify the output plan.json (.zst for compressed)",
		},
		&cli.StringFlag{
			Name:     "settings",
			Required: false,
			Usage:    "specify the logistics.yaml",
		},
		&cli.IntFlag{
			Name:     "ticks",
			Required: false,
			Value:    1,
			Usage:    "specify the number of ticks to run (1-10000)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log every binding",
		},
	},
	Action: func(ctx *cli.Context) error {
		var (
			scenarioFile = ctx.String("scenario")
			outFile      = ctx.String("out")
			settingsFile = ctx.String("settings")
			ticks        = ctx.Int("ticks")
			verbose      = ctx.Bool("verbose")
		)
		if !(ticks >= 1 && ticks <= 10000) {
			return errors.New("invalid ticks")
		}
		return doPlan(ctx.Context, scenarioFile, outFile, settingsFile, ticks, verbose)
	},
}

var genCmd = &cli.Command{
	Name:    "gen",
	Usage:   "Generate a random one room scenario",
	Aliases: []string{"g"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "out",
			Required: true,
			Usage:    "specify the output scenario.json (.zst for compressed)",
		},
		&cli.Int64Flag{
			Name:     "seed",
			Required: false,
			Usage:    "specify the noise seed, 0 for random",
		},
		&cli.StringFlag{
			Name:     "room",
			Required: false,
			Value:    "W1N1",
			Usage:    "specify the room name",
		},
		&cli.IntFlag{
			Name:     "level",
			Required: false,
			Value:    4,
			Usage:    "specify the controller level (1-8)",
		},
		&cli.IntFlag{
			Name:     "agents",
			Required: false,
			Value:    6,
			Usage:    "specify the number of haulers (1-100)",
		},
		&cli.IntFlag{
			Name:     "sources",
			Required: false,
			Value:    2,
			Usage:    "specify the number of energy sources (1-4)",
		},
	},
	Action: func(ctx *cli.Context) error {
		opts := genOptions{
			Seed:    ctx.Int64("seed"),
			Room:    ctx.String("room"),
			Level:   ctx.Int("level"),
			Agents:  ctx.Int("agents"),
			Sources: ctx.Int("sources"),
		}
		if err := opts.validate(); err != nil {
			return err
		}
		return doGen(ctx.Context, ctx.String("out"), opts)
	},
}
