// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/someonegg/haulmatch/colony"
	"github.com/someonegg/haulmatch/logistics"
	"github.com/someonegg/haulmatch/world"
)

type Plan struct {
	Colony string              `json:"colony"`
	Ticks  []*logistics.Report `json:"ticks"`
}

func doPlan(ctx context.Context, scenarioFile, outFile, settingsFile string, ticks int, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings, err := logistics.LoadSettings(settingsFile)
	if err != nil {
		return fmt.Errorf("load settings file failed: %w", err)
	}

	scenario, err := loadScenario(scenarioFile)
	if err != nil {
		return fmt.Errorf("load scenario file failed: %w", err)
	}

	plan, err := runPlan(ctx, scenario, settings, ticks, log)
	if err != nil {
		return err
	}

	if err := writeJSON(outFile, plan); err != nil {
		return fmt.Errorf("write plan file failed: %w", err)
	}
	return nil
}

func runPlan(ctx context.Context, s *Scenario, settings logistics.Settings, ticks int, log *slog.Logger) (*Plan, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, fmt.Errorf("build snapshot failed: %w", err)
	}
	pathing := s.grid()

	c := colony.New(s.Colony, s.Level, settings)
	c.LowPower = s.LowPower
	c.Sites = s.Sites
	c.Upgrade = s.Upgrade

	sim := &simulator{snap: snap}
	plan := &Plan{Colony: s.Colony}
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap.Tick = s.Tick + uint64(i)

		report, err := c.Tick(&logistics.Tick{
			Tick:     snap.Tick,
			World:    snap,
			Pathing:  pathing,
			Executor: sim,
			Links:    sim,
			Logger:   log,
		})
		if err != nil {
			return nil, fmt.Errorf("tick %d failed: %w", snap.Tick, err)
		}
		plan.Ticks = append(plan.Ticks, report)

		sim.mine(s.Sites)
	}
	return plan, nil
}

// simulator carries out bound chains at once, so that the next tick sees
// their effect.
type simulator struct {
	snap *world.Snapshot
}

func (s *simulator) Bind(id world.ID, chain logistics.TaskChain) {
	agent, ok := s.snap.Agent(id)
	if !ok {
		return
	}
	for _, step := range chain {
		agent.Pos = step.Pos
		if step.Action == logistics.ActionPark {
			continue
		}
		o, ok := s.snap.Object(step.Target)
		if !ok {
			return
		}
		switch step.Action {
		case logistics.ActionWithdraw, logistics.ActionPickup:
			n := min(step.Amount, o.Amount(step.Resource), agent.Free())
			move(o.Store, ensure(&agent.Carry), step.Resource, n)
			if o.Kind == world.KindDrop && o.Store.Total() == 0 {
				s.snap.RemoveObject(o.ID)
			}
		case logistics.ActionTransfer, logistics.ActionDrop:
			n := agent.Carry[step.Resource]
			if step.Amount > 0 {
				n = min(n, step.Amount)
			}
			if o.Kind != world.KindDrop {
				n = min(n, o.Free())
			}
			move(agent.Carry, ensure(&o.Store), step.Resource, n)
		}
	}
}

func (s *simulator) Transmit(from, to world.ID, amount int64) {
	src, ok := s.snap.Object(from)
	if !ok {
		return
	}
	dst, ok := s.snap.Object(to)
	if !ok {
		return
	}
	n := min(amount, src.Amount(world.Energy), dst.Free())
	move(src.Store, ensure(&dst.Store), world.Energy, n)
}

// mine adds a tick of energy to every site output.
func (s *simulator) mine(sites []*colony.MiningSite) {
	for _, site := range sites {
		if site.Miners <= 0 || site.Output == "" {
			continue
		}
		out, ok := s.snap.Object(site.Output)
		if !ok {
			continue
		}
		n := min(int64(site.EnergyPerTick), out.Free())
		if n > 0 {
			ensure(&out.Store)[world.Energy] += n
		}
	}
}

func move(from, to world.Store, r world.Resource, n int64) {
	if n <= 0 {
		return
	}
	from[r] -= n
	if from[r] == 0 {
		delete(from, r)
	}
	to[r] += n
}

func ensure(s *world.Store) world.Store {
	if *s == nil {
		*s = make(world.Store)
	}
	return *s
}
