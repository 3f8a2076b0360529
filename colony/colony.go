// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colony holds the per-role collaborators that register a colony's
// logistics requests, and drives one tick of its network.
package colony

import (
	"errors"
	"log/slog"

	"github.com/someonegg/haulmatch/logistics"
	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/world"
)

// Collaborator registers the requests of one role. Init runs once per tick,
// before the network matches.
type Collaborator interface {
	Init(c *Colony, snap *world.Snapshot) error
}

type Colony struct {
	Name     string
	Level    int
	Stage    logistics.Stage
	LowPower bool

	Network   *logistics.Network
	Sites     []*MiningSite
	Consumers *Consumers
	Upgrade   *UpgradeSite // optional
}

func New(name string, level int, settings logistics.Settings) *Colony {
	return &Colony{
		Name:      name,
		Level:     level,
		Stage:     StageOf(level),
		Network:   logistics.NewNetwork(name, settings),
		Consumers: DefaultConsumers(),
	}
}

// StageOf maps a controller level to the colony stage.
func StageOf(level int) logistics.Stage {
	switch {
	case level < 3:
		return logistics.StageLarva
	case level < 6:
		return logistics.StageInfant
	}
	return logistics.StageAdult
}

func (c *Colony) collaborators() []Collaborator {
	var cs []Collaborator
	for _, s := range c.Sites {
		cs = append(cs, s)
	}
	if c.Consumers != nil {
		cs = append(cs, c.Consumers)
	}
	if c.Upgrade != nil {
		cs = append(cs, c.Upgrade)
	}
	return cs
}

// Init starts the tick of snap and lets every collaborator register. A
// failing collaborator does not stop the others, their errors are joined.
func (c *Colony) Init(snap *world.Snapshot) error {
	c.Network.Begin(snap.Tick)
	var errs []error
	for _, co := range c.collaborators() {
		if err := co.Init(c, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tick registers the colony's requests and runs its network over tc. When
// tc carries no power input the colony's own estimate input is used.
func (c *Colony) Tick(tc *logistics.Tick) (*logistics.Report, error) {
	if tc == nil || tc.World == nil {
		return nil, errors.New("colony: tick without world")
	}
	log := tc.Logger
	if log == nil {
		log = slog.Default()
	}

	if err := c.Init(tc.World); err != nil {
		log.Warn("colony init", "colony", c.Name, "tick", tc.Tick, "err", err)
	}
	if tc.Power == nil {
		in := c.PowerInput(tc.World)
		tc.Power = &in
	}
	return c.Network.Run(tc)
}

// PowerInput describes the colony's hauling load for
// logistics.NeededTransportPower.
func (c *Colony) PowerInput(snap *world.Snapshot) logistics.PowerInput {
	in := logistics.PowerInput{
		Stage:    c.Stage,
		LowPower: c.LowPower,
		Dropoff:  dropoffPoint(snap),
	}
	for _, s := range c.Sites {
		in.Sites = append(in.Sites, s.load(snap))
	}
	if c.Upgrade != nil {
		in.UpgradePowerNeeded = c.Upgrade.PowerNeeded
		in.UpgradePos = c.Upgrade.Pos
	}
	return in
}

// dropoffPoint is the storage, else the first spawn.
func dropoffPoint(snap *world.Snapshot) *travel.Pos {
	if storage, ok := snap.Object(snap.Storage); ok {
		pos := storage.Pos
		return &pos
	}
	if spawns := snap.ObjectsOf(world.KindSpawn); len(spawns) > 0 {
		pos := spawns[0].Pos
		return &pos
	}
	return nil
}
