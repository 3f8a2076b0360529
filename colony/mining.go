// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colony

import (
	"fmt"

	"github.com/someonegg/haulmatch/logistics"
	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/world"
)

const (
	// TransportCapacityPerLevel scales the container fill level at which a
	// site asks to be emptied.
	TransportCapacityPerLevel = 200
	// MinerDeposit is what a miner drops into its link per deposit.
	MinerDeposit = 150
)

// MiningSite is one energy source and its output. Output is a container or a
// link, empty when the miners drop on the ground.
type MiningSite struct {
	Source        world.ID   `json:"source"`
	Pos           travel.Pos `json:"pos"`
	Output        world.ID   `json:"output,omitempty"`
	EnergyPerTick float64    `json:"energy_per_tick"`
	Miners        int        `json:"miners"`
}

func (s *MiningSite) Init(c *Colony, snap *world.Snapshot) error {
	if s.Output == "" {
		return s.provideDrops(c, snap)
	}
	out, ok := snap.Object(s.Output)
	if !ok {
		return nil // not built yet
	}

	switch out.Kind {
	case world.KindContainer:
		threshold := 0.8
		if c.Stage == logistics.StageLarva {
			threshold = 0.5
		}
		energy := out.Amount(world.Energy)
		if float64(energy) > threshold*float64(TransportCapacityPerLevel*c.Level) {
			return c.Network.Provide(out.ID, world.Energy, logistics.Rate{DAmountDt: s.EnergyPerTick, Amount: energy})
		}
	case world.KindLink:
		if out.Amount(world.Energy)+MinerDeposit > out.Capacity {
			return c.Network.RequestTransmit(out.ID)
		}
	default:
		return fmt.Errorf("mining site %s: output %s is a %s", s.Source, out.ID, out.Kind)
	}
	return nil
}

// provideDrops offers the energy dropped on the site's tile.
func (s *MiningSite) provideDrops(c *Colony, snap *world.Snapshot) error {
	for _, d := range snap.ObjectsOf(world.KindDrop) {
		if d.Pos != s.Pos {
			continue
		}
		if energy := d.Amount(world.Energy); energy > 0 {
			if err := c.Network.Provide(d.ID, world.Energy, logistics.Rate{DAmountDt: s.EnergyPerTick, Amount: energy}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *MiningSite) load(snap *world.Snapshot) logistics.MiningLoad {
	l := logistics.MiningLoad{
		Pos:           s.Pos,
		EnergyPerTick: s.EnergyPerTick,
		Miners:        s.Miners,
	}
	if s.Output == "" {
		l.DropMine = true
		return l
	}
	if out, ok := snap.Object(s.Output); ok && out.Kind == world.KindContainer {
		l.ContainerOutput = true
	}
	return l
}
