// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colony

import (
	"github.com/someonegg/haulmatch/logistics"
	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/world"
)

// Consumers asks energy for every structure of Kinds that has room.
type Consumers struct {
	Kinds []world.Kind
}

func DefaultConsumers() *Consumers {
	return &Consumers{Kinds: []world.Kind{world.KindSpawn, world.KindExtension, world.KindTower}}
}

func (cs *Consumers) Init(c *Colony, snap *world.Snapshot) error {
	for _, kind := range cs.Kinds {
		for _, o := range snap.ObjectsOf(kind) {
			if free := o.Free(); free > 0 {
				if err := c.Network.RequestInput(o.ID, world.Energy, logistics.Rate{Amount: free}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// UpgradeSite is the controller's battery, drained by upgraders at
// PowerNeeded per tick.
type UpgradeSite struct {
	Battery     world.ID   `json:"battery"`
	Pos         travel.Pos `json:"pos"`
	PowerNeeded float64    `json:"power_needed"`
}

func (u *UpgradeSite) Init(c *Colony, snap *world.Snapshot) error {
	battery, ok := snap.Object(u.Battery)
	if !ok {
		return nil
	}
	free := battery.Free()
	if free <= 0 {
		return nil
	}
	return c.Network.RequestInput(battery.ID, world.Energy, logistics.Rate{DAmountDt: u.PowerNeeded, Amount: free})
}
