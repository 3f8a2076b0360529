// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"github.com/someonegg/haulmatch/travel"
)

// CarryCapacity is what one carry part holds.
const CarryCapacity = 50

type Stage int

const (
	StageLarva Stage = iota
	StageInfant
	StageAdult
)

type MiningLoad struct {
	Pos             travel.Pos
	EnergyPerTick   float64
	Miners          int
	ContainerOutput bool
	DropMine        bool
}

type PowerInput struct {
	Stage    Stage
	LowPower bool
	// Dropoff is where mined energy goes, nil when the colony has neither
	// a command center nor a hatchery battery.
	Dropoff *travel.Pos
	Sites   []MiningLoad

	UpgradePowerNeeded float64
	UpgradePos         travel.Pos
}

// NeededTransportPower estimates how many carry parts the colony needs to
// keep mined and upgrade energy flowing.
func NeededTransportPower(in PowerInput, pathing travel.Pathing) float64 {
	if in.Dropoff == nil {
		return 0
	}
	scaling := 1.75 // round trip
	if in.Stage == StageLarva {
		scaling = 1.5
	}

	distance := func(a, b travel.Pos) float64 {
		d, ok := pathing.Distance(a, b)
		if !ok {
			return 0
		}
		return float64(d)
	}

	var power float64
	for _, site := range in.Sites {
		if site.Miners <= 0 {
			continue
		}
		switch {
		case site.ContainerOutput:
			power += site.EnergyPerTick * scaling * distance(site.Pos, *in.Dropoff)
		case site.DropMine:
			power += .75 * site.EnergyPerTick * scaling * distance(site.Pos, *in.Dropoff)
		}
	}
	if in.LowPower {
		power *= 0.5
	}
	power += in.UpgradePowerNeeded * scaling * distance(*in.Dropoff, in.UpgradePos)
	return power / CarryCapacity
}
