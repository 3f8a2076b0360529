// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/someonegg/haulmatch/travel/grid"
)

func powerInput(stage Stage, lowPower bool) PowerInput {
	dropoff := at(25, 25)
	return PowerInput{
		Stage:    stage,
		LowPower: lowPower,
		Dropoff:  &dropoff,
		Sites: []MiningLoad{
			{Pos: at(5, 25), EnergyPerTick: 10, Miners: 1, ContainerOutput: true},
			{Pos: at(25, 5), EnergyPerTick: 10, Miners: 1, DropMine: true},
			{Pos: at(45, 45), EnergyPerTick: 10, Miners: 0, ContainerOutput: true},
		},
		UpgradePowerNeeded: 2,
		UpgradePos:         at(25, 40),
	}
}

func TestNeededTransportPower(t *testing.T) {
	g := grid.New()

	tests := []struct {
		name  string
		input PowerInput
		want  float64
	}{
		{"adult", powerInput(StageAdult, false), 13.3},
		{"low power", powerInput(StageAdult, true), 7.175},
		{"larva", powerInput(StageLarva, false), 11.4},
		{"no dropoff", PowerInput{Stage: StageAdult, Sites: []MiningLoad{{Pos: at(5, 5), EnergyPerTick: 10, Miners: 1, ContainerOutput: true}}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NeededTransportPower(tt.input, g), 1e-9)
		})
	}
}
