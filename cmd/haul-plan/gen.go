// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/someonegg/haulmatch/colony"
	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/travel/grid"
	"github.com/someonegg/haulmatch/world"
)

const wallThreshold = 0.68

type genOptions struct {
	Seed    int64
	Room    string
	Level   int
	Agents  int
	Sources int
}

func (o genOptions) validate() error {
	if _, _, ok := grid.RoomCoord(o.Room); !ok {
		return errors.New("invalid room")
	}
	if !(o.Level >= 1 && o.Level <= 8) {
		return errors.New("invalid level")
	}
	if !(o.Agents >= 1 && o.Agents <= 100) {
		return errors.New("invalid agents")
	}
	if !(o.Sources >= 1 && o.Sources <= 4) {
		return errors.New("invalid sources")
	}
	return nil
}

func doGen(ctx context.Context, outFile string, opts genOptions) error {
	s := generate(opts)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeJSON(outFile, s); err != nil {
		return fmt.Errorf("write scenario file failed: %w", err)
	}
	return nil
}

type placer struct {
	room  string
	rng   *rand.Rand
	taken map[[2]int]bool
}

func (p *placer) free(x, y int) bool {
	return x > 0 && y > 0 && x < grid.RoomSize-1 && y < grid.RoomSize-1 && !p.taken[[2]int{x, y}]
}

// near takes the free tile closest to (x, y), scanning rings outwards.
func (p *placer) near(x, y int) travel.Pos {
	for r := 0; r < grid.RoomSize; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				if p.free(x+dx, y+dy) {
					return p.take(x+dx, y+dy)
				}
			}
		}
	}
	return travel.Pos{Room: p.room, X: x, Y: y}
}

func (p *placer) random() travel.Pos {
	for {
		x, y := 1+p.rng.Intn(grid.RoomSize-2), 1+p.rng.Intn(grid.RoomSize-2)
		if p.free(x, y) {
			return p.take(x, y)
		}
	}
}

func (p *placer) take(x, y int) travel.Pos {
	p.taken[[2]int{x, y}] = true
	return travel.Pos{Room: p.room, X: x, Y: y}
}

func generate(opts genOptions) *Scenario {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	room := grid.UnifyRoom(opts.Room)
	noise := opensimplex.NewNormalized(seed)
	richness := opensimplex.NewNormalized(seed + 1)

	s := &Scenario{Colony: room, Level: opts.Level}
	p := &placer{room: room, rng: rand.New(rand.NewSource(seed)), taken: make(map[[2]int]bool)}

	for y := 0; y < grid.RoomSize; y++ {
		for x := 0; x < grid.RoomSize; x++ {
			if octaveNoise(noise, float64(x), float64(y), 3, 0.08, 0.5) > wallThreshold {
				s.Walls = append(s.Walls, p.take(x, y))
			}
		}
	}

	add := func(id string, kind world.Kind, pos travel.Pos, capacity int64, store world.Store) *world.Object {
		o := &world.Object{ID: world.ID(id), Kind: kind, Pos: pos, Capacity: capacity, Store: store}
		s.Objects = append(s.Objects, o)
		return o
	}
	energy := func(pos travel.Pos, limit float64) world.Store {
		v := octaveNoise(richness, float64(pos.X), float64(pos.Y), 2, 0.1, 0.5)
		return world.Store{world.Energy: int64(v * limit)}
	}

	center := grid.RoomSize / 2
	storagePos := p.near(center, center)
	if opts.Level >= 4 {
		add("storage", world.KindStorage, storagePos, 1000000, energy(storagePos, 50000))
	} else {
		s.PlannedStorage = &storagePos
	}
	add("spawn1", world.KindSpawn, p.near(center+3, center), 300, world.Store{world.Energy: 100})
	for i := 0; i < extensionCount(opts.Level); i++ {
		add(fmt.Sprintf("ext%d", i+1), world.KindExtension, p.near(center-3, center+2), extensionCapacity(opts.Level), nil)
	}
	if opts.Level >= 3 {
		add("tower1", world.KindTower, p.near(center, center-4), 1000, world.Store{world.Energy: 300})
	}

	for i := 0; i < opts.Sources; i++ {
		pos := p.random()
		site := &colony.MiningSite{
			Source:        world.ID(fmt.Sprintf("source%d", i+1)),
			Pos:           pos,
			EnergyPerTick: 10,
			Miners:        1,
		}
		switch {
		case i == 0 && opts.Level >= 5:
			link := add(fmt.Sprintf("link%d", i+1), world.KindLink, p.near(pos.X, pos.Y), 800, energy(pos, 800))
			site.Output = link.ID
		case opts.Level >= 2:
			c := add(fmt.Sprintf("container%d", i+1), world.KindContainer, p.near(pos.X, pos.Y), 2000, energy(pos, 2000))
			site.Output = c.ID
		default:
			add(fmt.Sprintf("drop%d", i+1), world.KindDrop, pos, 0, energy(pos, 500))
		}
		s.Sites = append(s.Sites, site)
	}
	if opts.Level >= 5 {
		r := add("link0", world.KindLink, p.near(storagePos.X, storagePos.Y), 800, nil)
		r.Receiver, r.Dropoff = true, true
	}

	batteryPos := p.random()
	add("battery", world.KindContainer, batteryPos, 2000, energy(batteryPos, 2000))
	s.Upgrade = &colony.UpgradeSite{Battery: "battery", Pos: batteryPos, PowerNeeded: float64(2 * opts.Level)}

	for i := 0; i < opts.Agents; i++ {
		s.Agents = append(s.Agents, &world.Agent{
			ID:       world.ID(fmt.Sprintf("hauler%d", i+1)),
			Pos:      p.random(),
			Capacity: int64(100 * opts.Level),
		})
	}
	return s
}

func extensionCount(level int) int {
	if level < 2 {
		return 0
	}
	n := 5 * (level - 1)
	if n > 20 {
		n = 20
	}
	return n
}

func extensionCapacity(level int) int64 {
	switch {
	case level >= 8:
		return 200
	case level >= 7:
		return 100
	}
	return 50
}

// octaveNoise layers frequencies of noise into a fractal in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
