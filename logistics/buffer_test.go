// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/haulmatch/travel/grid"
	"github.com/someonegg/haulmatch/world"
)

func TestBufferResolver_Deliver(t *testing.T) {
	r := NewRegistry()
	req, _ := r.RequestInput("spawn", world.Energy, Rate{Amount: 300})

	t.Run("EmptyAgentGoesThroughBuffer", func(t *testing.T) {
		w := newTestWorld(t, 0)
		w.object("spawn", world.KindSpawn, at(20, 10), 300, nil)
		w.object("storage", world.KindStorage, at(12, 10), 10000, world.Store{world.Energy: 300})
		agent := w.agent("h1", at(10, 10), 100, nil)

		p := NewPredictor(w.snap, grid.New())
		b := NewBufferResolver(w.snap, p)

		choices := b.Choices(agent, req, 300)
		require.Len(t, choices, 2)
		assert.Equal(t, Choice{Target: "spawn", DQ: 0, DT: 10}, choices[0])
		assert.Equal(t, Choice{Target: "storage", Buffer: true, DQ: 100, DT: 10}, choices[1])

		best, ok := b.Resolve(agent, req, 300)
		require.True(t, ok)
		assert.Equal(t, world.ID("storage"), best.Target)
		assert.True(t, best.Buffer)
	})

	t.Run("LoadedAgentGoesDirect", func(t *testing.T) {
		w := newTestWorld(t, 0)
		w.object("spawn", world.KindSpawn, at(20, 10), 300, nil)
		w.object("storage", world.KindStorage, at(12, 10), 10000, world.Store{world.Energy: 300})
		agent := w.agent("h1", at(10, 10), 100, world.Store{world.Energy: 100})

		best, ok := NewBufferResolver(w.snap, NewPredictor(w.snap, grid.New())).Resolve(agent, req, 300)
		require.True(t, ok)
		assert.Equal(t, Choice{Target: "spawn", DQ: 100, DT: 10}, best)
	})

	t.Run("TopUpBeatsDetourOnlyWhenWorthIt", func(t *testing.T) {
		w := newTestWorld(t, 0)
		w.object("spawn", world.KindSpawn, at(20, 10), 300, nil)
		w.object("storage", world.KindStorage, at(12, 10), 10000, world.Store{world.Energy: 300})
		agent := w.agent("h1", at(10, 10), 100, world.Store{world.Energy: 5})

		best, ok := NewBufferResolver(w.snap, NewPredictor(w.snap, grid.New())).Resolve(agent, req, 300)
		require.True(t, ok)
		assert.True(t, best.Buffer)
		assert.Equal(t, int64(100), best.DQ)
	})

	t.Run("EqualBuffersLowestID", func(t *testing.T) {
		w := newTestWorld(t, 0)
		w.object("spawn", world.KindSpawn, at(20, 10), 300, nil)
		w.object("terminal", world.KindTerminal, at(12, 11), 10000, world.Store{world.Energy: 300})
		w.object("storage", world.KindStorage, at(12, 9), 10000, world.Store{world.Energy: 300})
		agent := w.agent("h1", at(10, 10), 100, nil)

		best, ok := NewBufferResolver(w.snap, NewPredictor(w.snap, grid.New())).Resolve(agent, req, 300)
		require.True(t, ok)
		assert.Equal(t, world.ID("storage"), best.Target)
	})

	t.Run("NothingToMove", func(t *testing.T) {
		w := newTestWorld(t, 0)
		w.object("spawn", world.KindSpawn, at(20, 10), 300, nil)
		agent := w.agent("h1", at(10, 10), 100, nil)

		_, ok := NewBufferResolver(w.snap, NewPredictor(w.snap, grid.New())).Resolve(agent, req, 300)
		assert.False(t, ok)
	})
}

func TestBufferResolver_Collect(t *testing.T) {
	r := NewRegistry()
	req, _ := r.Provide("container", world.Energy, Rate{Amount: 500})

	w := newTestWorld(t, 0)
	w.object("container", world.KindContainer, at(20, 10), 2000, world.Store{world.Energy: 500})
	w.object("storage", world.KindStorage, at(11, 10), 10000, nil)

	t.Run("EmptyAgentDirect", func(t *testing.T) {
		agent := &world.Agent{ID: "h1", Pos: at(10, 10), Capacity: 100, Carry: world.Store{}}
		best, ok := NewBufferResolver(w.snap, NewPredictor(w.snap, grid.New())).Resolve(agent, req, -500)
		require.True(t, ok)
		assert.Equal(t, Choice{Target: "container", DQ: -100, DT: 10}, best)
	})

	t.Run("FullAgentUnloadsFirst", func(t *testing.T) {
		agent := &world.Agent{ID: "h2", Pos: at(10, 10), Capacity: 100,
			Carry: world.Store{world.Hydrogen: 90}}
		best, ok := NewBufferResolver(w.snap, NewPredictor(w.snap, grid.New())).Resolve(agent, req, -500)
		require.True(t, ok)
		assert.Equal(t, Choice{Target: "storage", Buffer: true, DQ: -100, DT: 10}, best)
	})
}

func TestBufferResolver_Reservations(t *testing.T) {
	r := NewRegistry()
	req, _ := r.RequestInput("spawn", world.Energy, Rate{Amount: 300})

	w := newTestWorld(t, 0)
	w.object("spawn", world.KindSpawn, at(20, 10), 300, nil)
	w.object("storage", world.KindStorage, at(12, 10), 10000, world.Store{world.Energy: 60})
	agent := w.agent("h1", at(10, 10), 100, nil)

	p := NewPredictor(w.snap, grid.New())
	b := NewBufferResolver(w.snap, p)

	best, ok := b.Resolve(agent, req, 300)
	require.True(t, ok)
	assert.Equal(t, int64(60), best.DQ)

	p.ReserveBuffer("storage", world.Energy, 40, 0)
	best, ok = b.Resolve(agent, req, 300)
	require.True(t, ok)
	assert.Equal(t, int64(20), best.DQ)

	p.ReserveBuffer("storage", world.Energy, 20, 0)
	_, ok = b.Resolve(agent, req, 300)
	assert.False(t, ok, "the stock is promised to others")
}

func TestBufferResolver_CollectNeedsRoomForBoth(t *testing.T) {
	r := NewRegistry()
	req, _ := r.Provide("container", world.Energy, Rate{Amount: 500})

	w := newTestWorld(t, 0)
	w.object("container", world.KindContainer, at(20, 10), 2000, world.Store{world.Energy: 500})
	w.object("storage", world.KindStorage, at(11, 10), 1000, world.Store{world.Energy: 870})
	agent := w.agent("h1", at(10, 10), 100, world.Store{world.Hydrogen: 90})

	choices := NewBufferResolver(w.snap, NewPredictor(w.snap, grid.New())).Choices(agent, req, -500)
	require.Len(t, choices, 2)
	// 130 free: 90 unloaded leaves 40 for the pickup
	assert.Equal(t, Choice{Target: "storage", Buffer: true, DQ: -40, DT: 10}, choices[1])
}
