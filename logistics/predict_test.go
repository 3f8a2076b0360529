// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/travel/grid"
	"github.com/someonegg/haulmatch/world"
)

func TestPredictor_Inbound(t *testing.T) {
	r := NewRegistry()
	r.Reset(100)
	req, err := r.RequestInput("c1", world.Energy, Rate{DAmountDt: 10})
	require.NoError(t, err)

	t.Run("RateTimesElapsedTicks", func(t *testing.T) {
		w := newTestWorld(t, 105)
		w.object("c1", world.KindContainer, at(10, 10), 2000, nil)
		agent := w.agent("h1", at(10, 10), 100, nil)

		p := NewPredictor(w.snap, grid.New())
		amount, dt, err := p.PredictedAmount(agent, req)
		require.NoError(t, err)
		assert.Equal(t, int64(50), amount)
		assert.Equal(t, 0, dt)
		assert.Equal(t, int64(50), p.BaseAmount(req))
	})

	t.Run("ClampedToFreeCapacity", func(t *testing.T) {
		w := newTestWorld(t, 105)
		w.object("c1", world.KindContainer, at(10, 10), 100, world.Store{world.Energy: 70})
		agent := w.agent("h1", at(10, 10), 100, nil)

		amount, _, err := NewPredictor(w.snap, grid.New()).PredictedAmount(agent, req)
		require.NoError(t, err)
		assert.Equal(t, int64(30), amount)
	})

	t.Run("TravelExtendsProjection", func(t *testing.T) {
		w := newTestWorld(t, 105)
		w.object("c1", world.KindContainer, at(10, 10), 2000, nil)
		agent := w.agent("h1", at(13, 10), 100, nil)

		amount, dt, err := NewPredictor(w.snap, grid.New()).PredictedAmount(agent, req)
		require.NoError(t, err)
		assert.Equal(t, 3, dt)
		assert.Equal(t, int64(80), amount)
	})
}

func TestPredictor_Outbound(t *testing.T) {
	r := NewRegistry()
	r.Reset(100)
	req, err := r.Provide("c1", world.Energy, Rate{DAmountDt: 10})
	require.NoError(t, err)

	w := newTestWorld(t, 105)
	w.object("c1", world.KindContainer, at(10, 10), 2000, world.Store{world.Energy: 100})
	near := w.agent("near", at(13, 10), 100, nil)
	far := w.agent("far", at(20, 10), 100, nil)

	p := NewPredictor(w.snap, grid.New())

	amount, _, err := p.PredictedAmount(near, req)
	require.NoError(t, err)
	assert.Equal(t, int64(-80), amount)

	amount, _, err = p.PredictedAmount(far, req)
	require.NoError(t, err)
	assert.Equal(t, int64(-100), amount, "never more than the contents")

	t.Run("ClaimsReduceLaterPredictions", func(t *testing.T) {
		p.Claim(req, -60)
		assert.Equal(t, int64(-60), p.Claimed(req))
		amount, _, err := p.PredictedAmount(near, req)
		require.NoError(t, err)
		assert.Equal(t, int64(-20), amount)

		p.Claim(req, -60)
		amount, _, err = p.PredictedAmount(near, req)
		require.NoError(t, err)
		assert.Equal(t, int64(0), amount, "over-claimed requests clamp to zero")
	})
}

func TestPredictor_Errors(t *testing.T) {
	r := NewRegistry()
	req, _ := r.RequestInput("gone", world.Energy, Rate{Amount: 10})

	w := newTestWorld(t, 1)
	agent := w.agent("h1", at(1, 1), 100, nil)
	_, _, err := NewPredictor(w.snap, grid.New()).PredictedAmount(agent, req)
	assert.ErrorIs(t, err, ErrMissingTarget)

	w.object("gone", world.KindSpawn, at(9, 9), 300, nil)
	pathing := travel.NewComplexPathing(grid.New(), []travel.DistanceRecord{
		{DistanceKey: travel.DistanceKey{From: at(1, 1), To: at(9, 9)}, DistanceVal: travel.DistanceVal{Unreachable: true}},
	})
	_, _, err = NewPredictor(w.snap, pathing).PredictedAmount(agent, req)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestPredictor_HugeRate(t *testing.T) {
	r := NewRegistry()
	r.Reset(100)
	in, err := r.RequestInput("c1", world.Energy, Rate{DAmountDt: 1e19})
	require.NoError(t, err)
	out, err := r.Provide("c2", world.Energy, Rate{DAmountDt: 1e19})
	require.NoError(t, err)

	w := newTestWorld(t, 105)
	w.object("c1", world.KindContainer, at(10, 10), 2000, nil)
	w.object("c2", world.KindContainer, at(12, 10), 2000, world.Store{world.Energy: 700})
	agent := w.agent("h1", at(11, 10), 100, nil)

	p := NewPredictor(w.snap, grid.New())
	amount, _, err := p.PredictedAmount(agent, in)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), amount, "saturates, then clamps to the free capacity")

	amount, _, err = p.PredictedAmount(agent, out)
	require.NoError(t, err)
	assert.Equal(t, int64(-700), amount)
}

// wallPathing knows distances but treats every pair as blocked.
type wallPathing struct {
	travel.Pathing
}

func (wallPathing) IsReachable(a, b travel.Pos, obstacles []travel.Pos) bool {
	return false
}

func TestPredictor_ReachabilityQuery(t *testing.T) {
	r := NewRegistry()
	req, _ := r.RequestInput("spawn", world.Energy, Rate{Amount: 10})

	w := newTestWorld(t, 1)
	w.object("spawn", world.KindSpawn, at(9, 9), 300, nil)
	agent := w.agent("h1", at(1, 1), 100, nil)

	_, _, err := NewPredictor(w.snap, wallPathing{grid.New()}).PredictedAmount(agent, req)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestPredictor_BufferReservations(t *testing.T) {
	w := newTestWorld(t, 1)
	storage := w.object("storage", world.KindStorage, at(9, 9), 1000, world.Store{world.Energy: 300, world.Hydrogen: 100})

	p := NewPredictor(w.snap, grid.New())
	assert.Equal(t, int64(300), p.BufferStock(storage, world.Energy))
	assert.Equal(t, int64(600), p.BufferRoom(storage))

	p.ReserveBuffer("storage", world.Energy, 120, 0)
	p.ReserveBuffer("storage", world.Energy, 0, 250)
	assert.Equal(t, int64(180), p.BufferStock(storage, world.Energy))
	assert.Equal(t, int64(100), p.BufferStock(storage, world.Hydrogen))
	assert.Equal(t, int64(350), p.BufferRoom(storage))

	p.ReserveBuffer("storage", world.Energy, 500, 500)
	assert.Equal(t, int64(0), p.BufferStock(storage, world.Energy))
	assert.Equal(t, int64(0), p.BufferRoom(storage))
}
