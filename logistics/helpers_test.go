// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/travel/grid"
	"github.com/someonegg/haulmatch/world"
)

const room = "W1N1"

func at(x, y int) travel.Pos {
	return travel.Pos{Room: room, X: x, Y: y}
}

type testWorld struct {
	t    *testing.T
	snap *world.Snapshot
}

func newTestWorld(t *testing.T, tick uint64) *testWorld {
	return &testWorld{t: t, snap: world.NewSnapshot(room, tick)}
}

func (w *testWorld) object(id string, kind world.Kind, pos travel.Pos, capacity int64, store world.Store) *world.Object {
	o := &world.Object{ID: world.ID(id), Kind: kind, Pos: pos, Capacity: capacity, Store: store}
	require.NoError(w.t, w.snap.AddObject(o))
	return o
}

func (w *testWorld) agent(id string, pos travel.Pos, capacity int64, carry world.Store) *world.Agent {
	a := &world.Agent{ID: world.ID(id), Pos: pos, Capacity: capacity, Carry: carry}
	require.NoError(w.t, w.snap.AddAgent(a))
	return a
}

func (w *testWorld) tick(pathing travel.Pathing, exec TaskExecutor) *Tick {
	if pathing == nil {
		pathing = grid.New()
	}
	return &Tick{Tick: w.snap.Tick, World: w.snap, Pathing: pathing, Executor: exec}
}

type recordingExecutor struct {
	chains map[world.ID]TaskChain
	order  []world.ID
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{chains: make(map[world.ID]TaskChain)}
}

func (e *recordingExecutor) Bind(agent world.ID, chain TaskChain) {
	e.chains[agent] = chain
	e.order = append(e.order, agent)
}

type recordingLinks struct {
	sent []Transmission
}

func (l *recordingLinks) Transmit(from, to world.ID, amount int64) {
	l.sent = append(l.sent, Transmission{From: from, To: to, Amount: amount})
}

func int64p(v int64) *int64 {
	return &v
}
