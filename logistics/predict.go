// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"fmt"
	"math"

	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/world"
)

// Predictor forecasts how much a request will need (or offer) by the time an
// agent gets there. Claims of agents matched earlier in the tick are
// subtracted so that several agents do not chase the same amount, and
// buffer stock and room promised to them are reserved the same way.
type Predictor struct {
	snap    *world.Snapshot
	pathing travel.Pathing
	claims  map[requestKey]int64
	buffers ledger
}

func NewPredictor(snap *world.Snapshot, pathing travel.Pathing) *Predictor {
	return &Predictor{
		snap:    snap,
		pathing: pathing,
		claims:  make(map[requestKey]int64),
		buffers: newLedger(),
	}
}

// BaseAmount projects the request to the snapshot tick, without travel,
// claims or clamping.
func (p *Predictor) BaseAmount(req *Request) int64 {
	return p.project(req, 0)
}

func (p *Predictor) project(req *Request, travel int) int64 {
	var elapsed float64
	if p.snap.Tick > req.Tick {
		elapsed = float64(p.snap.Tick - req.Tick)
	}
	elapsed += float64(travel)

	v := float64(req.Amount) + math.Round(req.DAmountDt*elapsed)
	switch {
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= -math.MaxInt64:
		return -math.MaxInt64
	}
	return int64(v)
}

// Travel returns the ticks needed to get from -> to.
func (p *Predictor) Travel(from, to travel.Pos) (int, error) {
	if !p.pathing.IsReachable(from, to, nil) {
		return 0, fmt.Errorf("%w: %s -> %s", ErrUnreachable, from, to)
	}
	d, ok := p.pathing.Distance(from, to)
	if !ok {
		return 0, fmt.Errorf("%w: %s -> %s", ErrUnreachable, from, to)
	}
	return d, nil
}

// PredictedAmount returns the signed amount the target will want moved when
// the agent arrives, and the travel time. Zero means the pairing is
// pointless. The amount never exceeds the target's free capacity (inbound)
// or contents (outbound).
func (p *Predictor) PredictedAmount(agent *world.Agent, req *Request) (int64, int, error) {
	target, ok := p.snap.Object(req.Target)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingTarget, req.Target)
	}
	dt, err := p.Travel(agent.Pos, target.Pos)
	if err != nil {
		return 0, 0, err
	}

	amount := p.project(req, dt) - p.claims[requestKey{req.Target, req.Resource}]
	if req.Inbound() {
		amount = clamp(amount, 0, target.Free())
	} else {
		amount = clamp(amount, -target.Amount(req.Resource), 0)
	}
	return amount, dt, nil
}

// Claim books amount (signed like the request) as handled this tick.
func (p *Predictor) Claim(req *Request, amount int64) {
	p.claims[requestKey{req.Target, req.Resource}] += amount
}

func (p *Predictor) Claimed(req *Request) int64 {
	return p.claims[requestKey{req.Target, req.Resource}]
}

// BufferStock is what is left of r in buffer after the withdrawals reserved
// so far.
func (p *Predictor) BufferStock(buffer *world.Object, r world.Resource) int64 {
	return p.buffers.stock(buffer, r)
}

// BufferRoom is the free capacity of buffer after the deposits reserved so
// far.
func (p *Predictor) BufferRoom(buffer *world.Object) int64 {
	return p.buffers.room(buffer)
}

// ReserveBuffer books a withdrawal of r from buffer and a deposit into it.
func (p *Predictor) ReserveBuffer(buffer world.ID, r world.Resource, withdraw, deposit int64) {
	p.buffers.take(buffer, r, withdraw)
	p.buffers.fill(buffer, deposit)
}

func clamp(v, lo, hi int64) int64 {
	return maxInt64(lo, minInt64(v, hi))
}
