// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"sort"

	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/world"
)

// Binder decides what an idle agent does with its assignment. How the agent
// moves and executes the steps is up to the task execution layer. Stock and
// room bound to earlier agents are booked, so one binder serves one tick.
type Binder struct {
	snap      *world.Snapshot
	predictor *Predictor
	book      ledger
}

func NewBinder(snap *world.Snapshot, predictor *Predictor) *Binder {
	return &Binder{snap: snap, predictor: predictor, book: newLedger()}
}

// Deliver chains an optional buffer withdrawal before the transfer into the
// target.
func (b *Binder) Deliver(agent *world.Agent, req *Request, predicted int64, choice Choice) TaskChain {
	target, ok := b.snap.Object(req.Target)
	if !ok {
		return nil
	}

	var chain TaskChain
	carried := agent.Carry[req.Resource]
	if choice.Buffer {
		if buffer, ok := b.snap.Object(choice.Target); ok {
			amount := minInt64(b.book.stock(buffer, req.Resource), minInt64(agent.Free(), predicted-carried))
			if amount > 0 {
				chain = append(chain, Step{
					Action:   ActionWithdraw,
					Target:   buffer.ID,
					Pos:      buffer.Pos,
					Resource: req.Resource,
					Amount:   amount,
				})
				b.book.take(buffer.ID, req.Resource, amount)
				carried += amount
			}
		}
	}

	amount := minInt64(minInt64(predicted, carried), b.book.room(target))
	if amount <= 0 {
		return chain
	}
	action := ActionTransfer
	if target.Kind == world.KindDrop {
		action = ActionDrop
	}
	b.book.fill(target.ID, amount)
	return append(chain, Step{
		Action:   action,
		Target:   target.ID,
		Pos:      target.Pos,
		Resource: req.Resource,
		Amount:   amount,
	})
}

// Collect chains an optional unload at a buffer, the pickup at the target
// and the trip home. The trip home carries no more than home has room for.
func (b *Binder) Collect(agent *world.Agent, req *Request, predicted int64, choice Choice) TaskChain {
	target, ok := b.snap.Object(req.Target)
	if !ok {
		return nil
	}

	var chain TaskChain
	free := agent.Free()
	var home *world.Object
	if choice.Buffer {
		if buffer, ok := b.snap.Object(choice.Target); ok {
			unload := b.unload(agent, buffer)
			for _, s := range unload {
				free += s.Amount
			}
			chain = append(chain, unload...)
			home = buffer
		}
	}

	amount := minInt64(minInt64(-predicted, free), b.book.stock(target, req.Resource))
	if amount <= 0 {
		return chain
	}
	action := ActionWithdraw
	if target.Kind == world.KindDrop {
		action = ActionPickup
	}
	chain = append(chain, Step{
		Action:   action,
		Target:   target.ID,
		Pos:      target.Pos,
		Resource: req.Resource,
		Amount:   amount,
	})
	b.book.take(target.ID, req.Resource, amount)

	if home == nil {
		home = b.nearestDropoff(target.Pos, req.Resource, amount)
	}
	if home == nil || home.ID == target.ID {
		return chain
	}
	if n := minInt64(amount, b.book.room(home)); n > 0 {
		chain = append(chain, Step{
			Action:   ActionTransfer,
			Target:   home.ID,
			Pos:      home.Pos,
			Resource: req.Resource,
			Amount:   n,
		})
		b.book.fill(home.ID, n)
	}
	return chain
}

// Idle binds an agent without a usable assignment. Cargo always heads for
// the nearest dropoff, a full one included; only an empty agent parks.
func (b *Binder) Idle(agent *world.Agent) TaskChain {
	if agent.Carry.Total() > 0 {
		var chain TaskChain
		for _, r := range carriedResources(agent) {
			carried := agent.Carry[r]
			dropoff := b.nearestDropoff(agent.Pos, r, carried)
			if dropoff == nil {
				continue
			}
			// zero when the dropoff is full
			amount := minInt64(carried, b.book.room(dropoff))
			b.book.fill(dropoff.ID, amount)
			chain = append(chain, Step{
				Action:   ActionTransfer,
				Target:   dropoff.ID,
				Pos:      dropoff.Pos,
				Resource: r,
				Amount:   amount,
			})
		}
		if len(chain) > 0 {
			return chain
		}
	}
	return TaskChain{{Action: ActionPark, Pos: b.parkingSpot(agent)}}
}

func (b *Binder) unload(agent *world.Agent, buffer *world.Object) TaskChain {
	var chain TaskChain
	for _, r := range carriedResources(agent) {
		amount := minInt64(agent.Carry[r], b.book.room(buffer))
		if amount <= 0 {
			continue
		}
		chain = append(chain, Step{
			Action:   ActionTransfer,
			Target:   buffer.ID,
			Pos:      buffer.Pos,
			Resource: r,
			Amount:   amount,
		})
		b.book.fill(buffer.ID, amount)
	}
	return chain
}

// nearestDropoff picks among the storage, the terminal and dropoff links
// (energy only). A dropoff with room for need beats one with some room,
// which beats a full one; then the closest to from, ties by ID.
func (b *Binder) nearestDropoff(from travel.Pos, r world.Resource, need int64) *world.Object {
	var (
		best      *world.Object
		bestClass int
		bestDist  int
	)
	for _, o := range b.snap.Objects() {
		switch {
		case o.Kind.Buffer():
		case o.Kind == world.KindLink && o.Dropoff && r == world.Energy:
		default:
			continue
		}
		d, err := b.predictor.Travel(from, o.Pos)
		if err != nil {
			continue
		}

		class := 2
		switch room := b.book.room(o); {
		case room >= need:
			class = 0
		case room > 0:
			class = 1
		}
		if best == nil || class < bestClass || class == bestClass && d < bestDist {
			best, bestClass, bestDist = o, class, d
		}
	}
	return best
}

func (b *Binder) parkingSpot(agent *world.Agent) travel.Pos {
	if storage, ok := b.snap.Object(b.snap.Storage); ok {
		return storage.Pos
	}
	if b.snap.PlannedStorage != nil {
		return *b.snap.PlannedStorage
	}
	return agent.Pos
}

func carriedResources(agent *world.Agent) []world.Resource {
	var rs []world.Resource
	for r, v := range agent.Carry {
		if v > 0 {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		return rs[i] < rs[j]
	})
	return rs
}
