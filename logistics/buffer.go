// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"github.com/someonegg/haulmatch/world"
)

// Choice is one way to serve a request: straight at the target, or through
// a buffer first. DQ is the signed amount moved, DT the travel ticks.
type Choice struct {
	Target world.ID
	Buffer bool
	DQ     int64
	DT     int
}

func (c Choice) rate() float64 {
	dt := c.DT
	if dt < 1 {
		dt = 1
	}
	return float64(absInt64(c.DQ)) / float64(dt)
}

// better ranks by rate, then shorter travel, then direct over buffered, then
// lower buffer ID.
func (c Choice) better(o Choice) bool {
	if r1, r2 := c.rate(), o.rate(); r1 != r2 {
		return r1 > r2
	}
	if c.DT != o.DT {
		return c.DT < o.DT
	}
	if c.Buffer != o.Buffer {
		return !c.Buffer
	}
	return c.Target < o.Target
}

type BufferResolver struct {
	snap      *world.Snapshot
	predictor *Predictor
}

func NewBufferResolver(snap *world.Snapshot, predictor *Predictor) *BufferResolver {
	return &BufferResolver{snap: snap, predictor: predictor}
}

// Choices lists the direct choice first, then one choice per usable buffer
// in ID order. predicted is the request's predicted amount for this agent.
func (b *BufferResolver) Choices(agent *world.Agent, req *Request, predicted int64) []Choice {
	target, ok := b.snap.Object(req.Target)
	if !ok || predicted == 0 {
		return nil
	}
	direct, err := b.predictor.Travel(agent.Pos, target.Pos)
	if err != nil {
		return nil
	}

	choices := []Choice{{Target: target.ID}}
	if predicted > 0 {
		// deliver what is carried
		choices[0].DQ = minInt64(predicted, agent.Carry[req.Resource])
	} else {
		choices[0].DQ = -minInt64(-predicted, agent.Free())
	}
	choices[0].DT = direct

	for _, buffer := range b.snap.Objects() {
		if buffer.ID == target.ID || !buffer.Kind.Buffer() {
			continue
		}
		toBuffer, err := b.predictor.Travel(agent.Pos, buffer.Pos)
		if err != nil {
			continue
		}
		onward, err := b.predictor.Travel(buffer.Pos, target.Pos)
		if err != nil {
			continue
		}

		c := Choice{Target: buffer.ID, Buffer: true, DT: toBuffer + onward}
		if predicted > 0 {
			// top up at the buffer first
			stock := b.predictor.BufferStock(buffer, req.Resource)
			if stock <= 0 || agent.Free() <= 0 {
				continue
			}
			c.DQ = minInt64(predicted, agent.Carry[req.Resource]+minInt64(stock, agent.Free()))
		} else {
			// unload the cargo first to make room, the pickup comes back
			// here too
			carried := agent.Carry.Total()
			room := b.predictor.BufferRoom(buffer) - carried
			if carried <= 0 || room <= 0 {
				continue
			}
			c.DQ = -minInt64(minInt64(-predicted, agent.Capacity), room)
		}
		choices = append(choices, c)
	}
	return choices
}

// Resolve returns the best choice. ok is false if nothing can be moved.
func (b *BufferResolver) Resolve(agent *world.Agent, req *Request, predicted int64) (best Choice, ok bool) {
	for _, c := range b.Choices(agent, req, predicted) {
		if c.DQ == 0 {
			continue
		}
		if !ok || c.better(best) {
			best, ok = c, true
		}
	}
	return best, ok
}
