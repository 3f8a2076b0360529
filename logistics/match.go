// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"errors"

	"github.com/someonegg/haulmatch"
	"github.com/someonegg/haulmatch/world"
)

type pairKey struct {
	agent   world.ID
	request string
}

type pairing struct {
	predicted int64
	choice    Choice
}

// valueTable adapts the predictor and buffer resolver to haulmatch. It
// remembers the choice behind every value it hands out and books claims
// when the matcher commits.
type valueTable struct {
	predictor *Predictor
	resolver  *BufferResolver

	pairs       map[pairKey]pairing
	tried       map[string]int
	unreachable map[string]int
}

func newValueTable(predictor *Predictor, resolver *BufferResolver) *valueTable {
	return &valueTable{
		predictor:   predictor,
		resolver:    resolver,
		pairs:       make(map[pairKey]pairing),
		tried:       make(map[string]int),
		unreachable: make(map[string]int),
	}
}

func (t *valueTable) Find(carrier *haulmatch.Carrier, request *haulmatch.Request) haulmatch.Value {
	agent := carrier.Info.(*world.Agent)
	req := request.Info.(*Request)

	t.tried[req.ID]++
	predicted, _, err := t.predictor.PredictedAmount(agent, req)
	if err != nil {
		if errors.Is(err, ErrUnreachable) {
			t.unreachable[req.ID]++
		}
		return haulmatch.Value{}
	}
	choice, ok := t.resolver.Resolve(agent, req, predicted)
	if !ok {
		return haulmatch.Value{}
	}

	t.pairs[pairKey{agent.ID, req.ID}] = pairing{predicted, choice}
	return haulmatch.Value{Amount: choice.DQ, Travel: choice.DT}
}

func (t *valueTable) Commit(carrier *haulmatch.Carrier, request *haulmatch.Request, value haulmatch.Value) {
	agent := carrier.Info.(*world.Agent)
	req := request.Info.(*Request)
	t.predictor.Claim(req, value.Amount)

	p, ok := t.pairs[pairKey{agent.ID, req.ID}]
	if !ok || !p.choice.Buffer {
		return
	}
	if dq := p.choice.DQ; dq > 0 {
		t.predictor.ReserveBuffer(p.choice.Target, req.Resource, dq-minInt64(dq, agent.Carry[req.Resource]), 0)
	} else {
		t.predictor.ReserveBuffer(p.choice.Target, req.Resource, 0, agent.Carry.Total()-dq)
	}
}

func (t *valueTable) pairing(agent world.ID, request string) (pairing, bool) {
	p, ok := t.pairs[pairKey{agent, request}]
	return p, ok
}

// unreachableFromAll reports whether every agent that looked at the request
// failed to reach it.
func (t *valueTable) unreachableFromAll(request string) bool {
	n := t.unreachable[request]
	return n > 0 && n == t.tried[request]
}

func genCarriers(agents []*world.Agent) []haulmatch.Carrier {
	carriers := make([]haulmatch.Carrier, len(agents))
	for i, agent := range agents {
		carriers[i] = haulmatch.Carrier{
			ID:       string(agent.ID),
			Capacity: agent.Capacity,
			Info:     agent,
		}
	}
	return carriers
}

func genRequests(reqs []*Request) []haulmatch.Request {
	requests := make([]haulmatch.Request, len(reqs))
	for i, req := range reqs {
		requests[i] = haulmatch.Request{
			ID:   req.ID,
			Info: req,
		}
	}
	return requests
}
