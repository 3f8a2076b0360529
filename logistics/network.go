// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/someonegg/haulmatch"
	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/world"
)

// Network is the logistics network of one colony. It is driven by a single
// goroutine: collaborators register during Begin..Run, Run matches and
// binds.
type Network struct {
	Colony   string
	Settings Settings

	registry *Registry
}

func NewNetwork(colony string, settings Settings) *Network {
	return &Network{
		Colony:   colony,
		Settings: settings,
		registry: NewRegistry(),
	}
}

func (n *Network) Registry() *Registry {
	return n.registry
}

// Begin starts a tick, dropping last tick's requests.
func (n *Network) Begin(tick uint64) {
	n.registry.Reset(tick)
}

func (n *Network) Provide(target world.ID, resource world.Resource, rate Rate) error {
	_, err := n.registry.Provide(target, resource, rate)
	return err
}

func (n *Network) RequestInput(target world.ID, resource world.Resource, rate Rate) error {
	_, err := n.registry.RequestInput(target, resource, rate)
	return err
}

func (n *Network) RequestOutput(target world.ID, resource world.Resource, rate Rate) error {
	_, err := n.registry.RequestOutput(target, resource, rate)
	return err
}

func (n *Network) RequestTransmit(link world.ID) error {
	return n.registry.RequestTransmit(link)
}

func (n *Network) Withdraw(target world.ID, resource world.Resource) bool {
	return n.registry.Withdraw(target, resource)
}

// Run matches the idle agents of tc.World to the registered requests and
// binds a task chain to each of them. A bad request or agent is skipped and
// reported, only an unusable tick context is an error.
func (n *Network) Run(tc *Tick) (*Report, error) {
	if tc == nil || tc.World == nil {
		return nil, errors.New("logistics: tick without world")
	}
	if tc.Pathing == nil {
		return nil, errors.New("logistics: tick without pathing")
	}
	if tc.Tick != tc.World.Tick {
		return nil, fmt.Errorf("logistics: tick %d, world at tick %d", tc.Tick, tc.World.Tick)
	}
	log := tc.logger().With("colony", n.Colony, "tick", tc.Tick)

	snap := tc.World
	pathing := travel.NewCachedPathing(tc.Pathing)
	predictor := NewPredictor(snap, pathing)
	resolver := NewBufferResolver(snap, predictor)
	binder := NewBinder(snap, predictor)

	report := &Report{Tick: tc.Tick, Colony: n.Colony}

	var live []*Request
	for _, req := range n.registry.All() {
		target, ok := snap.Object(req.Target)
		if !ok {
			log.Debug("request target missing", "request", req.ID)
			report.Skipped = append(report.Skipped, Skip{
				Request: req.ID,
				Reason:  fmt.Errorf("%w: %s", ErrMissingTarget, req.Target).Error(),
			})
			continue
		}
		req.Kind = target.Kind
		live = append(live, req)
	}

	var big, small []*world.Agent
	for _, agent := range snap.IdleAgents() {
		if n.Settings.PolicyFor(agent.Capacity).Kind == PolicyStable {
			big = append(big, agent)
		} else {
			small = append(small, agent)
		}
	}

	table := newValueTable(predictor, resolver)
	requests := genRequests(live)
	matches := make(haulmatch.Matches)
	policies := make(map[world.ID]PolicyKind)

	for _, group := range []struct {
		agents []*world.Agent
		policy Policy
	}{
		{big, n.Settings.PolicyFor(n.Settings.carryThreshold())},
		{small, Policy{Kind: PolicyGreedy, Greedy: n.Settings.Greedy}},
	} {
		if len(group.agents) == 0 {
			continue
		}
		ms := group.policy.Matcher(n.Settings.Verbose).Match(genCarriers(group.agents), requests, table)
		for id, m := range ms {
			matches[id] = m
		}
		for _, agent := range group.agents {
			policies[agent.ID] = group.policy.Kind
		}
	}

	byID := make(map[string]*Request, len(live))
	for _, req := range live {
		byID[req.ID] = req
	}
	served := make(map[string]bool)

	for _, agent := range snap.IdleAgents() {
		a := Assignment{Agent: agent.ID, Policy: policies[agent.ID]}

		var chain TaskChain
		if m, ok := matches[string(agent.ID)]; ok {
			req := byID[m.RequestID]
			p, _ := table.pairing(agent.ID, m.RequestID)
			a.Request, a.Amount = req.ID, p.predicted
			if p.choice.Buffer {
				a.Via = p.choice.Target
			}
			switch {
			case p.predicted > 0:
				chain = binder.Deliver(agent, req, p.predicted, p.choice)
			case p.predicted < 0:
				chain = binder.Collect(agent, req, p.predicted, p.choice)
			}
			if len(chain) > 0 {
				served[req.ID] = true
			}
		}
		if len(chain) == 0 {
			a.Request, a.Amount, a.Via = "", 0, ""
			chain = binder.Idle(agent)
			report.UnmatchedAgents = append(report.UnmatchedAgents, agent.ID)
		}
		a.Chain = chain

		if tc.Executor != nil {
			tc.Executor.Bind(agent.ID, chain)
		}
		report.Assignments = append(report.Assignments, a)

		log.Debug("agent bound", "agent", agent.ID, "request", a.Request,
			"policy", a.Policy.String(), "amount", a.Amount, "steps", len(chain))
	}

	for _, req := range live {
		if table.unreachableFromAll(req.ID) {
			log.Debug("request unreachable", "request", req.ID)
			report.Skipped = append(report.Skipped, Skip{
				Request: req.ID,
				Reason:  fmt.Errorf("%w: %s", ErrUnreachable, req.Target).Error(),
			})
			continue
		}
		if !served[req.ID] {
			report.UnmatchedRequests = append(report.UnmatchedRequests, req.ID)
		}
	}

	report.Transmissions = planTransmissions(snap, predictor, n.registry.Transmits())
	if tc.Links != nil {
		for _, t := range report.Transmissions {
			tc.Links.Transmit(t.From, t.To, t.Amount)
		}
	}

	if tc.Power != nil {
		report.TransportPower = NeededTransportPower(*tc.Power, pathing)
	}

	report.Digest = digestAssignments(tc.Tick, report.Assignments)

	log.Info("logistics tick",
		slog.Int("requests", len(live)),
		slog.Int("agents", len(report.Assignments)),
		slog.Int("unmatched_agents", len(report.UnmatchedAgents)),
		slog.Int("unmatched_requests", len(report.UnmatchedRequests)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("paths", pathing.Len()))

	return report, nil
}
