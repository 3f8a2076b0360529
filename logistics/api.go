// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logistics turns the transfer requests of one colony into task
// chains for its idle haulers, once per tick.
package logistics

import (
	"errors"
	"log/slog"

	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/world"
)

var (
	ErrMissingTarget  = errors.New("target missing")
	ErrUnreachable    = errors.New("target unreachable")
	ErrInvalidRequest = errors.New("invalid request")
)

// Request asks for resources to be moved into (positive) or out of
// (negative) a target. DAmountDt is a rate in units per tick, Amount is the
// offset observed at Tick.
type Request struct {
	ID        string         `json:"id"`
	Target    world.ID       `json:"target"`
	Kind      world.Kind     `json:"kind,omitempty"` // target's, set when matched
	Resource  world.Resource `json:"resource"`
	DAmountDt float64        `json:"dAmountdt"`
	Amount    int64          `json:"amount"`
	Tick      uint64         `json:"tick"`
}

// Inbound reports whether the target wants to receive.
func (r *Request) Inbound() bool {
	if r.DAmountDt != 0 {
		return r.DAmountDt > 0
	}
	return r.Amount > 0
}

type Rate struct {
	DAmountDt float64 `json:"dAmountdt" yaml:"dAmountdt"`
	Amount    int64   `json:"amount" yaml:"amount"`
}

type Action string

const (
	ActionWithdraw Action = "withdraw"
	ActionTransfer Action = "transfer"
	ActionPickup   Action = "pickup"
	ActionDrop     Action = "drop"
	ActionPark     Action = "park"
)

type Step struct {
	Action   Action         `json:"action"`
	Target   world.ID       `json:"target,omitempty"`
	Pos      travel.Pos     `json:"pos"`
	Resource world.Resource `json:"resource,omitempty"`
	Amount   int64          `json:"amount,omitempty"` // zero on a transfer: whatever fits
}

// TaskChain is executed in order by the task execution layer.
type TaskChain []Step

// TaskExecutor is the task execution layer. It is handed a fresh chain each
// time an agent is idle, progress is never inspected.
type TaskExecutor interface {
	Bind(agent world.ID, chain TaskChain)
}

// LinkOperator sends energy between links.
type LinkOperator interface {
	Transmit(from, to world.ID, amount int64)
}

// Tick is everything one colony pass needs. No state outside it is read.
type Tick struct {
	Tick     uint64
	World    *world.Snapshot
	Pathing  travel.Pathing
	Executor TaskExecutor // optional
	Links    LinkOperator // optional
	Power    *PowerInput  // optional, fills Report.TransportPower
	Logger   *slog.Logger // optional
}

func (tc *Tick) logger() *slog.Logger {
	if tc.Logger != nil {
		return tc.Logger
	}
	return slog.Default()
}

type Assignment struct {
	Agent   world.ID   `json:"agent"`
	Request string     `json:"request,omitempty"`
	Policy  PolicyKind `json:"policy"`
	Amount  int64      `json:"amount"` // predicted, signed
	Via     world.ID   `json:"via,omitempty"`
	Chain   TaskChain  `json:"chain"`
}

type Skip struct {
	Request string `json:"request"`
	Reason  string `json:"reason"`
}

type Transmission struct {
	From   world.ID `json:"from"`
	To     world.ID `json:"to"`
	Amount int64    `json:"amount"`
}

// Report summarizes a tick. Unmatched agents and requests are the normal
// outcome of a supply and demand imbalance.
type Report struct {
	Tick              uint64         `json:"tick"`
	Colony            string         `json:"colony"`
	Assignments       []Assignment   `json:"assignments"`
	UnmatchedAgents   []world.ID     `json:"unmatched_agents,omitempty"`
	UnmatchedRequests []string       `json:"unmatched_requests,omitempty"`
	Skipped           []Skip         `json:"skipped,omitempty"`
	Transmissions     []Transmission `json:"transmissions,omitempty"`
	TransportPower    float64        `json:"transport_power,omitempty"`
	Digest            string         `json:"digest"`
}

func requestID(target world.ID, resource world.Resource) string {
	return string(target) + "/" + string(resource)
}
