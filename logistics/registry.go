// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/someonegg/haulmatch/world"
)

type requestKey struct {
	target   world.ID
	resource world.Resource
}

// Registry holds the live requests of one colony. Requests last one tick:
// Reset drops them and collaborators register again what they still need.
type Registry struct {
	tick      uint64
	reqs      map[requestKey]*Request
	transmits map[world.ID]bool
}

func NewRegistry() *Registry {
	return &Registry{
		reqs:      make(map[requestKey]*Request),
		transmits: make(map[world.ID]bool),
	}
}

func (r *Registry) Tick() uint64 {
	return r.tick
}

func (r *Registry) Reset(tick uint64) {
	r.tick = tick
	r.reqs = make(map[requestKey]*Request)
	r.transmits = make(map[world.ID]bool)
}

// Register inserts or overwrites the request for (target, resource).
func (r *Registry) Register(target world.ID, resource world.Resource, rate Rate) (*Request, error) {
	if target == "" {
		return nil, fmt.Errorf("%w: empty target", ErrInvalidRequest)
	}
	if !resource.Valid() {
		return nil, fmt.Errorf("%w: %s: unknown resource %q", ErrInvalidRequest, target, resource)
	}
	if math.IsNaN(rate.DAmountDt) || math.IsInf(rate.DAmountDt, 0) {
		return nil, fmt.Errorf("%w: %s: bad rate", ErrInvalidRequest, target)
	}

	key := requestKey{target, resource}
	req, ok := r.reqs[key]
	if !ok {
		req = &Request{
			ID:       requestID(target, resource),
			Target:   target,
			Resource: resource,
		}
		r.reqs[key] = req
	}
	req.DAmountDt = rate.DAmountDt
	req.Amount = rate.Amount
	req.Tick = r.tick
	return req, nil
}

// RequestInput registers a target that wants to receive.
func (r *Registry) RequestInput(target world.ID, resource world.Resource, rate Rate) (*Request, error) {
	rate.DAmountDt = math.Abs(rate.DAmountDt)
	rate.Amount = absInt64(rate.Amount)
	return r.Register(target, resource, rate)
}

// RequestOutput registers a target that wants to be drained.
func (r *Registry) RequestOutput(target world.ID, resource world.Resource, rate Rate) (*Request, error) {
	rate.DAmountDt = -math.Abs(rate.DAmountDt)
	rate.Amount = -absInt64(rate.Amount)
	return r.Register(target, resource, rate)
}

// Provide registers a producer whose output accumulates at rate.
func (r *Registry) Provide(target world.ID, resource world.Resource, rate Rate) (*Request, error) {
	return r.RequestOutput(target, resource, rate)
}

// RequestTransmit asks for the energy of a link to be sent away.
func (r *Registry) RequestTransmit(link world.ID) error {
	if link == "" {
		return fmt.Errorf("%w: empty link", ErrInvalidRequest)
	}
	r.transmits[link] = true
	return nil
}

func (r *Registry) Withdraw(target world.ID, resource world.Resource) bool {
	key := requestKey{target, resource}
	if _, ok := r.reqs[key]; !ok {
		return false
	}
	delete(r.reqs, key)
	return true
}

func (r *Registry) Get(target world.ID, resource world.Resource) (*Request, bool) {
	req, ok := r.reqs[requestKey{target, resource}]
	return req, ok
}

func (r *Registry) Len() int {
	return len(r.reqs)
}

// All returns the live requests ordered by ID.
func (r *Registry) All() []*Request {
	reqs := make([]*Request, 0, len(r.reqs))
	for _, req := range r.reqs {
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].ID < reqs[j].ID
	})
	return reqs
}

// Transmits returns the links asking to transmit, ordered by ID.
func (r *Registry) Transmits() []world.ID {
	links := make([]world.ID, 0, len(r.transmits))
	for link := range r.transmits {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i] < links[j]
	})
	return links
}

func absInt64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
