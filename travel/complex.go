// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package travel

type DistanceRecord struct {
	DistanceKey
	DistanceVal
}

type DistanceKey struct {
	From Pos
	To   Pos
}

type DistanceVal struct {
	Dist        int
	Unreachable bool
}

type complexPathing struct {
	orig Pathing
	recs map[DistanceKey]DistanceVal
}

// NewComplexPathing overrides orig with precomputed records. A record for
// (From, To) also answers (To, From).
func NewComplexPathing(orig Pathing, records []DistanceRecord) Pathing {
	recs := make(map[DistanceKey]DistanceVal)
	for _, rec := range records {
		recs[rec.DistanceKey] = rec.DistanceVal
	}
	return &complexPathing{
		orig: orig,
		recs: recs,
	}
}

func (p *complexPathing) find(a, b Pos) (DistanceVal, bool) {
	if val, ok := p.recs[DistanceKey{From: a, To: b}]; ok {
		return val, true
	}
	val, ok := p.recs[DistanceKey{From: b, To: a}]
	return val, ok
}

func (p *complexPathing) Distance(a, b Pos) (int, bool) {
	if val, ok := p.find(a, b); ok {
		return val.Dist, !val.Unreachable
	}
	return p.orig.Distance(a, b)
}

func (p *complexPathing) IsReachable(a, b Pos, obstacles []Pos) bool {
	if val, ok := p.find(a, b); ok && val.Unreachable {
		return false
	}
	return p.orig.IsReachable(a, b, obstacles)
}
