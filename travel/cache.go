// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package travel

type cacheKey struct {
	a, b Pos
}

type cacheVal struct {
	dist int
	ok   bool
}

// CachedPathing memoizes Distance answers, and IsReachable answers without
// obstacles, of another Pathing. It is meant to live for one tick of one
// colony and is not safe for concurrent use.
type CachedPathing struct {
	orig  Pathing
	dist  map[cacheKey]cacheVal
	reach map[cacheKey]bool
}

func NewCachedPathing(orig Pathing) *CachedPathing {
	return &CachedPathing{
		orig:  orig,
		dist:  make(map[cacheKey]cacheVal),
		reach: make(map[cacheKey]bool),
	}
}

func (p *CachedPathing) Distance(a, b Pos) (int, bool) {
	key := cacheKey{a, b}
	if val, ok := p.dist[key]; ok {
		return val.dist, val.ok
	}
	d, ok := p.orig.Distance(a, b)
	p.dist[key] = cacheVal{d, ok}
	return d, ok
}

func (p *CachedPathing) IsReachable(a, b Pos, obstacles []Pos) bool {
	if len(obstacles) > 0 {
		return p.orig.IsReachable(a, b, obstacles)
	}
	key := cacheKey{a, b}
	if ok, found := p.reach[key]; found {
		return ok
	}
	ok := p.orig.IsReachable(a, b, nil)
	p.reach[key] = ok
	return ok
}

// Len returns the number of memoized answers.
func (p *CachedPathing) Len() int {
	return len(p.dist) + len(p.reach)
}
