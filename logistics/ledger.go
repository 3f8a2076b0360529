// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"github.com/someonegg/haulmatch/world"
)

type stockKey struct {
	object   world.ID
	resource world.Resource
}

// ledger books what agents already take from or put into objects this tick,
// so the next agent sees the stock and room that are left.
type ledger struct {
	taken map[stockKey]int64
	put   map[world.ID]int64
}

func newLedger() ledger {
	return ledger{
		taken: make(map[stockKey]int64),
		put:   make(map[world.ID]int64),
	}
}

func (l ledger) stock(o *world.Object, r world.Resource) int64 {
	return maxInt64(0, o.Amount(r)-l.taken[stockKey{o.ID, r}])
}

func (l ledger) room(o *world.Object) int64 {
	return maxInt64(0, o.Free()-l.put[o.ID])
}

func (l ledger) take(o world.ID, r world.Resource, n int64) {
	if n > 0 {
		l.taken[stockKey{o, r}] += n
	}
}

func (l ledger) fill(o world.ID, n int64) {
	if n > 0 {
		l.put[o] += n
	}
}
