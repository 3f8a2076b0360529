// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package haulmatch

import (
	"fmt"
	"sort"
)

type greedyMatcher struct {
	sens    float64
	verbose bool
}

// GreedyMatcher returns a single-sided matcher: every carrier, in ID order,
// takes its best request independently. Scores closer than scoreSensitivity
// fall into the same bucket and are separated by amount, then request ID.
func GreedyMatcher(scoreSensitivity float64, verbose bool) Matcher {
	return greedyMatcher{scoreSensitivity, verbose}
}

func (m greedyMatcher) Match(carriers []Carrier, requests []Request, values ValueTable) Matches {
	committer, _ := values.(Committer)

	matches := make(Matches, len(carriers))

	for _, carrier := range sortCarriers(carriers) {
		var (
			best      *Request
			bestValue Value
		)
		for j := 0; j < len(requests); j++ {
			request := &requests[j]
			v := values.Find(carrier, request)
			if v.Amount == 0 {
				continue
			}
			if best == nil || preferred(m.sens, v, request.ID, bestValue, best.ID) {
				best, bestValue = request, v
			}
		}
		if best == nil {
			if m.verbose {
				fmt.Println(carrier.ID, "no request")
			}
			continue
		}

		matches[carrier.ID] = Match{RequestID: best.ID, Value: bestValue}
		if committer != nil {
			committer.Commit(carrier, best, bestValue)
		}

		if m.verbose {
			fmt.Println(carrier.ID, "->", best.ID,
				"amount:", bestValue.Amount, "travel:", bestValue.Travel, "score:", bestValue.Score())
		}
	}

	return matches
}

// compareScore buckets both scores by sens and compares the buckets.
func compareScore(sens, a, b float64) int {
	if sens > 0 {
		a, b = float64(int64(a/sens)), float64(int64(b/sens))
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// preferred reports whether (a, aID) ranks above (b, bID). The order is total
// as long as IDs are distinct.
func preferred(sens float64, a Value, aID string, b Value, bID string) bool {
	if r := compareScore(sens, a.Score(), b.Score()); r != 0 {
		return r > 0
	}
	if x, y := absInt64(a.Amount), absInt64(b.Amount); x != y {
		return x > y
	}
	return aID < bID
}

func sortCarriers(carriers []Carrier) []*Carrier {
	cs := make([]*Carrier, len(carriers))
	for i := range carriers {
		cs[i] = &carriers[i]
	}
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].ID < cs[j].ID
	})
	return cs
}

func sortRequests(requests []Request) []*Request {
	rs := make([]*Request, len(requests))
	for i := range requests {
		rs[i] = &requests[i]
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].ID < rs[j].ID
	})
	return rs
}

func absInt64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
