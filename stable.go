// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package haulmatch

import (
	"fmt"
	"sort"
)

type stableMatcher struct {
	sens    float64
	verbose bool
}

// StableMatcher returns a carrier-proposing deferred acceptance matcher.
// Both sides rank each other with Value.Score, so the result is carrier
// optimal and no carrier and request would both rather be paired together.
// Each carrier gets at most one request and each request at most one carrier.
func StableMatcher(scoreSensitivity float64, verbose bool) Matcher {
	return stableMatcher{scoreSensitivity, verbose}
}

func (m stableMatcher) Match(carriers []Carrier, requests []Request, values ValueTable) Matches {
	cs := sortCarriers(carriers)
	rs := sortRequests(requests)

	vals := make([][]Value, len(cs))
	prefs := make([][]int, len(cs))
	for i, carrier := range cs {
		vals[i] = make([]Value, len(rs))
		for j, request := range rs {
			v := values.Find(carrier, request)
			vals[i][j] = v
			if v.Amount != 0 {
				prefs[i] = append(prefs[i], j)
			}
		}
		row := vals[i]
		sort.SliceStable(prefs[i], func(a, b int) bool {
			ja, jb := prefs[i][a], prefs[i][b]
			return preferred(m.sens, row[ja], rs[ja].ID, row[jb], rs[jb].ID)
		})
	}

	// a request prefers carrier a over carrier b
	requestPrefers := func(j, a, b int) bool {
		return preferred(m.sens, vals[a][j], cs[a].ID, vals[b][j], cs[b].ID)
	}

	next := make([]int, len(cs))
	holder := make([]int, len(rs))
	for j := range holder {
		holder[j] = -1
	}

	free := make([]int, len(cs))
	for i := range free {
		free[i] = i
	}

	for len(free) > 0 {
		i := free[0]
		free = free[1:]
		if next[i] >= len(prefs[i]) {
			continue
		}
		j := prefs[i][next[i]]
		next[i]++

		h := holder[j]
		switch {
		case h < 0:
			holder[j] = i
		case requestPrefers(j, i, h):
			holder[j] = i
			free = append(free, h)
			if m.verbose {
				fmt.Println(rs[j].ID, "drops", cs[h].ID, "for", cs[i].ID)
			}
		default:
			free = append(free, i)
		}
	}

	committer, _ := values.(Committer)

	matches := make(Matches, len(cs))
	for i, carrier := range cs {
		for j, h := range holder {
			if h != i {
				continue
			}
			matches[carrier.ID] = Match{RequestID: rs[j].ID, Value: vals[i][j]}
			if committer != nil {
				committer.Commit(carrier, rs[j], vals[i][j])
			}
			if m.verbose {
				fmt.Println(carrier.ID, "->", rs[j].ID,
					"amount:", vals[i][j].Amount, "travel:", vals[i][j].Travel)
			}
			break
		}
	}

	return matches
}
