// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"github.com/someonegg/haulmatch/world"
)

// planTransmissions pairs every link asking to transmit with the receiver
// link that has the most room left, ties by distance then ID.
func planTransmissions(snap *world.Snapshot, predictor *Predictor, links []world.ID) []Transmission {
	sending := make(map[world.ID]bool, len(links))
	for _, id := range links {
		sending[id] = true
	}

	var receivers []*world.Object
	room := make(map[world.ID]int64)
	for _, o := range snap.ObjectsOf(world.KindLink) {
		if o.Receiver && !sending[o.ID] && o.Free() > 0 {
			receivers = append(receivers, o)
			room[o.ID] = o.Free()
		}
	}

	var out []Transmission
	for _, id := range links {
		from, ok := snap.Object(id)
		if !ok || from.Kind != world.KindLink {
			continue
		}
		energy := from.Amount(world.Energy)
		if energy <= 0 {
			continue
		}

		var (
			best     *world.Object
			bestDist int
		)
		for _, r := range receivers {
			if room[r.ID] <= 0 {
				continue
			}
			d, err := predictor.Travel(from.Pos, r.Pos)
			if err != nil {
				continue
			}
			if best == nil || room[r.ID] > room[best.ID] ||
				room[r.ID] == room[best.ID] && d < bestDist {
				best, bestDist = r, d
			}
		}
		if best == nil {
			continue
		}

		amount := minInt64(energy, room[best.ID])
		room[best.ID] -= amount
		out = append(out, Transmission{From: from.ID, To: best.ID, Amount: amount})
	}
	return out
}
