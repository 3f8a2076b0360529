// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// digestAssignments hashes the assignments in order. Equal inputs give
// equal digests, which is how determinism is checked across runs.
func digestAssignments(tick uint64, assignments []Assignment) string {
	h := blake3.New()
	buf := make([]byte, 0, 256)

	buf = strconv.AppendUint(buf, tick, 10)
	buf = append(buf, '\n')
	h.Write(buf)

	for _, a := range assignments {
		buf = buf[:0]
		buf = append(buf, string(a.Agent)...)
		buf = append(buf, '|')
		buf = append(buf, a.Request...)
		buf = append(buf, '|')
		buf = append(buf, a.Policy.String()...)
		for _, s := range a.Chain {
			buf = append(buf, '|')
			buf = append(buf, string(s.Action)...)
			buf = append(buf, ':')
			buf = append(buf, string(s.Target)...)
			buf = append(buf, ':')
			buf = append(buf, s.Pos.String()...)
			buf = append(buf, ':')
			buf = append(buf, string(s.Resource)...)
			buf = append(buf, ':')
			buf = strconv.AppendInt(buf, s.Amount, 10)
		}
		buf = append(buf, '\n')
		h.Write(buf)
	}

	return hex.EncodeToString(h.Sum(nil))
}
