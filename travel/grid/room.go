// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"strconv"
	"strings"
)

// RoomSize is the width and height of a room in tiles.
const RoomSize = 50

// UnifyRoom normalizes a room name like " w1n2" to "W1N2".
func UnifyRoom(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// RoomCoord parses a room name into lattice coordinates. East and south grow
// positive, W0 is -1 and N0 is -1.
func RoomCoord(name string) (x, y int, ok bool) {
	name = UnifyRoom(name)
	if len(name) < 4 {
		return 0, 0, false
	}

	i := 1
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 1 || i >= len(name)-1 {
		return 0, 0, false
	}

	h, err := strconv.Atoi(name[1:i])
	if err != nil {
		return 0, 0, false
	}
	v, err := strconv.Atoi(name[i+1:])
	if err != nil || v < 0 {
		return 0, 0, false
	}

	switch name[0] {
	case 'E':
		x = h
	case 'W':
		x = -h - 1
	default:
		return 0, 0, false
	}
	switch name[i] {
	case 'S':
		y = v
	case 'N':
		y = -v - 1
	default:
		return 0, 0, false
	}
	return x, y, true
}
