// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package travel defines the distance collaborator used to estimate travel
// time between positions.
package travel

import "fmt"

type Pos struct {
	Room string `json:"room" yaml:"room"`
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d,%d", p.Room, p.X, p.Y)
}

// Pathing answers travel questions. Implementations must be deterministic,
// the logistics core never mutates them.
type Pathing interface {
	// Distance returns the travel time in ticks, ok is false when b can not
	// be reached from a.
	Distance(a, b Pos) (dist int, ok bool)

	IsReachable(a, b Pos, obstacles []Pos) bool
}
