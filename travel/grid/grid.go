// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid is a reference travel.Pathing over rooms of RoomSize tiles.
//
// Inside a room, distance is the length of the shortest 8-connected path that
// avoids walls. Across rooms it is the multi-room range, the Chebyshev
// distance of world coordinates, which ignores walls.
package grid

import (
	"github.com/someonegg/haulmatch/travel"
)

type tile struct {
	x, y int
}

type pathKey struct {
	room     string
	from, to tile
}

type Grid struct {
	walls map[string]map[tile]bool
	paths map[pathKey]int // -1 unreachable
}

func New() *Grid {
	return &Grid{
		walls: make(map[string]map[tile]bool),
		paths: make(map[pathKey]int),
	}
}

func (g *Grid) SetWall(p travel.Pos) {
	room := UnifyRoom(p.Room)
	if g.walls[room] == nil {
		g.walls[room] = make(map[tile]bool)
	}
	g.walls[room][tile{p.X, p.Y}] = true
	g.paths = make(map[pathKey]int)
}

func (g *Grid) IsWall(p travel.Pos) bool {
	return g.walls[UnifyRoom(p.Room)][tile{p.X, p.Y}]
}

func (g *Grid) Distance(a, b travel.Pos) (int, bool) {
	ra, rb := UnifyRoom(a.Room), UnifyRoom(b.Room)
	if ra != rb {
		return multiRoomRange(a, b)
	}
	if !inRoom(a) || !inRoom(b) {
		return 0, false
	}

	key := pathKey{ra, tile{a.X, a.Y}, tile{b.X, b.Y}}
	if d, ok := g.paths[key]; ok {
		return d, d >= 0
	}
	d := g.bfs(ra, key.from, key.to, nil)
	g.paths[key] = d
	return d, d >= 0
}

func (g *Grid) IsReachable(a, b travel.Pos, obstacles []travel.Pos) bool {
	ra, rb := UnifyRoom(a.Room), UnifyRoom(b.Room)
	if ra != rb {
		_, ok := multiRoomRange(a, b)
		return ok
	}
	if !inRoom(a) || !inRoom(b) {
		return false
	}
	if len(obstacles) == 0 {
		_, ok := g.Distance(a, b)
		return ok
	}

	blocked := make(map[tile]bool, len(obstacles))
	for _, o := range obstacles {
		if UnifyRoom(o.Room) == ra {
			blocked[tile{o.X, o.Y}] = true
		}
	}
	return g.bfs(ra, tile{a.X, a.Y}, tile{b.X, b.Y}, blocked) >= 0
}

// bfs returns the path length from -> to, or -1. The end points are always
// enterable.
func (g *Grid) bfs(room string, from, to tile, blocked map[tile]bool) int {
	if from == to {
		return 0
	}

	walls := g.walls[room]
	dist := map[tile]int{from: 0}
	queue := []tile{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := tile{cur.x + dx, cur.y + dy}
				if n.x < 0 || n.y < 0 || n.x >= RoomSize || n.y >= RoomSize {
					continue
				}
				if _, seen := dist[n]; seen {
					continue
				}
				if n == to {
					return dist[cur] + 1
				}
				if walls[n] || blocked[n] {
					continue
				}
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	return -1
}

func inRoom(p travel.Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < RoomSize && p.Y < RoomSize
}

func multiRoomRange(a, b travel.Pos) (int, bool) {
	ax, ay, ok := RoomCoord(a.Room)
	if !ok {
		return 0, false
	}
	bx, by, ok := RoomCoord(b.Room)
	if !ok {
		return 0, false
	}
	dx := abs(ax*RoomSize + a.X - bx*RoomSize - b.X)
	dy := abs(ay*RoomSize + a.Y - by*RoomSize - b.Y)
	if dx > dy {
		return dx, true
	}
	return dy, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
