// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package world is the per-tick snapshot the logistics core reads. Objects
// and agents are looked up by stable ID every tick, handles are never kept
// across ticks.
package world

import (
	"fmt"
	"sort"

	"github.com/someonegg/haulmatch/travel"
)

type ID string

type Resource string

const (
	Energy    Resource = "energy"
	Power     Resource = "power"
	Hydrogen  Resource = "H"
	Oxygen    Resource = "O"
	Utrium    Resource = "U"
	Keanium   Resource = "K"
	Lemergium Resource = "L"
	Zynthium  Resource = "Z"
	Catalyst  Resource = "X"
)

var resources = map[Resource]bool{
	Energy: true, Power: true, Hydrogen: true, Oxygen: true, Utrium: true,
	Keanium: true, Lemergium: true, Zynthium: true, Catalyst: true,
}

func (r Resource) Valid() bool {
	return resources[r]
}

type Kind string

const (
	KindContainer Kind = "container"
	KindStorage   Kind = "storage"
	KindTerminal  Kind = "terminal"
	KindLink      Kind = "link"
	KindSpawn     Kind = "spawn"
	KindExtension Kind = "extension"
	KindTower     Kind = "tower"
	KindLab       Kind = "lab"
	KindDrop      Kind = "drop" // dropped resources marked by a directive
)

var kinds = map[Kind]bool{
	KindContainer: true, KindStorage: true, KindTerminal: true, KindLink: true,
	KindSpawn: true, KindExtension: true, KindTower: true, KindLab: true, KindDrop: true,
}

func (k Kind) Valid() bool {
	return kinds[k]
}

// Buffer reports whether objects of this kind can hold any resource as an
// intermediate hop.
func (k Kind) Buffer() bool {
	switch k {
	case KindStorage, KindTerminal:
		return true
	}
	return false
}

// Store maps resource kinds to amounts.
type Store map[Resource]int64

func (s Store) Total() int64 {
	var total int64
	for _, v := range s {
		total += v
	}
	return total
}

func (s Store) Clone() Store {
	c := make(Store, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

type Object struct {
	ID       ID         `json:"id" yaml:"id"`
	Kind     Kind       `json:"kind" yaml:"kind"`
	Pos      travel.Pos `json:"pos" yaml:"pos"`
	Store    Store      `json:"store,omitempty" yaml:"store,omitempty"`
	Capacity int64      `json:"capacity" yaml:"capacity"`

	// Receiver marks a link that accepts transmissions.
	Receiver bool `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	// Dropoff marks a link agents may unload spare cargo into.
	Dropoff bool `json:"dropoff,omitempty" yaml:"dropoff,omitempty"`
}

func (o *Object) Free() int64 {
	if free := o.Capacity - o.Store.Total(); free > 0 {
		return free
	}
	return 0
}

func (o *Object) Amount(r Resource) int64 {
	return o.Store[r]
}

type Agent struct {
	ID       ID         `json:"id" yaml:"id"`
	Pos      travel.Pos `json:"pos" yaml:"pos"`
	Carry    Store      `json:"carry,omitempty" yaml:"carry,omitempty"`
	Capacity int64      `json:"capacity" yaml:"capacity"`
	Busy     bool       `json:"busy,omitempty" yaml:"busy,omitempty"`
}

func (a *Agent) Free() int64 {
	if free := a.Capacity - a.Carry.Total(); free > 0 {
		return free
	}
	return 0
}

func (a *Agent) Idle() bool {
	return !a.Busy
}

// Snapshot is the read-only view of one colony for one tick.
type Snapshot struct {
	Tick   uint64
	Colony string

	objects map[ID]*Object
	agents  map[ID]*Agent

	// Storage is the main storage, empty if the colony has none yet.
	Storage ID
	// PlannedStorage is where the storage will be built.
	PlannedStorage *travel.Pos
}

func NewSnapshot(colony string, tick uint64) *Snapshot {
	return &Snapshot{
		Tick:    tick,
		Colony:  colony,
		objects: make(map[ID]*Object),
		agents:  make(map[ID]*Agent),
	}
}

func (s *Snapshot) AddObject(o *Object) error {
	if o.ID == "" {
		return fmt.Errorf("object without id")
	}
	if !o.Kind.Valid() {
		return fmt.Errorf("object %s: unknown kind %q", o.ID, o.Kind)
	}
	if _, ok := s.objects[o.ID]; ok {
		return fmt.Errorf("object %s: duplicated", o.ID)
	}
	if o.Store == nil {
		o.Store = make(Store)
	}
	s.objects[o.ID] = o
	if o.Kind == KindStorage && s.Storage == "" {
		s.Storage = o.ID
	}
	return nil
}

func (s *Snapshot) AddAgent(a *Agent) error {
	if a.ID == "" {
		return fmt.Errorf("agent without id")
	}
	if _, ok := s.agents[a.ID]; ok {
		return fmt.Errorf("agent %s: duplicated", a.ID)
	}
	if a.Carry == nil {
		a.Carry = make(Store)
	}
	s.agents[a.ID] = a
	return nil
}

// RemoveObject drops an object, e.g. a structure destroyed mid tick.
func (s *Snapshot) RemoveObject(id ID) {
	delete(s.objects, id)
	if s.Storage == id {
		s.Storage = ""
	}
}

func (s *Snapshot) Object(id ID) (*Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

func (s *Snapshot) Agent(id ID) (*Agent, bool) {
	a, ok := s.agents[id]
	return a, ok
}

// Objects returns all objects ordered by ID.
func (s *Snapshot) Objects() []*Object {
	os := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		os = append(os, o)
	}
	sort.Slice(os, func(i, j int) bool {
		return os[i].ID < os[j].ID
	})
	return os
}

// ObjectsOf returns the objects of the given kind ordered by ID.
func (s *Snapshot) ObjectsOf(kind Kind) []*Object {
	var os []*Object
	for _, o := range s.Objects() {
		if o.Kind == kind {
			os = append(os, o)
		}
	}
	return os
}

// Agents returns all agents ordered by ID.
func (s *Snapshot) Agents() []*Agent {
	as := make([]*Agent, 0, len(s.agents))
	for _, a := range s.agents {
		as = append(as, a)
	}
	sort.Slice(as, func(i, j int) bool {
		return as[i].ID < as[j].ID
	})
	return as
}

// IdleAgents returns the idle agents ordered by ID.
func (s *Snapshot) IdleAgents() []*Agent {
	var as []*Agent
	for _, a := range s.Agents() {
		if a.Idle() {
			as = append(as, a)
		}
	}
	return as
}
