// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package haulmatch provides carrier to transfer request matching algorithms
// that respect travel time and predicted transfer amounts.
package haulmatch

type Matcher interface {
	Match(carriers []Carrier, requests []Request, values ValueTable) Matches
}

type Carrier struct {
	ID       string
	Capacity int64
	Info     interface{}
}

type Request struct {
	ID   string
	Info interface{}
}

type ValueTable interface {
	Find(carrier *Carrier, request *Request) Value
}

// Committer is optionally implemented by a ValueTable that wants to observe
// each assignment before the next carrier is ranked.
type Committer interface {
	Commit(carrier *Carrier, request *Request, value Value)
}

type Value struct {
	Amount int64 // signed, zero means no transfer is possible
	Travel int   // ticks
}

// Score is the moved amount per tick of travel. Travel below one tick counts
// as one.
func (v Value) Score() float64 {
	t := v.Travel
	if t < 1 {
		t = 1
	}
	return float64(absInt64(v.Amount)) / float64(t)
}

type Matches map[string]Match // carrierID

type Match struct {
	RequestID string
	Value     Value
}
