// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package haulmatch

import (
	"testing"
)

// 辅助函数
func makeCarrier(id string, capacity int64) Carrier {
	return Carrier{ID: id, Capacity: capacity}
}

func makeRequest(id string) Request {
	return Request{ID: id}
}

// mockValueTable 是一个简单的 ValueTable 实现
type mockValueTable struct {
	values map[string]map[string]Value
}

func newMockValueTable() *mockValueTable {
	return &mockValueTable{values: make(map[string]map[string]Value)}
}

func (m *mockValueTable) set(carrierID, requestID string, amount int64, travel int) {
	if m.values[carrierID] == nil {
		m.values[carrierID] = make(map[string]Value)
	}
	m.values[carrierID][requestID] = Value{Amount: amount, Travel: travel}
}

func (m *mockValueTable) Find(carrier *Carrier, request *Request) Value {
	return m.values[carrier.ID][request.ID]
}

// claimingValueTable 在每次 Commit 后扣减请求的剩余数量
type claimingValueTable struct {
	*mockValueTable
	claimed map[string]int64
	commits []string
}

func newClaimingValueTable() *claimingValueTable {
	return &claimingValueTable{
		mockValueTable: newMockValueTable(),
		claimed:        make(map[string]int64),
	}
}

func (m *claimingValueTable) Find(carrier *Carrier, request *Request) Value {
	v := m.mockValueTable.Find(carrier, request)
	v.Amount -= m.claimed[request.ID]
	if v.Amount < 0 {
		v.Amount = 0
	}
	return v
}

func (m *claimingValueTable) Commit(carrier *Carrier, request *Request, value Value) {
	take := value.Amount
	if take > carrier.Capacity {
		take = carrier.Capacity
	}
	m.claimed[request.ID] += take
	m.commits = append(m.commits, carrier.ID+"->"+request.ID)
}

func TestValue_Score(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		want  float64
	}{
		{"Positive", Value{Amount: 100, Travel: 10}, 10},
		{"Negative", Value{Amount: -100, Travel: 4}, 25},
		{"ZeroTravelFloor", Value{Amount: 50, Travel: 0}, 50},
		{"NegativeTravelFloor", Value{Amount: 50, Travel: -3}, 50},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.value.Score(); got != c.want {
				t.Errorf("Score() = %v, want %v", got, c.want)
			}
		})
	}
}

// 1. 基础匹配测试
func TestGreedyMatcher_Basic(t *testing.T) {
	t.Run("PicksBestScore", func(t *testing.T) {
		carriers := []Carrier{makeCarrier("c1", 100)}
		requests := []Request{makeRequest("r1"), makeRequest("r2")}
		values := newMockValueTable()
		values.set("c1", "r1", 100, 10) // 10/tick
		values.set("c1", "r2", 60, 3)   // 20/tick

		matches := GreedyMatcher(0, false).Match(carriers, requests, values)

		if got := matches["c1"].RequestID; got != "r2" {
			t.Errorf("Expected r2, got %q", got)
		}
	})

	t.Run("SkipsZeroAmount", func(t *testing.T) {
		carriers := []Carrier{makeCarrier("c1", 100)}
		requests := []Request{makeRequest("r1"), makeRequest("r2")}
		values := newMockValueTable()
		values.set("c1", "r1", 0, 1)
		values.set("c1", "r2", 5, 50)

		matches := GreedyMatcher(0, false).Match(carriers, requests, values)

		if got := matches["c1"].RequestID; got != "r2" {
			t.Errorf("Expected r2, got %q", got)
		}
	})

	t.Run("NoEligibleRequest", func(t *testing.T) {
		carriers := []Carrier{makeCarrier("c1", 100)}
		requests := []Request{makeRequest("r1")}
		values := newMockValueTable()

		matches := GreedyMatcher(0, false).Match(carriers, requests, values)

		if _, ok := matches["c1"]; ok {
			t.Errorf("Expected no match, got %+v", matches["c1"])
		}
	})

	t.Run("IndependentCarriers", func(t *testing.T) {
		// 贪心策略不保证一对一，两个 carrier 可以选择同一个请求
		carriers := []Carrier{makeCarrier("c1", 100), makeCarrier("c2", 100)}
		requests := []Request{makeRequest("r1"), makeRequest("r2")}
		values := newMockValueTable()
		values.set("c1", "r1", 500, 5)
		values.set("c1", "r2", 10, 5)
		values.set("c2", "r1", 500, 5)
		values.set("c2", "r2", 10, 5)

		matches := GreedyMatcher(0, false).Match(carriers, requests, values)

		if matches["c1"].RequestID != "r1" || matches["c2"].RequestID != "r1" {
			t.Errorf("Expected both on r1, got %+v", matches)
		}
	})
}

// 2. 平局处理测试
func TestGreedyMatcher_TieBreak(t *testing.T) {
	t.Run("LargerAmountWins", func(t *testing.T) {
		carriers := []Carrier{makeCarrier("c1", 100)}
		requests := []Request{makeRequest("r1"), makeRequest("r2")}
		values := newMockValueTable()
		values.set("c1", "r1", 50, 5)    // 10/tick
		values.set("c1", "r2", -100, 10) // 10/tick

		matches := GreedyMatcher(0, false).Match(carriers, requests, values)

		if got := matches["c1"].RequestID; got != "r2" {
			t.Errorf("Expected r2, got %q", got)
		}
	})

	t.Run("LowestIDWins", func(t *testing.T) {
		carriers := []Carrier{makeCarrier("c1", 100)}
		requests := []Request{makeRequest("rb"), makeRequest("ra")}
		values := newMockValueTable()
		values.set("c1", "ra", 50, 5)
		values.set("c1", "rb", 50, 5)

		matches := GreedyMatcher(0, false).Match(carriers, requests, values)

		if got := matches["c1"].RequestID; got != "ra" {
			t.Errorf("Expected ra, got %q", got)
		}
	})

	t.Run("SensitivityBucketsScores", func(t *testing.T) {
		// sens=5: 分数 11 和 14 在同一组，数量更大的胜出
		carriers := []Carrier{makeCarrier("c1", 100)}
		requests := []Request{makeRequest("r1"), makeRequest("r2")}
		values := newMockValueTable()
		values.set("c1", "r1", 14, 1)
		values.set("c1", "r2", 110, 10)

		strict := GreedyMatcher(0, false).Match(carriers, requests, values)
		loose := GreedyMatcher(5, false).Match(carriers, requests, values)

		if got := strict["c1"].RequestID; got != "r1" {
			t.Errorf("Expected strict r1, got %q", got)
		}
		if got := loose["c1"].RequestID; got != "r2" {
			t.Errorf("Expected loose r2, got %q", got)
		}
	})
}

// 3. Commit 测试：已认领的数量影响后续 carrier
func TestGreedyMatcher_Commit(t *testing.T) {
	carriers := []Carrier{makeCarrier("c2", 100), makeCarrier("c1", 100)}
	requests := []Request{makeRequest("r1"), makeRequest("r2")}
	values := newClaimingValueTable()
	values.set("c1", "r1", 100, 5) // 20/tick
	values.set("c1", "r2", 50, 5)  // 10/tick
	values.set("c2", "r1", 100, 5)
	values.set("c2", "r2", 50, 5)

	matches := GreedyMatcher(0, false).Match(carriers, requests, values)

	if matches["c1"].RequestID != "r1" {
		t.Errorf("Expected c1 on r1, got %+v", matches["c1"])
	}
	if matches["c2"].RequestID != "r2" {
		t.Errorf("Expected c2 on r2 after r1 was claimed, got %+v", matches["c2"])
	}
	if len(values.commits) != 2 || values.commits[0] != "c1->r1" {
		t.Errorf("Expected carriers committed in ID order, got %v", values.commits)
	}
}

// 4. 确定性测试
func TestGreedyMatcher_Deterministic(t *testing.T) {
	carriers := []Carrier{makeCarrier("c3", 50), makeCarrier("c1", 50), makeCarrier("c2", 50)}
	requests := []Request{makeRequest("r3"), makeRequest("r1"), makeRequest("r2")}
	values := newMockValueTable()
	for _, c := range []string{"c1", "c2", "c3"} {
		for _, r := range []string{"r1", "r2", "r3"} {
			values.set(c, r, 30, 3)
		}
	}

	first := GreedyMatcher(0, false).Match(carriers, requests, values)
	for n := 0; n < 10; n++ {
		again := GreedyMatcher(0, false).Match(carriers, requests, values)
		for id, m := range first {
			if again[id] != m {
				t.Fatalf("run %d: %s matched %+v, first run %+v", n, id, again[id], m)
			}
		}
	}
}
