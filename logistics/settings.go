// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logistics

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/someonegg/haulmatch"
)

const (
	DefaultCarryThreshold         = 800
	DefaultGreedyScoreSensitivity = 0.0
	DefaultStableScoreSensitivity = 0.0
)

type PolicyKind int

const (
	PolicyGreedy PolicyKind = iota
	PolicyStable
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyGreedy:
		return "greedy"
	case PolicyStable:
		return "stable"
	}
	return fmt.Sprintf("policy(%d)", int(k))
}

func (k PolicyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PolicyKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "greedy":
		*k = PolicyGreedy
	case "stable":
		*k = PolicyStable
	default:
		return fmt.Errorf("unknown policy %q", b)
	}
	return nil
}

type GreedyConfig struct {
	ScoreSensitivity *float64 `yaml:"score_sensitivity" json:"score_sensitivity"`
}

type StableConfig struct {
	// Disabled sends every agent through the greedy policy.
	Disabled         bool     `yaml:"disabled" json:"disabled"`
	ScoreSensitivity *float64 `yaml:"score_sensitivity" json:"score_sensitivity"`
}

// Policy is one of the two matching configurations, selected by Kind.
type Policy struct {
	Kind   PolicyKind
	Greedy GreedyConfig
	Stable StableConfig
}

func (p Policy) Matcher(verbose bool) haulmatch.Matcher {
	switch p.Kind {
	case PolicyStable:
		return haulmatch.StableMatcher(floatOr(p.Stable.ScoreSensitivity, DefaultStableScoreSensitivity), verbose)
	default:
		return haulmatch.GreedyMatcher(floatOr(p.Greedy.ScoreSensitivity, DefaultGreedyScoreSensitivity), verbose)
	}
}

type Settings struct {
	// Agents carrying at least CarryThreshold use the stable policy.
	CarryThreshold *int64       `yaml:"carry_threshold" json:"carry_threshold"`
	Greedy         GreedyConfig `yaml:"greedy" json:"greedy"`
	Stable         StableConfig `yaml:"stable" json:"stable"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

func (s Settings) carryThreshold() int64 {
	if s.CarryThreshold == nil {
		return DefaultCarryThreshold
	}
	return *s.CarryThreshold
}

// PolicyFor selects the matching policy by the agent's capacity class.
func (s Settings) PolicyFor(capacity int64) Policy {
	kind := PolicyGreedy
	if !s.Stable.Disabled && capacity >= s.carryThreshold() {
		kind = PolicyStable
	}
	return Policy{Kind: kind, Greedy: s.Greedy, Stable: s.Stable}
}

func (s *Settings) Normalize() {
	if s.CarryThreshold == nil {
		v := int64(DefaultCarryThreshold)
		s.CarryThreshold = &v
	}
	if s.Greedy.ScoreSensitivity == nil {
		v := DefaultGreedyScoreSensitivity
		s.Greedy.ScoreSensitivity = &v
	}
	if s.Stable.ScoreSensitivity == nil {
		v := DefaultStableScoreSensitivity
		s.Stable.ScoreSensitivity = &v
	}
}

func (s Settings) Validate() error {
	if s.CarryThreshold != nil && *s.CarryThreshold < 0 {
		return fmt.Errorf("carry_threshold must be >= 0")
	}
	if s.Greedy.ScoreSensitivity != nil && *s.Greedy.ScoreSensitivity < 0 {
		return fmt.Errorf("greedy.score_sensitivity must be >= 0")
	}
	if s.Stable.ScoreSensitivity != nil && *s.Stable.ScoreSensitivity < 0 {
		return fmt.Errorf("stable.score_sensitivity must be >= 0")
	}
	return nil
}

// LoadSettings reads a logistics.yaml. An empty path yields the defaults.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if strings.TrimSpace(path) == "" {
		s.Normalize()
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("logistics.yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("logistics.yaml: %w", err)
	}
	s.Normalize()
	return s, nil
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
