// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/someonegg/haulmatch/colony"
	"github.com/someonegg/haulmatch/travel"
	"github.com/someonegg/haulmatch/travel/grid"
	"github.com/someonegg/haulmatch/world"
)

//go:embed scenario.schema.json
var scenarioSchemaText string

type Scenario struct {
	Colony         string               `json:"colony"`
	Level          int                  `json:"level"`
	Tick           uint64               `json:"tick"`
	LowPower       bool                 `json:"low_power,omitempty"`
	Walls          []travel.Pos         `json:"walls,omitempty"`
	PlannedStorage *travel.Pos          `json:"planned_storage,omitempty"`
	Objects        []*world.Object      `json:"objects"`
	Agents         []*world.Agent       `json:"agents"`
	Sites          []*colony.MiningSite `json:"sites,omitempty"`
	Upgrade        *colony.UpgradeSite  `json:"upgrade,omitempty"`
}

func (s *Scenario) snapshot() (*world.Snapshot, error) {
	snap := world.NewSnapshot(s.Colony, s.Tick)
	snap.PlannedStorage = s.PlannedStorage
	for _, o := range s.Objects {
		if err := snap.AddObject(o); err != nil {
			return nil, err
		}
	}
	for _, a := range s.Agents {
		if err := snap.AddAgent(a); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (s *Scenario) grid() *grid.Grid {
	g := grid.New()
	for _, w := range s.Walls {
		g.SetWall(w)
	}
	return g
}

func compileScenarioSchema() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("scenario.schema.json", scenarioSchemaText)
}

func loadScenario(file string) (*Scenario, error) {
	data, err := readFile(file)
	if err != nil {
		return nil, err
	}

	schema, err := compileScenarioSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}

	var s Scenario
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func compressed(file string) bool {
	return strings.HasSuffix(file, ".zst")
}

func readFile(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !compressed(file) {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// writeJSON writes v indented, zstd compressed when file ends in .zst.
func writeJSON(file string, v interface{}) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "   ")
	if err := encoder.Encode(v); err != nil {
		return err
	}

	if !compressed(file) {
		return os.WriteFile(file, buf.Bytes(), 0644)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()
	return os.WriteFile(file, enc.EncodeAll(buf.Bytes(), nil), 0644)
}
