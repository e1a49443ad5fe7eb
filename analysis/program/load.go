// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package program

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// modelFile is the serialized form of a program model, as produced by an exporter
type modelFile struct {
	Permissions []string            `yaml:"permissions"`
	EntryPoints []string            `yaml:"entry-points"`
	Hierarchy   map[string][]string `yaml:"hierarchy"`
	Methods     []methodEntry       `yaml:"methods"`
}

type methodEntry struct {
	Signature string      `yaml:"signature"`
	Concrete  *bool       `yaml:"concrete"`
	Library   bool        `yaml:"library"`
	Body      []stmtEntry `yaml:"body"`
	Traps     []trapEntry `yaml:"traps"`
}

type stmtEntry struct {
	Invoke  string   `yaml:"invoke"`
	Targets []string `yaml:"targets"`
	Succs   []int    `yaml:"succs"`
	Line    int      `yaml:"line"`
}

type trapEntry struct {
	Begin int    `yaml:"begin"`
	End   int    `yaml:"end"`
	Type  string `yaml:"type"`
}

// LoadFile reads a program model file and builds the arena
func LoadFile(filename string) (*Arena, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open model file: %w", err)
	}
	defer f.Close()
	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return a, nil
}

// Decode reads a program model in yaml format and builds the arena.
//
// Every invoke statement gets a call edge to the method of the model with the same signature when that method is
// concrete, and one call edge per entry of its targets.
func Decode(r io.Reader) (*Arena, error) {
	var mf modelFile
	if err := yaml.NewDecoder(r).Decode(&mf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode model: %w", err)
	}

	b := NewBuilder()
	b.SetPermissions(mf.Permissions)

	children := make([]string, 0, len(mf.Hierarchy))
	for child := range mf.Hierarchy {
		children = append(children, child)
	}
	sort.Strings(children)
	for _, child := range children {
		for _, parent := range mf.Hierarchy[child] {
			b.AddSubtype(child, parent)
		}
	}

	ids := make([]MethodID, len(mf.Methods))
	for i, entry := range mf.Methods {
		sig, err := ParseSignature(entry.Signature)
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		concrete := entry.Concrete == nil || *entry.Concrete
		if !concrete && len(entry.Body) > 0 {
			return nil, fmt.Errorf("non-concrete method %s has a body", sig)
		}
		ids[i] = b.AddMethod(sig, concrete, entry.Library)
	}

	lookup := func(key string) (MethodID, error) {
		sig, err := ParseSignature(key)
		if err != nil {
			return -1, err
		}
		m, ok := b.MethodBySignature(sig.Key())
		if !ok {
			return -1, fmt.Errorf("unknown method %s", sig)
		}
		return m, nil
	}

	for i, entry := range mf.Methods {
		m := ids[i]
		for j, se := range entry.Body {
			spec := StatementSpec{Succs: se.Succs, Line: se.Line}
			if se.Invoke != "" {
				target, err := ParseSignature(se.Invoke)
				if err != nil {
					return nil, fmt.Errorf("statement %d of %s: %w", j, entry.Signature, err)
				}
				spec.Invoke = true
				spec.Target = target
			}
			s := b.AddStatement(m, spec)
			if spec.Invoke {
				if callee, ok := b.MethodBySignature(spec.Target.Key()); ok && b.arena.methods[callee].Concrete {
					b.AddEdge(s, callee)
				}
			}
			for _, t := range se.Targets {
				callee, err := lookup(t)
				if err != nil {
					return nil, fmt.Errorf("statement %d of %s: %w", j, entry.Signature, err)
				}
				b.AddEdge(s, callee)
			}
		}
		for _, trap := range entry.Traps {
			b.AddTrap(m, ExceptionRange{Begin: trap.Begin, End: trap.End, CaughtType: trap.Type})
		}
	}

	for _, e := range mf.EntryPoints {
		m, err := lookup(e)
		if err != nil {
			return nil, fmt.Errorf("entry point: %w", err)
		}
		b.AddEntryPoint(m)
	}

	return b.Build()
}
