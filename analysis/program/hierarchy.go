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
	"sort"

	"golang.org/x/exp/maps"
)

// TypeHierarchy is a DAG of type names. An edge goes from a type to each of its direct supertypes.
type TypeHierarchy struct {
	parents map[string]map[string]bool
}

// NewTypeHierarchy returns an empty hierarchy
func NewTypeHierarchy() *TypeHierarchy {
	return &TypeHierarchy{parents: map[string]map[string]bool{}}
}

// AddSubtype records that child is a direct subtype of parent
func (h *TypeHierarchy) AddSubtype(child, parent string) {
	if child == parent {
		return
	}
	if h.parents[child] == nil {
		h.parents[child] = map[string]bool{}
	}
	h.parents[child][parent] = true
}

// Parents returns the direct supertypes of t, sorted
func (h *TypeHierarchy) Parents(t string) []string {
	p := maps.Keys(h.parents[t])
	sort.Strings(p)
	return p
}

// Types returns all the types that have at least one supertype, sorted
func (h *TypeHierarchy) Types() []string {
	t := maps.Keys(h.parents)
	sort.Strings(t)
	return t
}

// IsSubtype returns true if t is super or a transitive subtype of super. Types that do not appear in the hierarchy
// are subtypes of themselves only.
func (h *TypeHierarchy) IsSubtype(t, super string) bool {
	if t == super {
		return true
	}
	if h == nil {
		return false
	}
	visited := map[string]bool{t: true}
	queue := []string{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for p := range h.parents[cur] {
			if p == super {
				return true
			}
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	return false
}
