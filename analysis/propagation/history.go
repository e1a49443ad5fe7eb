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

package propagation

import (
	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/internal/funcutil"
)

// History is the set of statements visited by a query. A History belongs to a single query.
type History struct {
	visited map[program.StmtID]bool
}

// NewHistory returns an empty history
func NewHistory() *History {
	return &History{visited: map[program.StmtID]bool{}}
}

// Has returns true if s has been visited
func (h *History) Has(s program.StmtID) bool {
	return h.visited[s]
}

// Add marks s as visited
func (h *History) Add(s program.StmtID) {
	h.visited[s] = true
}

// Len returns the number of statements visited
func (h *History) Len() int {
	return len(h.visited)
}

// Clone returns a copy of the history that can be extended without modifying h
func (h *History) Clone() *History {
	c := make(map[program.StmtID]bool, len(h.visited))
	for s := range h.visited {
		c[s] = true
	}
	return &History{visited: c}
}

// Statements returns the visited statements in increasing order
func (h *History) Statements() []program.StmtID {
	return funcutil.SetToOrderedSlice(h.visited)
}
