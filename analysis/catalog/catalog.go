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

package catalog

import (
	"sort"
	"strings"

	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/internal/funcutil"
	"golang.org/x/exp/maps"
)

// SensitiveMethod is an API method that requires at least one permission
type SensitiveMethod struct {
	Sig program.Signature

	// Permissions is sorted and has no duplicates
	Permissions []string
}

// String returns the signature followed by the permissions, separated by spaces
func (m *SensitiveMethod) String() string {
	return m.Sig.Key() + " " + strings.Join(m.Permissions, " ")
}

// Requires returns true if the method requires permission
func (m *SensitiveMethod) Requires(permission string) bool {
	i := sort.SearchStrings(m.Permissions, permission)
	return i < len(m.Permissions) && m.Permissions[i] == permission
}

func (m *SensitiveMethod) addPermission(permission string) {
	i := sort.SearchStrings(m.Permissions, permission)
	if i < len(m.Permissions) && m.Permissions[i] == permission {
		return
	}
	m.Permissions = append(m.Permissions, "")
	copy(m.Permissions[i+1:], m.Permissions[i:])
	m.Permissions[i] = permission
}

// Catalog maps method signatures to the permissions they require. A Catalog is built once and then only read.
type Catalog struct {
	methods map[string]*SensitiveMethod
}

// New returns an empty catalog
func New() *Catalog {
	return &Catalog{methods: map[string]*SensitiveMethod{}}
}

// Add records that the method with signature sig requires permission. Adding a permission to a signature that is
// already in the catalog merges the permission into the existing entry.
func (c *Catalog) Add(sig program.Signature, permission string) *SensitiveMethod {
	key := sig.Key()
	m, ok := c.methods[key]
	if !ok {
		m = &SensitiveMethod{Sig: sig}
		c.methods[key] = m
	}
	m.addPermission(permission)
	return m
}

// Lookup returns the sensitive method with exactly the signature sig: same class, name, return type and parameter
// types.
func (c *Catalog) Lookup(sig program.Signature) (*SensitiveMethod, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c.methods[sig.Key()]
	return m, ok
}

// Len returns the number of sensitive methods
func (c *Catalog) Len() int {
	return len(c.methods)
}

// Methods returns the sensitive methods sorted by signature
func (c *Catalog) Methods() []*SensitiveMethod {
	keys := maps.Keys(c.methods)
	sort.Strings(keys)
	res := make([]*SensitiveMethod, len(keys))
	for i, k := range keys {
		res[i] = c.methods[k]
	}
	return res
}

// Permissions returns all the permissions appearing in the catalog, sorted
func (c *Catalog) Permissions() []string {
	set := map[string]bool{}
	for _, m := range c.methods {
		for _, p := range m.Permissions {
			set[p] = true
		}
	}
	return funcutil.SetToOrderedSlice(set)
}
