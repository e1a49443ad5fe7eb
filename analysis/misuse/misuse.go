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

// Package misuse finds the calls to permission-protected methods that are not guarded along every call path reaching
// them.
package misuse

import (
	"sort"

	"github.com/dong-li-awx/revdroid/analysis/catalog"
	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/guard"
	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/analysis/propagation"
	"github.com/dong-li-awx/revdroid/internal/funcutil"
)

// Record is a call to a sensitive method that is not guarded
type Record struct {
	// Stmt is the call
	Stmt program.StmtID
	// Method contains the call
	Method program.MethodID
	// Sensitive is the method called, with the permissions it requires
	Sensitive *catalog.SensitiveMethod
}

// Collector finds the misuses of a program
type Collector struct {
	model      program.Model
	catalog    *catalog.Catalog
	propagator *propagation.Propagator
	config     *config.Config
	logger     *config.LogGroup
}

// NewCollector returns a collector that matches the calls of model against the catalog and checks the matches with
// the propagator.
func NewCollector(model program.Model, cat *catalog.Catalog, propagator *propagation.Propagator,
	cfg *config.Config, logger *config.LogGroup) *Collector {
	return &Collector{
		model:      model,
		catalog:    cat,
		propagator: propagator,
		config:     cfg,
		logger:     logger,
	}
}

// Collect returns a record for every unguarded call to a sensitive method made from a reachable, concrete,
// application method. The records are sorted by method signature, then by position in the method.
// Collect does not modify the model and returns the same records every time it is called.
func (c *Collector) Collect() []Record {
	var records []Record
	for _, m := range funcutil.Filter(c.model.ReachableMethods(), c.isApplication) {
		method := c.model.Method(m)
		for _, s := range c.model.CallSites(m) {
			st := c.model.Statement(s)
			if st == nil || !st.Invoke {
				continue
			}
			sensitive, ok := c.catalog.Lookup(st.Target)
			if !ok {
				continue
			}
			if c.propagator.Check(s, m) {
				c.logger.Debugf("call to %s in %s is guarded", st.Target, method.Sig)
				continue
			}
			c.logger.Debugf("call to %s in %s is not guarded", st.Target, method.Sig)
			records = append(records, Record{Stmt: s, Method: m, Sensitive: sensitive})
		}
	}
	c.sort(records)
	return records
}

// isApplication returns true for the concrete methods that are not library code
func (c *Collector) isApplication(m program.MethodID) bool {
	method := c.model.Method(m)
	if method == nil || !method.Concrete || method.Library {
		return false
	}
	return c.config == nil || !c.config.IsLibrary(method.Sig.Class)
}

func (c *Collector) sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ki := c.model.Method(records[i].Method).Sig.Key()
		kj := c.model.Method(records[j].Method).Sig.Key()
		if ki != kj {
			return ki < kj
		}
		if records[i].Method != records[j].Method {
			return records[i].Method < records[j].Method
		}
		return c.model.Statement(records[i].Stmt).Index < c.model.Statement(records[j].Stmt).Index
	})
}

// Result is the outcome of Analyze
type Result struct {
	Records []Record
	Stats   propagation.Stats
}

// Analyze runs the whole detection on model with the catalog and the guard settings of cfg
func Analyze(model program.Model, cat *catalog.Catalog, cfg *config.Config, logger *config.LogGroup) Result {
	detector := guard.NewDetectorFromConfig(model, cfg, logger)
	propagator := propagation.New(model, detector, logger, cfg.BranchLocalHistory)
	records := NewCollector(model, cat, propagator, cfg, logger).Collect()
	return Result{Records: records, Stats: propagator.Stats()}
}
