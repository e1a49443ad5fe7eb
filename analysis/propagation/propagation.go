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

// Package propagation lifts the local guard verdicts of the guard package to the whole program: a statement is
// guarded when it is guarded locally, or when every call site of its method is guarded.
package propagation

import (
	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/guard"
	"github.com/dong-li-awx/revdroid/analysis/program"
)

// Stats counts the work done by a Propagator
type Stats struct {
	// Queries is the number of top-level queries (calls to Check)
	Queries int
	// Visits is the number of statements examined, including the ones of the top-level queries
	Visits int
	// CallerVisits is the number of caller statements examined
	CallerVisits int
	// LocallyGuarded is the number of statements found guarded in their own method
	LocallyGuarded int
	// RecursionBreaks is the number of times a statement was found again in the history
	RecursionBreaks int
	// Anomalies is the number of callers that were not invocations
	Anomalies int
}

// Propagator decides whether statements are guarded along every call path that reaches them.
type Propagator struct {
	model       program.Model
	detector    *guard.Detector
	logger      *config.LogGroup
	branchLocal bool
	stats       Stats
}

// New returns a propagator over the model. When branchLocal is true, every caller of a method is examined with its
// own copy of the history, otherwise the history is shared by all the callers examined during a query.
func New(model program.Model, detector *guard.Detector, logger *config.LogGroup, branchLocal bool) *Propagator {
	return &Propagator{
		model:       model,
		detector:    detector,
		logger:      logger,
		branchLocal: branchLocal,
	}
}

// Stats returns the counters accumulated since the propagator was created
func (p *Propagator) Stats() Stats {
	return p.stats
}

// Check runs a new query for statement s in method m, with an empty history
func (p *Propagator) Check(s program.StmtID, m program.MethodID) bool {
	p.stats.Queries++
	return p.IsGuarded(s, m, NewHistory())
}

// IsGuarded returns true if s is guarded in m, or if all the callers of m are guarded. A statement already in the
// history is unguarded, which breaks the cycles of the call graph. A method without callers is unguarded. A caller
// that is not an invocation makes the statement unguarded.
//
// s is added to the history.
func (p *Propagator) IsGuarded(s program.StmtID, m program.MethodID, history *History) bool {
	p.stats.Visits++
	if history.Has(s) {
		p.stats.RecursionBreaks++
		p.logger.Debugf("recursion found at statement %d of %s", s, p.methodName(m))
		return false
	}
	history.Add(s)

	if ok, kind := p.detector.Guarded(s, m); ok {
		p.stats.LocallyGuarded++
		p.logger.Tracef("statement %d guarded by %s in %s", s, kind, p.methodName(m))
		return true
	}

	callers := p.model.CallersOf(m)
	if len(callers) == 0 {
		p.logger.Debugf("%s has no callers, statement %d is not guarded", p.methodName(m), s)
		return false
	}

	for _, c := range callers {
		p.stats.CallerVisits++
		st := p.model.Statement(c)
		if st == nil || !st.Invoke {
			p.stats.Anomalies++
			p.logger.Warnf("caller %d of %s does not invoke a method", c, p.methodName(m))
			return false
		}
		h := history
		if p.branchLocal {
			h = history.Clone()
		}
		if !p.IsGuarded(c, p.model.EnclosingMethod(c), h) {
			p.logger.Tracef("caller %d of %s is not guarded", c, p.methodName(m))
			return false
		}
	}
	return true
}

func (p *Propagator) methodName(m program.MethodID) string {
	if method := p.model.Method(m); method != nil {
		return method.Sig.Key()
	}
	return "?"
}
