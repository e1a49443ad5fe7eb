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

// Package guard implements the intraprocedural guard tests: a statement is guarded in its method when an exception
// handler around it catches the failure of the sensitive call, or when a permission check dominates it.
package guard

import (
	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/internal/funcutil"
)

// Kind is the kind of guard protecting a statement
type Kind int

const (
	// None means the statement is not guarded in its method
	None Kind = iota
	// ExceptionHandler means a handler catching the failure type covers the statement
	ExceptionHandler
	// ProactiveCheck means a check of the permission dominates the statement
	ProactiveCheck
)

func (k Kind) String() string {
	switch k {
	case ExceptionHandler:
		return "exception handler"
	case ProactiveCheck:
		return "proactive check"
	default:
		return "none"
	}
}

// Detector checks whether statements are guarded locally. A Detector does not modify the model.
type Detector struct {
	model       program.Model
	failureType string
	isCheck     func(name string) bool
	logger      *config.LogGroup
}

// NewDetector returns a detector for sensitive calls failing with failureType. checks are the names of the methods
// that check permissions; they are matched by name only.
func NewDetector(model program.Model, failureType string, checks []string, logger *config.LogGroup) *Detector {
	names := make(map[string]bool, len(checks))
	for _, name := range checks {
		names[name] = true
	}
	return &Detector{
		model:       model,
		failureType: failureType,
		isCheck:     func(name string) bool { return names[name] },
		logger:      logger,
	}
}

// NewDetectorFromConfig returns a detector for the failure type and the proactive checks of the config
func NewDetectorFromConfig(model program.Model, cfg *config.Config, logger *config.LogGroup) *Detector {
	return &Detector{
		model:       model,
		failureType: cfg.FailureType,
		isCheck:     cfg.IsProactiveCheck,
		logger:      logger,
	}
}

// CaughtAt returns true if an exception handler of m covering s catches the failure type or one of its supertypes
func (d *Detector) CaughtAt(s program.StmtID, m program.MethodID) bool {
	return d.model.IsExceptionCaughtAt(d.failureType, s, m)
}

// ProactivelyChecked returns true if s is dominated in m by an invocation of one of the check methods. A statement
// without dominator information is never checked.
func (d *Detector) ProactivelyChecked(s program.StmtID, m program.MethodID) bool {
	return funcutil.Exists(d.model.DominatorsOf(s, m), func(dom program.StmtID) bool {
		st := d.model.Statement(dom)
		return st != nil && st.Invoke && d.isCheck(st.Target.Name)
	})
}

// Guarded returns whether s is guarded in m, and by which kind of guard. The exception handler test is evaluated
// first.
func (d *Detector) Guarded(s program.StmtID, m program.MethodID) (bool, Kind) {
	if d.CaughtAt(s, m) {
		d.logger.Tracef("statement %d of %s is in a handler of %s", s, d.methodName(m), d.failureType)
		return true, ExceptionHandler
	}
	if d.ProactivelyChecked(s, m) {
		d.logger.Tracef("statement %d of %s is dominated by a permission check", s, d.methodName(m))
		return true, ProactiveCheck
	}
	return false, None
}

func (d *Detector) methodName(m program.MethodID) string {
	if method := d.model.Method(m); method != nil {
		return method.Sig.Key()
	}
	return "?"
}
