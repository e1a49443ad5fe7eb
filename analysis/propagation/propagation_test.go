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
	"bytes"
	"strings"
	"testing"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/guard"
	"github.com/dong-li-awx/revdroid/analysis/program"
)

const openCamera = "<android.hardware.Camera: android.hardware.Camera open()>"

func loadModel(t *testing.T, doc string) *program.Arena {
	t.Helper()
	a, err := program.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to decode model: %v", err)
	}
	return a
}

func sensitiveCall(t *testing.T, a *program.Arena, key string) (program.StmtID, program.MethodID) {
	t.Helper()
	m, ok := a.MethodBySignature(key)
	if !ok {
		t.Fatalf("no method %s", key)
	}
	for _, s := range a.CallSites(m) {
		if a.Statement(s).Target.Key() == openCamera {
			return s, m
		}
	}
	t.Fatalf("no sensitive call in %s", key)
	return -1, -1
}

func newTestPropagator(a *program.Arena, branchLocal bool) (*Propagator, *bytes.Buffer) {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.DebugLevel)
	logger := config.NewLogGroup(cfg)
	var buf bytes.Buffer
	logger.SetAllOutput(&buf)
	return New(a, guard.NewDetectorFromConfig(a, cfg, logger), logger, branchLocal), &buf
}

func TestLocalGuardExaminesNoCaller(t *testing.T) {
	a := loadModel(t, `
methods:
  - signature: "<app.Main: void main()>"
    body:
      - invoke: "<app.Cam: void take()>"
  - signature: "<app.Cam: void take()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
    traps:
      - {begin: 0, end: 1, type: java.lang.Throwable}
hierarchy:
  java.lang.SecurityException: [java.lang.RuntimeException]
  java.lang.RuntimeException: [java.lang.Exception]
  java.lang.Exception: [java.lang.Throwable]
`)
	p, _ := newTestPropagator(a, false)
	s, m := sensitiveCall(t, a, "<app.Cam: void take()>")
	if !p.Check(s, m) {
		t.Errorf("call in a Throwable handler should be guarded")
	}
	if st := p.Stats(); st.CallerVisits != 0 || st.LocallyGuarded != 1 || st.Queries != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestNoGuardNoCallers(t *testing.T) {
	a := loadModel(t, `
methods:
  - signature: "<app.Cam: void take()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
`)
	p, buf := newTestPropagator(a, false)
	s, m := sensitiveCall(t, a, "<app.Cam: void take()>")
	if p.Check(s, m) {
		t.Errorf("call in an uncalled method without guard should not be guarded")
	}
	logged := false
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "[DEBUG] ") && strings.Contains(line, "<app.Cam: void take()> has no callers") {
			logged = true
		}
	}
	if !logged {
		t.Errorf("the verdict of a method without callers should be logged at debug level, got:\n%s", buf.String())
	}
}

const andOverCallers = `
methods:
  - signature: "<app.Guarded: void run()>"
    body:
      - invoke: "<android.content.Context: int checkSelfPermission(java.lang.String)>"
      - invoke: "<app.Cam: void take()>"
  - signature: "<app.Unguarded: void run()>"
    body:
      - invoke: "<app.Cam: void take()>"
  - signature: "<app.Cam: void take()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
`

func TestAndOverCallers(t *testing.T) {
	a := loadModel(t, andOverCallers)
	p, _ := newTestPropagator(a, false)
	s, m := sensitiveCall(t, a, "<app.Cam: void take()>")
	if p.Check(s, m) {
		t.Errorf("one unguarded caller makes the call unguarded")
	}

	// without the unguarded caller the call is guarded
	guarded := loadModel(t, `
methods:
  - signature: "<app.Guarded: void run()>"
    body:
      - invoke: "<android.content.Context: int checkSelfPermission(java.lang.String)>"
      - invoke: "<app.Cam: void take()>"
  - signature: "<app.Cam: void take()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
`)
	p, _ = newTestPropagator(guarded, false)
	s, m = sensitiveCall(t, guarded, "<app.Cam: void take()>")
	if len(guarded.CallersOf(m)) != 1 {
		t.Fatalf("expected a single caller, got %v", guarded.CallersOf(m))
	}
	if !p.Check(s, m) {
		t.Errorf("the only caller is checked, the call should be guarded")
	}
}

func TestCycleTerminates(t *testing.T) {
	a := loadModel(t, `
methods:
  - signature: "<app.A: void a()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
      - invoke: "<app.B: void b()>"
  - signature: "<app.B: void b()>"
    body:
      - invoke: "<app.A: void a()>"
`)
	for _, branchLocal := range []bool{false, true} {
		p, buf := newTestPropagator(a, branchLocal)
		s, m := sensitiveCall(t, a, "<app.A: void a()>")
		if p.Check(s, m) {
			t.Errorf("a call on an unguarded cycle should not be guarded")
		}
		if p.Stats().RecursionBreaks != 1 {
			t.Errorf("expected one recursion break, got %+v", p.Stats())
		}
		if !strings.Contains(buf.String(), "recursion found") {
			t.Errorf("recursion should be logged, got:\n%s", buf.String())
		}
	}
}

func TestGuardedCycle(t *testing.T) {
	// the cycle is entered from a guarded call in main, but the cycle itself can always be re-entered
	a := loadModel(t, `
methods:
  - signature: "<app.Main: void main()>"
    body:
      - invoke: "<app.A: void a()>"
    traps:
      - {begin: 0, end: 1, type: java.lang.SecurityException}
  - signature: "<app.A: void a()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
      - invoke: "<app.A: void a()>"
`)
	p, _ := newTestPropagator(a, false)
	s, m := sensitiveCall(t, a, "<app.A: void a()>")
	if p.Check(s, m) {
		t.Errorf("the recursive call path is not guarded")
	}
}

const diamond = `
methods:
  - signature: "<app.Base: void run()>"
    concrete: false
  - signature: "<app.Main: void main()>"
    body:
      - invoke: "<app.Base: void run()>"
        targets: ["<app.X: void run()>", "<app.Y: void run()>"]
    traps:
      - {begin: 0, end: 1, type: java.lang.SecurityException}
  - signature: "<app.X: void run()>"
    body:
      - invoke: "<app.Util: void capture()>"
  - signature: "<app.Y: void run()>"
    body:
      - invoke: "<app.Util: void capture()>"
  - signature: "<app.Util: void capture()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
`

func TestDiamondSharedHistory(t *testing.T) {
	a := loadModel(t, diamond)
	p, _ := newTestPropagator(a, false)
	s, m := sensitiveCall(t, a, "<app.Util: void capture()>")
	if p.Check(s, m) {
		t.Errorf("with a shared history, the second visit of the dispatch site is a recursion")
	}
	if p.Stats().RecursionBreaks != 1 {
		t.Errorf("expected one recursion break, got %+v", p.Stats())
	}
}

func TestDiamondBranchLocalHistory(t *testing.T) {
	a := loadModel(t, diamond)
	p, _ := newTestPropagator(a, true)
	s, m := sensitiveCall(t, a, "<app.Util: void capture()>")
	if !p.Check(s, m) {
		t.Errorf("with branch-local histories, both paths go through the guarded dispatch site")
	}
	if st := p.Stats(); st.RecursionBreaks != 0 || st.LocallyGuarded != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestNonInvokeCallerIsAnomaly(t *testing.T) {
	a := loadModel(t, `
methods:
  - signature: "<app.Main: void main()>"
    body:
      - targets: ["<app.Cam: void take()>"]
    traps:
      - {begin: 0, end: 1, type: java.lang.SecurityException}
  - signature: "<app.Cam: void take()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
`)
	p, buf := newTestPropagator(a, false)
	s, m := sensitiveCall(t, a, "<app.Cam: void take()>")
	if p.Check(s, m) {
		t.Errorf("a caller that is not an invocation makes the call unguarded")
	}
	if p.Stats().Anomalies != 1 {
		t.Errorf("expected one anomaly, got %+v", p.Stats())
	}
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("anomaly should be logged as a warning, got:\n%s", buf.String())
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory()
	h.Add(3)
	h.Add(1)
	c := h.Clone()
	c.Add(2)
	if h.Has(2) || h.Len() != 2 {
		t.Errorf("clone should not modify the original history")
	}
	if !c.Has(1) || !c.Has(3) || c.Len() != 3 {
		t.Errorf("clone should contain the original statements")
	}
	if got := c.Statements(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("statements should be sorted, got %v", got)
	}
}

func TestIsGuardedAddsToHistory(t *testing.T) {
	a := loadModel(t, andOverCallers)
	p, _ := newTestPropagator(a, false)
	s, m := sensitiveCall(t, a, "<app.Cam: void take()>")
	h := NewHistory()
	p.IsGuarded(s, m, h)
	if !h.Has(s) {
		t.Errorf("the statement should be in the history")
	}
	if p.IsGuarded(s, m, h) {
		t.Errorf("a statement already in the history is not guarded")
	}
}
