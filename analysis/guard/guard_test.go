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

package guard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/program"
)

const openCamera = "<android.hardware.Camera: android.hardware.Camera open()>"

const guardModel = `
hierarchy:
  java.lang.SecurityException: [java.lang.RuntimeException]
  java.lang.RuntimeException: [java.lang.Exception]
methods:
  - signature: "<app.A: void exact()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
      - {}
    traps:
      - {begin: 0, end: 1, type: java.lang.SecurityException}
  - signature: "<app.A: void ancestor()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
    traps:
      - {begin: 0, end: 1, type: java.lang.Exception}
  - signature: "<app.A: void unrelated()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
    traps:
      - {begin: 0, end: 1, type: java.io.IOException}
  - signature: "<app.A: void outside()>"
    body:
      - {}
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
    traps:
      - {begin: 0, end: 1, type: java.lang.SecurityException}
  - signature: "<app.A: void checked()>"
    body:
      - invoke: "<android.content.Context: int checkSelfPermission(java.lang.String)>"
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
  - signature: "<app.A: void branchChecked()>"
    body:
      - succs: [1, 2]
      - invoke: "<android.content.Context: int checkSelfPermission(java.lang.String)>"
        succs: [3]
      - {}
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
  - signature: "<app.A: void otherClassCheck()>"
    body:
      - invoke: "<app.Helper: boolean checkPermission(java.lang.String,int,int)>"
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
  - signature: "<app.A: void checkedAfter()>"
    body:
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
      - invoke: "<android.content.Context: int checkSelfPermission(java.lang.String)>"
`

func loadModel(t *testing.T, doc string) *program.Arena {
	t.Helper()
	a, err := program.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to decode model: %v", err)
	}
	return a
}

// sensitiveCall returns the call to Camera.open() in the method with signature key
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

func newTestDetector(model program.Model) *Detector {
	cfg := config.NewDefault()
	return NewDetectorFromConfig(model, cfg, config.NewLogGroup(cfg))
}

func TestGuarded(t *testing.T) {
	a := loadModel(t, guardModel)
	d := newTestDetector(a)
	for _, test := range []struct {
		method string
		want   Kind
	}{
		{"<app.A: void exact()>", ExceptionHandler},
		{"<app.A: void ancestor()>", ExceptionHandler},
		{"<app.A: void unrelated()>", None},
		{"<app.A: void outside()>", None},
		{"<app.A: void checked()>", ProactiveCheck},
		{"<app.A: void branchChecked()>", None},
		{"<app.A: void otherClassCheck()>", ProactiveCheck},
		{"<app.A: void checkedAfter()>", None},
	} {
		s, m := sensitiveCall(t, a, test.method)
		ok, kind := d.Guarded(s, m)
		if ok != (test.want != None) || kind != test.want {
			t.Errorf("%s: expected %s, got %v (%s)", test.method, test.want, ok, kind)
		}
	}
}

func TestExceptionTestFirst(t *testing.T) {
	a := loadModel(t, `
methods:
  - signature: "<app.A: void both()>"
    body:
      - invoke: "<android.content.Context: int checkSelfPermission(java.lang.String)>"
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
    traps:
      - {begin: 1, end: 2, type: java.lang.SecurityException}
`)
	d := newTestDetector(a)
	s, m := sensitiveCall(t, a, "<app.A: void both()>")
	if !d.ProactivelyChecked(s, m) || !d.CaughtAt(s, m) {
		t.Fatalf("both tests should succeed")
	}
	if _, kind := d.Guarded(s, m); kind != ExceptionHandler {
		t.Errorf("the exception handler test should be reported first, got %s", kind)
	}
}

func TestCustomFailureTypeAndChecks(t *testing.T) {
	a := loadModel(t, guardModel)
	cfg := config.NewDefault()
	d := NewDetector(a, "java.lang.IllegalStateException", []string{"enforcePermission"}, config.NewLogGroup(cfg))
	s, m := sensitiveCall(t, a, "<app.A: void exact()>")
	if d.CaughtAt(s, m) {
		t.Errorf("a SecurityException handler does not catch IllegalStateException")
	}
	s, m = sensitiveCall(t, a, "<app.A: void checked()>")
	if d.ProactivelyChecked(s, m) {
		t.Errorf("checkSelfPermission is not one of the configured checks")
	}
}

// noDominators hides the dominator information of the underlying model
type noDominators struct {
	*program.Arena
}

func (noDominators) DominatorsOf(program.StmtID, program.MethodID) []program.StmtID {
	return nil
}

func TestMissingDominatorsIsNotChecked(t *testing.T) {
	a := loadModel(t, guardModel)
	d := newTestDetector(noDominators{a})
	s, m := sensitiveCall(t, a, "<app.A: void checked()>")
	if d.ProactivelyChecked(s, m) {
		t.Errorf("without dominators no proactive check can be found")
	}
}

func TestDetectorFromConfigChecks(t *testing.T) {
	a := loadModel(t, `
methods:
  - signature: "<app.A: void enforced()>"
    body:
      - invoke: "<android.content.Context: void enforceCallingPermission(java.lang.String,java.lang.String)>"
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
  - signature: "<app.A: void checked()>"
    body:
      - invoke: "<android.content.Context: int checkSelfPermission(java.lang.String)>"
      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
`)
	filename := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filename, []byte("proactive-checks: [enforceCallingPermission]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(filename)
	if err != nil {
		t.Fatal(err)
	}
	d := NewDetectorFromConfig(a, cfg, config.NewLogGroup(cfg))

	s, m := sensitiveCall(t, a, "<app.A: void enforced()>")
	if ok, kind := d.Guarded(s, m); !ok || kind != ProactiveCheck {
		t.Errorf("enforceCallingPermission is a check of the config, got %v %v", ok, kind)
	}
	s, m = sensitiveCall(t, a, "<app.A: void checked()>")
	if d.ProactivelyChecked(s, m) {
		t.Errorf("the checks of the config replace the default checks")
	}
	if !newTestDetector(a).ProactivelyChecked(s, m) {
		t.Errorf("checkSelfPermission is a default check")
	}
}
