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

package cycles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/internal/formatutil"
)

const recursiveModel = `
entry-points: ["<app.M: void main()>"]
methods:
  - signature: "<app.M: void main()>"
    body:
      - invoke: "<app.M: void a()>"
  - signature: "<app.M: void a()>"
    body:
      - invoke: "<app.M: void b()>"
  - signature: "<app.M: void b()>"
    body:
      - invoke: "<app.M: void a()>"
  - signature: "<app.M: void dead()>"
    body:
      - invoke: "<app.M: void dead()>"
`

func loadModel(t *testing.T) *program.Arena {
	t.Helper()
	a, err := program.Decode(strings.NewReader(recursiveModel))
	if err != nil {
		t.Fatalf("failed to decode model: %v", err)
	}
	return a
}

func TestPrintReachable(t *testing.T) {
	formatutil.ColorsEnabled = false
	var buf bytes.Buffer
	if err := Print(&buf, loadModel(t), true, true); err != nil {
		t.Fatal(err)
	}
	want := `component 0
  <app.M: void a()>
  <app.M: void b()>
  cycle: <app.M: void a()> <app.M: void b()> <app.M: void a()>
1 recursive component
`
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintAllMethods(t *testing.T) {
	formatutil.ColorsEnabled = false
	var buf bytes.Buffer
	if err := Print(&buf, loadModel(t), false, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "<app.M: void dead()>") {
		t.Errorf("unreachable recursion should be printed when all methods are considered:\n%s", out)
	}
	if !strings.HasSuffix(out, "2 recursive components\n") {
		t.Errorf("expected two components:\n%s", out)
	}
	if strings.Contains(out, "cycle:") {
		t.Errorf("cycles should only be printed on demand:\n%s", out)
	}
}
