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

package tools

import (
	"strings"
	"testing"
)

func validateHint(t *testing.T, errorMsg string, containedHint string) {
	hint := HintForErrorMessage(errorMsg)
	if !strings.Contains(hint, containedHint) {
		t.Fatalf("incorrect hint %q for %q", hint, errorMsg)
	}
}

func TestHintForFlagAfterFiles(t *testing.T) {
	errorMsg := "error: could not load program:\n -: named files must be .go files: -v"
	validateHint(t, errorMsg, "all command line flags should be before the path")
}

func TestHintForFailedLoadProgram(t *testing.T) {
	errorMsg := "error: could not load program:\n errors found, exiting\n"
	validateHint(t, errorMsg, "right arguments to load a Go program")
}

func TestHintForGoFileAsModel(t *testing.T) {
	errorMsg := "could not load model: could not parse model main.go: yaml: line 3: mapping values are not allowed"
	validateHint(t, errorMsg, "use -go")
}

func TestHintForCatalog(t *testing.T) {
	errorMsg := "could not load catalog: mappings.txt:4: malformed signature \"open\""
	validateHint(t, errorMsg, "PScout format")
}

func TestNoHint(t *testing.T) {
	if hint := HintForErrorMessage("something else"); hint != "" {
		t.Errorf("expected no hint, got %q", hint)
	}
}
