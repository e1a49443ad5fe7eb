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

package formatutil

import (
	"testing"
)

func TestColorDisabled(t *testing.T) {
	prev := ColorsEnabled
	defer func() { ColorsEnabled = prev }()

	ColorsEnabled = false
	if got := Red("unguarded", " ", 2); got != "unguarded 2" {
		t.Errorf("expected plain text when colors are disabled, got %q", got)
	}
	ColorsEnabled = true
	if got := Bold("x"); got != "\033[1mx\033[0m" {
		t.Errorf("expected bold escape sequence, got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a\033[1mb\n"); got != `a\x1b[1mb\n` {
		t.Errorf("unexpected sanitized string %q", got)
	}
	if got := Sanitize("<A: void b()>"); got != "<A: void b()>" {
		t.Errorf("printable strings should be unchanged, got %q", got)
	}
}

func TestPlural(t *testing.T) {
	for n, want := range map[int]string{0: "0 misuses", 1: "1 misuse", 3: "3 misuses"} {
		if got := Plural(n, "misuse"); got != want {
			t.Errorf("Plural(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestJoinSorted(t *testing.T) {
	if got := JoinSorted([]string{"CAMERA", "LOCATION\n"}, ", "); got != `CAMERA, LOCATION\n` {
		t.Errorf("unexpected join %q", got)
	}
}
