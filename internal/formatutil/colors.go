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

// Package formatutil contains the formatting helpers used when printing reports on a terminal.
package formatutil

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorsEnabled reports whether standard output is a terminal. Colors are not printed otherwise.
var ColorsEnabled = term.IsTerminal(int(os.Stdout.Fd()))

var (
	Bold   = Color("\033[1m%s\033[0m")
	Faint  = Color("\033[2m%s\033[0m")
	Red    = Color("\033[1;31m%s\033[0m")
	Green  = Color("\033[1;32m%s\033[0m")
	Yellow = Color("\033[1;33m%s\033[0m")
	Cyan   = Color("\033[1;36m%s\033[0m")
)

// Color returns a function that formats its arguments like fmt.Sprint and wraps the result in colorString when
// colors are enabled.
func Color(colorString string) func(...any) string {
	return func(args ...any) string {
		s := fmt.Sprint(args...)
		if ColorsEnabled {
			return fmt.Sprintf(colorString, s)
		}
		return s
	}
}

// Sanitize removes the escape sequences and control characters of s by quoting it
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	}
	return r
}

// SanitizeRepr sanitizes the string representation of an object
func SanitizeRepr(s fmt.Stringer) string {
	return Sanitize(s.String())
}

// Plural returns "n noun" with an s appended to noun when n is not one
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// JoinSorted returns the elements of items separated by sep. items must already be sorted; the function only
// sanitizes each element.
func JoinSorted(items []string, sep string) string {
	clean := make([]string, len(items))
	for i, item := range items {
		clean[i] = Sanitize(item)
	}
	return strings.Join(clean, sep)
}
