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

// Package analysisutil contains helpers shared by the front-end and the command line tools.
package analysisutil

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// MakeAbsolute converts the relative paths of excludeRelative to absolute paths, relative to the current working
// directory. Absolute paths are passed through unchanged, and a trailing / is kept.
func MakeAbsolute(excludeRelative []string) []string {
	result := make([]string, 0, len(excludeRelative))
	cwd, _ := os.Getwd()
	for _, s := range excludeRelative {
		if filepath.IsAbs(s) {
			result = append(result, s)
			continue
		}
		abs := filepath.Join(cwd, s)
		if strings.HasSuffix(s, "/") {
			abs += "/"
		}
		result = append(result, abs)
	}
	return result
}

// isExcludedFile returns true if filename is excluded by exclude: a .go file must match exactly, a directory
// excludes all the files below it.
func isExcludedFile(filename string, exclude string) bool {
	if strings.HasSuffix(exclude, ".go") {
		return filename == exclude // full match required
	} else if strings.HasSuffix(exclude, "/") {
		return strings.HasPrefix(filename, exclude) // prefix match required
	} else {
		return strings.HasPrefix(filename, exclude+"/") // prefix match plus / required
	}
}

// IsExcluded scans the exclude slices to find out whether the file declaring f is excluded
func IsExcluded(program *ssa.Program, f *ssa.Function, exclude []string) bool {
	if len(exclude) == 0 {
		return false
	}
	filename := program.Fset.Position(f.Pos()).Filename
	if filename == "" {
		return false
	}
	for _, e := range exclude {
		if isExcludedFile(filename, e) {
			return true
		}
	}
	return false
}
