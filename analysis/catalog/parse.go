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

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dong-li-awx/revdroid/analysis/program"
)

const permissionHeader = "Permission:"

// Load reads the mapping file filename. See Parse for the format and the meaning of permissions.
func Load(filename string, permissions []string) (*Catalog, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open catalog: %w", err)
	}
	defer f.Close()
	return Parse(filename, f, permissions)
}

// Parse reads a permission mapping in PScout format:
//
//	Permission:android.permission.CAMERA
//	12 Callers:
//	<android.hardware.Camera: android.hardware.Camera open()> (3 callers)
//	<android.hardware.Camera: android.hardware.Camera open(int)> (1 callers)
//
// Each section starts with a permission header and a line giving the number of callers, followed by one method
// signature per line. Anything after the closing > of a signature is ignored, as are blank lines and lines starting
// with #. A method listed under several permissions has a single entry requiring all of them.
//
// If permissions is not empty, only the sections of those permissions are read.
// source is used in error messages.
func Parse(source string, r io.Reader, permissions []string) (*Catalog, error) {
	var filter map[string]bool
	if len(permissions) > 0 {
		filter = make(map[string]bool, len(permissions))
		for _, p := range permissions {
			filter[p] = true
		}
	}

	c := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	permission := ""     // permission of the current section, empty when the section is skipped
	afterHeader := false // the next line is the count of callers
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, permissionHeader) {
			p := strings.TrimSpace(strings.TrimPrefix(line, permissionHeader))
			if p == "" {
				return nil, fmt.Errorf("%s:%d: empty permission name", source, lineNum)
			}
			permission = p
			if filter != nil && !filter[p] {
				permission = ""
			}
			afterHeader = true
			continue
		}
		if afterHeader {
			afterHeader = false
			if !strings.HasPrefix(line, "<") {
				continue
			}
		}
		if !strings.HasPrefix(line, "<") {
			// the list of methods of the section has ended
			permission = ""
			continue
		}
		if permission == "" {
			continue
		}
		end := strings.Index(line, ")>")
		if end < 0 {
			return nil, fmt.Errorf("%s:%d: unterminated method signature", source, lineNum)
		}
		sig, err := program.ParseSignature(line[:end+2])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineNum, err)
		}
		c.Add(sig, permission)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", source, lineNum, err)
	}
	return c, nil
}
