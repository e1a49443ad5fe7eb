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

package gofrontend

import (
	"strings"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/internal/analysisutil"
	"github.com/dong-li-awx/revdroid/internal/funcutil"
	"golang.org/x/tools/go/ssa"
)

// stdlib is the list of standard library package roots. Functions in those packages are library code.
var stdlib = []string{
	"archive",
	"bufio",
	"builtin",
	"bytes",
	"cmd",
	"compress",
	"container",
	"context",
	"crypto",
	"database",
	"debug",
	"embed",
	"encoding",
	"errors",
	"expvar",
	"flag",
	"fmt",
	"go",
	"golang.org/x",
	"hash",
	"html",
	"image",
	"index",
	"internal",
	"io",
	"log",
	"maps",
	"math",
	"mime",
	"net",
	"os",
	"path",
	"plugin",
	"reflect",
	"regexp",
	"runtime",
	"slices",
	"sort",
	"strconv",
	"strings",
	"sync",
	"syscall",
	"testing",
	"text",
	"time",
	"unicode",
	"unsafe",
	"vendor"}

func isStdlib(path string) bool {
	return funcutil.Exists(stdlib, func(p string) bool {
		return p == path || strings.HasPrefix(path, p+"/")
	})
}

// isLibrary returns true if f is not application code: synthetic functions without a package, standard library
// functions, functions whose package does not match the package filter, and functions in excluded files.
func isLibrary(cfg *config.Config, prog *ssa.Program, f *ssa.Function, exclude []string) bool {
	if f.Pkg == nil {
		return true
	}
	path := f.Pkg.Pkg.Path()
	return isStdlib(path) || !cfg.MatchPkgFilter(path) || analysisutil.IsExcluded(prog, f, exclude)
}
