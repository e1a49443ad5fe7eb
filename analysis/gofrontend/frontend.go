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

// Package gofrontend builds program models from Go packages, so that the misuse detection can run on Go code.
// Sensitive calls are calls to Go functions listed in the catalog, panics play the role of the failure raised when a
// permission is missing, and deferred functions that recover play the role of exception handlers.
package gofrontend

import (
	"fmt"
	"go/token"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/internal/analysisutil"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
)

// LoadModel loads the packages named by args, computes their call graph with the analysis selected by the config
// and returns the program model.
func LoadModel(cfg *config.Config, logger *config.LogGroup, args []string, opts Options) (*program.Arena, error) {
	mode, err := ParseCallgraphAnalysisMode(cfg.CallgraphAnalysis)
	if err != nil {
		return nil, err
	}

	pcfg := &packages.Config{
		Mode:  PkgLoadMode,
		Tests: false,
		Dir:   opts.Dir,
		Fset:  token.NewFileSet(),
	}
	if opts.BuildTags != "" {
		pcfg.BuildFlags = []string{"-tags", opts.BuildTags}
	}

	logger.Infof("loading packages %v", args)
	loaded, err := LoadProgram(pcfg, opts.Platform, ssa.InstantiateGenerics, args)
	if err != nil {
		return nil, fmt.Errorf("could not load program: %w", err)
	}

	appPackages := 0
	analysisutil.VisitPackages(loaded.Packages, func(p *packages.Package) bool {
		if isStdlib(p.PkgPath) || !cfg.MatchPkgFilter(p.PkgPath) {
			return false
		}
		appPackages++
		logger.Debugf("application package %s", p.PkgPath)
		return true
	})
	logger.Infof("loaded %d application packages", appPackages)

	logger.Infof("computing %s call graph", mode)
	cg, err := mode.ComputeCallgraph(loaded.Program)
	if err != nil {
		return nil, fmt.Errorf("could not compute call graph: %w", err)
	}
	return Build(loaded.Program, cg, cfg, logger, opts)
}
