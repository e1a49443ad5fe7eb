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

// Package misuse implements the front-end of the permission misuse detection.
package misuse

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dong-li-awx/revdroid/analysis/catalog"
	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/misuse"
	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/cmd/revdroid/tools"
	"github.com/dong-li-awx/revdroid/internal/formatutil"
	"github.com/dong-li-awx/revdroid/internal/funcutil"
)

// Usage for CLI
const Usage = `Report the sensitive calls that are not guarded against a missing permission.
Usage:
  revdroid misuse [options] <model file>
  revdroid misuse [options] -go <package path(s)>
Examples:
  % revdroid misuse -config config.yaml app.yaml
  % revdroid misuse -config config.yaml -json -go ./cmd/server
`

// Flags represents the parsed flags of the misuse tool
type Flags struct {
	tools.CommonFlags
	catalogPath string
	json        bool
	branchLocal bool
}

// NewFlags returns the parsed flags of the misuse tool with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("misuse")
	catalogPath := flags.FlagSet.String("catalog", "", "permission mapping file, overrides the config")
	json := flags.FlagSet.Bool("json", false, "print the misuses as JSON")
	branchLocal := flags.FlagSet.Bool("branch-local", false, "use a separate history for every caller branch")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{
		CommonFlags: common,
		catalogPath: *catalogPath,
		json:        *json,
		branchLocal: *branchLocal,
	}, nil
}

// Run runs the misuse detection with flags.
func Run(flags Flags) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	if flags.json {
		cfg.ReportJSON = true
	}
	if flags.branchLocal {
		cfg.BranchLocalHistory = true
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof(formatutil.Faint("revdroid misuse tool - " + config.Version))

	model, err := tools.LoadModel(flags.CommonFlags, cfg, logger)
	if err != nil {
		return err
	}
	logger.Infof("model has %s and %s, %d reachable",
		formatutil.Plural(model.NumMethods(), "method"),
		formatutil.Plural(model.NumStatements(), "statement"),
		len(model.ReachableMethods()))

	cat, err := loadCatalog(flags.catalogPath, cfg, model, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	result := misuse.Analyze(model, cat, cfg, logger)
	logger.Infof("analysis took %3.4f s", time.Since(start).Seconds())
	if cfg.Verbose() {
		logger.Infof("%d queries, %d visits, %d recursion breaks, %d anomalies",
			result.Stats.Queries, result.Stats.Visits, result.Stats.RecursionBreaks, result.Stats.Anomalies)
	}

	if cfg.ReportJSON {
		return misuse.WriteJSON(os.Stdout, model, result.Records)
	}
	if len(result.Records) == 0 {
		logger.Infof("RESULT:\n\t\t%s", formatutil.Green("No permission misuse detected ✓")) // safe %s
		return nil
	}
	logger.Warnf("RESULT:\n\t\t%s", formatutil.Red(formatutil.Plural(len(result.Records), "misuse")+" detected!"))
	return misuse.WriteText(os.Stdout, model, result.Records)
}

// loadCatalog loads the catalog named by the flag or the config. The permissions of the config select the catalog
// entries, and when there are none, the permissions the model declares.
func loadCatalog(flagPath string, cfg *config.Config, model *program.Arena,
	logger *config.LogGroup) (*catalog.Catalog, error) {
	path := flagPath
	if path == "" {
		path = cfg.CatalogPath()
	}
	if path == "" {
		return nil, fmt.Errorf("no catalog: set catalog in the config or use -catalog")
	}
	permissions := cfg.Permissions
	if len(permissions) == 0 {
		permissions = model.Permissions()
	} else if requested := model.Permissions(); len(requested) > 0 {
		for _, p := range permissions {
			if !funcutil.Contains(requested, p) {
				logger.Warnf("permission %s is not requested by the program", p)
			}
		}
	}
	if len(permissions) > 0 {
		logger.Infof("permissions of interest: %s", strings.Join(permissions, ", "))
	} else {
		logger.Infof("permissions of interest: all")
	}
	cat, err := catalog.Load(path, permissions)
	if err != nil {
		return nil, fmt.Errorf("could not load catalog: %w", err)
	}
	logger.Infof("catalog has %s", formatutil.Plural(cat.Len(), "sensitive method"))
	return cat, nil
}
