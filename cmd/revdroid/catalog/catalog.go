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

// Package catalog implements the front-end printing the sensitive methods of a permission mapping.
package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/dong-li-awx/revdroid/analysis/catalog"
	"github.com/dong-li-awx/revdroid/cmd/revdroid/tools"
	"github.com/dong-li-awx/revdroid/internal/formatutil"
)

// Usage for CLI
const Usage = `Print the sensitive methods of a permission mapping file.
Usage:
  revdroid catalog [options] [mapping file]
Examples:
  % revdroid catalog -permission android.permission.CAMERA allmappings
  % revdroid catalog -config config.yaml
`

// Flags represents the parsed flags of the catalog tool
type Flags struct {
	tools.CommonFlags
	permissions []string
}

// NewFlags returns the parsed flags of the catalog tool with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("catalog")
	permissions := &tools.ExcludePaths{}
	flags.FlagSet.Var(permissions, "permission", "only print the methods requiring this permission (can be repeated)")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, permissions: *permissions}, nil
}

// Run loads the catalog designated by flags and prints it on standard output
func Run(flags Flags) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	path := cfg.CatalogPath()
	if args := flags.FlagSet.Args(); len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no catalog: give a mapping file or set catalog in the config")
	}
	permissions := flags.permissions
	if len(permissions) == 0 {
		permissions = cfg.Permissions
	}
	cat, err := catalog.Load(path, permissions)
	if err != nil {
		return fmt.Errorf("could not load catalog: %w", err)
	}
	return Print(os.Stdout, cat)
}

// Print writes the sensitive methods of cat grouped by permission, followed by a summary
func Print(w io.Writer, cat *catalog.Catalog) error {
	methods := cat.Methods()
	for _, permission := range cat.Permissions() {
		fmt.Fprintf(w, "%s\n", formatutil.Bold(formatutil.Sanitize(permission)))
		for _, m := range methods {
			if m.Requires(permission) {
				fmt.Fprintf(w, "  %s\n", formatutil.SanitizeRepr(m.Sig))
			}
		}
	}
	_, err := fmt.Fprintf(w, "%s, %s\n",
		formatutil.Plural(cat.Len(), "sensitive method"),
		formatutil.Plural(len(cat.Permissions()), "permission"))
	return err
}
