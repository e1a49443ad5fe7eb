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

// Package tools contains utility types and functions for the revdroid tool frontends.
package tools

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/gofrontend"
	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/internal/analysisutil"
	"golang.org/x/tools/go/buildutil"
)

// UnparsedCommonFlags represents an unparsed CLI sub-command flags.
type UnparsedCommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath *string
	Verbose    *bool
	GoProgram  *bool
	BuildTags  *[]string
	Exclude    *ExcludePaths
}

// NewUnparsedCommonFlags returns an unparsed flag set with a given name.
// This is useful for creating sub-commands that have the flags -config, -verbose, -go, -build-tags and -exclude but need
// other flags in addition.
func NewUnparsedCommonFlags(name string) UnparsedCommonFlags {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := cmd.String("config", "", "config file path for analysis")
	verbose := cmd.Bool("verbose", false, "verbose printing on standard error")
	goProgram := cmd.Bool("go", false, "arguments are Go packages instead of model files")
	buildTags := &[]string{}
	cmd.Var((*buildutil.TagsFlag)(buildTags), "build-tags", buildutil.TagsFlagDoc)
	exclude := &ExcludePaths{}
	cmd.Var(exclude, "exclude", "Go file or directory treated as library code (can be repeated)")
	return UnparsedCommonFlags{
		FlagSet:    cmd,
		ConfigPath: configPath,
		Verbose:    verbose,
		GoProgram:  goProgram,
		BuildTags:  buildTags,
		Exclude:    exclude,
	}
}

// CommonFlags represents a parsed CLI sub-command flags.
// E.g., for the command `revdroid misuse ...`, "misuse" is the sub-command.
type CommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath string
	Verbose    bool
	GoProgram  bool
	BuildTags  []string
	Exclude    []string
}

// Parse parses args and returns the parsed common flags
func (u UnparsedCommonFlags) Parse(args []string) (CommonFlags, error) {
	if err := u.FlagSet.Parse(args); err != nil {
		return CommonFlags{}, fmt.Errorf("failed to parse command %s with args %v: %v", u.FlagSet.Name(), args, err)
	}
	return CommonFlags{
		FlagSet:    u.FlagSet,
		ConfigPath: *u.ConfigPath,
		Verbose:    *u.Verbose,
		GoProgram:  *u.GoProgram,
		BuildTags:  *u.BuildTags,
		Exclude:    analysisutil.MakeAbsolute(*u.Exclude),
	}, nil
}

// NewCommonFlags returns a parsed flag set with a given name.
// Returns an error if args are invalid.
// Prints cmdUsage along with flag docs as the --help message.
func NewCommonFlags(name string, args []string, cmdUsage string) (CommonFlags, error) {
	flags := NewUnparsedCommonFlags(name)
	SetUsage(flags.FlagSet, cmdUsage)
	return flags.Parse(args)
}

// SetUsage sets cmd's usage (for --help flag) to output the string cmdUsage
// followed by each flag's documentation.
func SetUsage(cmd *flag.FlagSet, cmdUsage string) {
	cmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", cmdUsage)
		fmt.Fprintf(os.Stderr, "Options:\n")
		cmd.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  %s: %s (default: %q)\n", f.Name, f.Usage, f.DefValue)
		})
	}
}

// ExcludePaths represents filepaths to exclude.
type ExcludePaths []string

func (e *ExcludePaths) String() string {
	if e == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", []string(*e))
}

// Set adds value to e.
// This method satisfies the flag.Value interface.
func (e *ExcludePaths) Set(value string) error {
	*e = append(*e, value)
	return nil
}

// LoadConfig loads the config file from configPath. The default config is returned when no path is given.
// The verbose flag overrides the log level of the file.
func LoadConfig(configPath string, verbose bool) (*config.Config, error) {
	cfg := config.NewDefault()
	if configPath != "" {
		config.SetGlobalConfig(configPath)
		loaded, err := config.LoadGlobal()
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
		}
		cfg = loaded
	}
	if verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	return cfg, nil
}

// LoadModel builds the program model the flags designate: the model files given as arguments, or the Go packages
// when -go is set. Several model files are not merged; exactly one is expected.
func LoadModel(flags CommonFlags, cfg *config.Config, logger *config.LogGroup) (*program.Arena, error) {
	args := flags.FlagSet.Args()
	if flags.GoProgram {
		if len(args) == 0 {
			return nil, fmt.Errorf("expected at least one Go package")
		}
		return gofrontend.LoadModel(cfg, logger, args, gofrontend.Options{
			Exclude:   flags.Exclude,
			BuildTags: strings.Join(flags.BuildTags, ","),
		})
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one model file, got %d (%s)", len(args), strings.Join(args, " "))
	}
	logger.Infof("reading model %s", args[0])
	model, err := program.LoadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("could not load model: %w", err)
	}
	return model, nil
}
