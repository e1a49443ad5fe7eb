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

package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the catalog location, the permissions of interest and the guard definitions used by the
// misuse detector.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options" toml:"options"`

	sourceFile string

	// Catalog is the path to the permission mapping file (PScout format). A relative path is resolved relative to
	// the config file.
	Catalog string `yaml:"catalog" toml:"catalog"`

	// Permissions restricts the catalog to the methods requiring one of those permissions. If empty, the
	// permissions requested by the analyzed application are used, and if those are unknown, all permissions.
	Permissions []string `yaml:"permissions" toml:"permissions"`

	// FailureType is the exception type raised by a sensitive call when the permission is not granted.
	FailureType string `yaml:"failure-type" toml:"failure-type"`

	// ProactiveChecks lists the names of the methods that check a permission before a sensitive call is made.
	// They are matched by name only.
	ProactiveChecks []string `yaml:"proactive-checks" toml:"proactive-checks"`

	// LibraryPrefixes lists the class name prefixes of library code. Sensitive calls made from library code are
	// not reported.
	LibraryPrefixes []string `yaml:"library-prefixes" toml:"library-prefixes"`

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// the set of proactive check names, computed from ProactiveChecks
	checkNames map[string]bool
}

// Options are the general options of the tool
type Options struct {
	// PkgFilter is a filter used by the Go front-end: only functions whose package matches the filter are considered
	// application code. The filter is a regex, or a prefix if it cannot be compiled.
	PkgFilter string `yaml:"pkg-filter" toml:"pkg-filter"`

	// CallgraphAnalysis selects the algorithm used by the Go front-end to build the call graph.
	// One of "static", "cha", "rta" or "vta".
	CallgraphAnalysis string `yaml:"callgraph-analysis" toml:"callgraph-analysis"`

	// BranchLocalHistory makes every caller branch of the interprocedural search use its own copy of the
	// traversal history. When false (the default), the history is shared by all branches of a query.
	BranchLocalHistory bool `yaml:"branch-local-history" toml:"branch-local-history"`

	// ReportJSON prints the misuses as JSON instead of text
	ReportJSON bool `yaml:"report-json" toml:"report-json"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level" toml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn" toml:"silence-warn"`
}

// NewDefault returns a default config, set up for Android permission checks.
func NewDefault() *Config {
	return &Config{
		sourceFile:      "",
		Catalog:         "",
		Permissions:     nil,
		FailureType:     DefaultFailureType,
		ProactiveChecks: append([]string{}, DefaultProactiveChecks...),
		LibraryPrefixes: append([]string{}, DefaultLibraryPrefixes...),
		Options: Options{
			PkgFilter:          "",
			CallgraphAnalysis:  DefaultCallgraphAnalysis,
			BranchLocalHistory: false,
			ReportJSON:         false,
			LogLevel:           int(InfoLevel),
			SilenceWarn:        false,
		},
	}
}

// Load reads a configuration from a file. Files with the .toml extension are decoded as TOML, all others as
// YAML (which includes JSON).
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		if _, err := toml.Decode(string(b), cfg); err != nil {
			return nil, fmt.Errorf("could not unmarshal config file as toml: %w", err)
		}
	} else if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file as yaml: %w", err)
	}

	cfg.sourceFile = filename
	cfg.init()
	return cfg, nil
}

// init computes the private fields and the defaults of the fields that have been left empty
func (c *Config) init() {
	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if c.LogLevel == 0 {
		c.LogLevel = int(InfoLevel)
	}

	if c.FailureType == "" {
		c.FailureType = DefaultFailureType
	}

	if c.CallgraphAnalysis == "" {
		c.CallgraphAnalysis = DefaultCallgraphAnalysis
	}

	if c.PkgFilter != "" {
		r, err := regexp.Compile(c.PkgFilter)
		if err == nil {
			c.pkgFilterRegex = r
		}
	}

	c.checkNames = make(map[string]bool, len(c.ProactiveChecks))
	for _, name := range c.ProactiveChecks {
		c.checkNames[name] = true
	}
}

// RelPath returns filename path relative to the config source file. Absolute paths are returned unchanged.
func (c Config) RelPath(filename string) string {
	if path.IsAbs(filename) {
		return filename
	}
	return path.Join(path.Dir(c.sourceFile), filename)
}

// CatalogPath returns the path of the catalog file, resolved relative to the config file. Returns the empty string
// if no catalog has been specified.
func (c Config) CatalogPath() string {
	if c.Catalog == "" {
		return ""
	}
	return c.RelPath(c.Catalog)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in the config file. If no
// package filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the package filter string is a prefix of the pkgname
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	} else {
		return true
	}
}

// IsLibrary returns true if the class (or package) name starts with one of the library prefixes
func (c Config) IsLibrary(class string) bool {
	for _, prefix := range c.LibraryPrefixes {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}

// IsProactiveCheck returns true if name is the name of one of the proactive check methods
func (c *Config) IsProactiveCheck(name string) bool {
	if c.checkNames == nil {
		c.init()
	}
	return c.checkNames[name]
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
