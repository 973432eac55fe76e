// Copyright the atomizer authors. All Rights Reserved.
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

	"gopkg.in/yaml.v3"
)

// DefaultQualifier is the token inserted into declarations when no qualifier
// is configured. It must be a valid Go comment so that the rewritten file
// still parses.
const DefaultQualifier = "/*atomic*/"

// Config holds the options of one analysis run.
// If some field is not defined in the config file, it will be empty/zero in
// the struct and filled with a default during Load.
type Config struct {
	// The inline tag makes yaml.v3 flatten the embedded struct; without it
	// the file's top-level keys would not reach the Options fields.
	Options `yaml:",inline"`

	sourceFile string
}

// Options are the options that can be set both in a config file and from the
// command line. Command-line values override file values.
type Options struct {
	// OutputPath is the file the rewritten translation unit is written to.
	// Required: a run with no output path is a configuration error.
	OutputPath string `yaml:"output"`

	// DeclName optionally names the seed declaration. When empty, a random
	// declaration located in the primary file is chosen.
	DeclName string `yaml:"name"`

	// Seed is the seed for the random choice of declaration. When nil, the
	// caller picks a time-derived value.
	Seed *int64 `yaml:"seed"`

	// Qualifier is the token inserted into upgraded declarations.
	Qualifier string `yaml:"qualifier"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile: "",
		Options: Options{
			OutputPath: "",
			DeclName:   "",
			Seed:       nil,
			Qualifier:  DefaultQualifier,
			LogLevel:   int(InfoLevel),
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.Qualifier == "" {
		cfg.Qualifier = DefaultQualifier
	}
	return cfg, nil
}

// SourceFile returns the file this config was loaded from, if any.
func (c *Config) SourceFile() string {
	return c.sourceFile
}

// Validate checks that the config holds everything a run needs.
func (c *Config) Validate() error {
	if c.OutputPath == "" {
		return fmt.Errorf("no output path specified")
	}
	if c.Qualifier == "" {
		return fmt.Errorf("empty qualifier token")
	}
	return nil
}
