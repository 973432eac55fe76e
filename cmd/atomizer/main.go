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

package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/mc-imperial/atomizer/analysis"
	"github.com/mc-imperial/atomizer/analysis/atomic"
	"github.com/mc-imperial/atomizer/analysis/config"
	"github.com/mc-imperial/atomizer/internal/formatutil"
)

const usage = ` Insert an atomicity qualifier into one Go file and every declaration
that must co-vary with it.
Usage:
  atomizer [options] -o output.go file.go
Examples:
  % atomizer -o out.go -name counter pkg/file.go
  % atomizer -o out.go -seed 42 pkg/file.go
`

func main() {
	flags := flag.NewFlagSet("atomizer", flag.ExitOnError)
	configPath := flags.String("config", "", "config file path for the analysis")
	output := flags.String("o", "", "output filename")
	name := flags.String("name", "", "name of the declaration to upgrade")
	seed := flags.String("seed", "", "seed for random number generation")
	verbose := flags.Bool("verbose", false, "verbose printing on standard error")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\nOptions:\n", usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if err := run(flags, *configPath, *output, *name, *seed, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", formatutil.Red("error:"), err)
		os.Exit(1)
	}
}

func run(flags *flag.FlagSet, configPath, output, name, seed string, verbose bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Command-line parameters override config file parameters.
	if output != "" {
		cfg.OutputPath = output
	}
	if name != "" {
		cfg.DeclName = name
	}
	if verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("expected exactly one Go file to analyze, got %d arguments", flags.NArg())
	}

	seedValue, err := resolveSeed(seed, cfg)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(seedValue))
	logger := config.NewLogGroup(cfg)
	logger.Infof("%s", formatutil.Faint("atomizer - reading "+flags.Arg(0)))
	logger.Debugf("random seed %d", seedValue)

	unit, err := analysis.LoadUnit(flags.Arg(0))
	if err != nil {
		return err
	}

	result, err := atomic.Analyze(cfg, unit, rng, logger)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer out.Close()
	if err := result.Render(out); err != nil {
		return err
	}
	logger.Infof("%s", formatutil.Green(fmt.Sprintf(
		"upgraded %d declaration(s) from seed %s, wrote %s",
		result.Upgrades.Len(), result.Seed.Name(), cfg.OutputPath)))
	return nil
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.NewDefault(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// resolveSeed resolves the generator seed: the -seed flag wins, then the
// config file, then a time-derived value.
func resolveSeed(flagValue string, cfg *config.Config) (int64, error) {
	if flagValue != "" {
		v, err := strconv.ParseInt(flagValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seed %q: %w", flagValue, err)
		}
		return v, nil
	}
	if cfg.Seed != nil {
		return *cfg.Seed, nil
	}
	return time.Now().UnixNano(), nil
}
