// Copyright 2018 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the build-time configuration of the scheduling core:
// the policy switch of spec.md §6 plus the fixed table capacities of §3.
// The teacher (runsc/config) binds an analogous Config struct from CLI
// flags via struct-tag reflection; we bind ours from a TOML file (or
// in-process defaults) since there is no real command line in scope here.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Policy names the scheduling policy selected at build time (spec.md §6:
// "selected by a single switch that chooses exactly one of" these three).
type Policy string

const (
	// PolicyThreaded is the default policy: per-thread round robin nested
	// inside per-process round robin. Only this policy supports thread_*.
	PolicyThreaded Policy = "threaded"

	// PolicyTwoQueue is the multilevel two-queue policy (spec.md §4.5.2).
	PolicyTwoQueue Policy = "twoqueue"

	// PolicyMLFQ is the multilevel feedback queue policy (spec.md §4.5.3).
	PolicyMLFQ Policy = "mlfq"
)

// Config is the scheduling core's build-time configuration.
type Config struct {
	// Policy selects the scheduler/timer-hook variant. Defaults to
	// PolicyThreaded.
	Policy Policy `toml:"policy"`

	// NProc is the fixed process-table capacity (spec.md §3: "capacity N,
	// fixed at build time").
	NProc int `toml:"nproc"`

	// NOFILE bounds each process's open-file table.
	NOFILE int `toml:"nofile"`

	// NThread bounds the per-process thread table; meaningful only under
	// PolicyThreaded.
	NThread int `toml:"nthread"`

	// MLFQLevels is K, the number of MLFQ queues; meaningful only under
	// PolicyMLFQ.
	MLFQLevels int `toml:"mlfq_levels"`

	// Debug enables Debugf-level logging (internal/log).
	Debug bool `toml:"debug"`

	// LogJSON selects the teacher's "json" log format over "text".
	LogJSON bool `toml:"log_json"`
}

// Default returns the configuration used when no file is supplied: default
// policy, 64 process slots, 16 open files, 8 threads per process, 4 MLFQ
// levels.
func Default() *Config {
	return &Config{
		Policy:     PolicyThreaded,
		NProc:      64,
		NOFILE:     16,
		NThread:    8,
		MLFQLevels: 4,
	}
}

// Load reads a TOML configuration file, starting from Default and
// overwriting only the fields present in the file — mirroring the
// teacher's NewFromFlags, which starts from each flag's zero value and
// overwrites only flags explicitly set.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBytes is Load for an in-memory TOML document, used by tests that
// don't want to touch the filesystem.
func LoadBytes(data []byte) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Policy {
	case PolicyThreaded, PolicyTwoQueue, PolicyMLFQ:
	default:
		return fmt.Errorf("config: unknown policy %q", c.Policy)
	}
	if c.NProc <= 0 {
		return fmt.Errorf("config: nproc must be positive, got %d", c.NProc)
	}
	if c.NOFILE <= 0 {
		return fmt.Errorf("config: nofile must be positive, got %d", c.NOFILE)
	}
	if c.Policy == PolicyThreaded && c.NThread <= 0 {
		return fmt.Errorf("config: nthread must be positive under the threaded policy, got %d", c.NThread)
	}
	if c.Policy == PolicyMLFQ && c.MLFQLevels <= 0 {
		return fmt.Errorf("config: mlfq_levels must be positive under the mlfq policy, got %d", c.MLFQLevels)
	}
	return nil
}

// FileExists reports whether path names a regular file, used by
// cmd/schedcore to decide whether to fall back to Default.
func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
