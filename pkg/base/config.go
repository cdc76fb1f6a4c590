// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package base holds the execution configuration shared by the command line
// and the flows it runs.
package base

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/util/log"
)

// Duration is a time.Duration that reads from TOML strings such as "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return errors.Wrapf(err, "invalid duration %q", text)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogConfig configures logging.
type LogConfig struct {
	// Format is "text" or "json".
	Format    string `toml:"format"`
	Level     string `toml:"level"`
	Verbosity int32  `toml:"verbosity"`
}

// ExecConfig configures how fragments are executed.
type ExecConfig struct {
	// BatchSize is the maximum number of rows per block.
	BatchSize int `toml:"batch-size"`
	// Parallelism is the number of instances each source runs with.
	Parallelism int `toml:"parallelism"`
	// MaxRunningTasks limits how many instances run at the same time. Zero
	// means no limit.
	MaxRunningTasks int `toml:"max-running-tasks"`
	// Serial runs every instance on a single goroutine, one after another.
	Serial bool `toml:"serial"`
	// ScannerTimeout bounds the time a catalog scanner may take. Zero means
	// no timeout.
	ScannerTimeout Duration `toml:"scanner-timeout"`

	Log LogConfig `toml:"log"`
}

// DefaultExecConfig returns the configuration used when nothing is set.
func DefaultExecConfig() *ExecConfig {
	return &ExecConfig{
		BatchSize:      coldata.DefaultBatchSize(),
		Parallelism:    DefaultParallelism,
		ScannerTimeout: Duration{DefaultScannerTimeout},
		Log:            LogConfig{Format: "text", Level: "info"},
	}
}

// LoadFile merges the TOML file at path into c. Unknown keys are rejected.
func (c *ExecConfig) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrapf(err, "decoding config file %s", path)
	}
	return checkUndecodedItems(md)
}

// LoadString merges the TOML document data into c.
func (c *ExecConfig) LoadString(data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return errors.Wrap(err, "decoding config")
	}
	return checkUndecodedItems(md)
}

func checkUndecodedItems(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	items := make([]string, 0, len(undecoded))
	for _, item := range undecoded {
		items = append(items, item.String())
	}
	return errors.Newf("unknown config items: %s", strings.Join(items, ","))
}

// Validate checks that every setting is within bounds.
func (c *ExecConfig) Validate() error {
	if c.BatchSize < 1 || c.BatchSize > coldata.MaxBatchSize {
		return errors.WithHintf(
			errors.Newf("invalid batch size %d", c.BatchSize),
			"the batch size must be between 1 and %d", coldata.MaxBatchSize)
	}
	if c.Parallelism < 1 || c.Parallelism > MaxParallelism {
		return errors.WithHintf(
			errors.Newf("invalid parallelism %d", c.Parallelism),
			"the parallelism must be between 1 and %d", MaxParallelism)
	}
	if c.MaxRunningTasks < 0 {
		return errors.Newf("invalid max running tasks %d", c.MaxRunningTasks)
	}
	if c.ScannerTimeout.Duration < 0 {
		return errors.Newf("invalid scanner timeout %s", c.ScannerTimeout)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.Newf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// LogConfig returns the configuration of the process-wide logger.
func (c *ExecConfig) LogConfig() log.Config {
	return log.Config{Format: c.Log.Format, Level: c.Log.Level, Verbosity: c.Log.Verbosity}
}
