// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cliflags describes the command line flags of pipexec.
package cliflags

import "fmt"

// FlagInfo holds the name and documentation of a flag.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string
	// Shorthand is the short form of the flag (optional).
	Shorthand string
	// EnvVar is the name of the environment variable through which the flag
	// can also be set (optional).
	EnvVar string
	// Description of the flag.
	Description string
}

// Usage returns the usage string of the flag.
func (f FlagInfo) Usage() string {
	if f.EnvVar == "" {
		return f.Description
	}
	return fmt.Sprintf("%s\nEnvironment variable: %s", f.Description, f.EnvVar)
}

var (
	Fragment = FlagInfo{
		Name:        "fragment",
		Shorthand:   "f",
		Description: `Path to the YAML file of the fragment to run.`,
	}

	Catalog = FlagInfo{
		Name:        "catalog",
		EnvVar:      "PIPEXEC_CATALOG",
		Description: `Path to a YAML description of the catalog to scan.`,
	}

	SQLDriver = FlagInfo{
		Name:        "sql-driver",
		EnvVar:      "PIPEXEC_SQL_DRIVER",
		Description: `Driver of a live database to read the catalog from: mysql or postgres.`,
	}

	SQLDSN = FlagInfo{
		Name:        "sql-dsn",
		EnvVar:      "PIPEXEC_SQL_DSN",
		Description: `Data source name of the live database given with --sql-driver.`,
	}

	Config = FlagInfo{
		Name:        "config",
		EnvVar:      "PIPEXEC_CONFIG",
		Description: `Path to a TOML execution configuration file. Flags override it.`,
	}

	Parallelism = FlagInfo{
		Name:        "parallelism",
		Shorthand:   "p",
		Description: `Number of instances of the source.`,
	}

	MaxRunningTasks = FlagInfo{
		Name:        "max-running-tasks",
		Description: `Maximum number of instances running at once. 0 means no limit.`,
	}

	BatchSize = FlagInfo{
		Name:        "batch-size",
		Description: `Maximum number of rows per block.`,
	}

	ScannerTimeout = FlagInfo{
		Name:        "scanner-timeout",
		Description: `Time limit of each catalog scanner. 0 means no limit.`,
	}

	Serial = FlagInfo{
		Name:        "serial",
		Description: `Run the instances one after another on a single goroutine.`,
	}

	Legacy = FlagInfo{
		Name:        "legacy",
		Description: `Run the fragment through the single-instance node adapter.`,
	}

	Database = FlagInfo{
		Name:        "database",
		Shorthand:   "d",
		EnvVar:      "PIPEXEC_DATABASE",
		Description: `Current database of the session.`,
	}

	User = FlagInfo{
		Name:        "user",
		Shorthand:   "u",
		EnvVar:      "PIPEXEC_USER",
		Description: `User of the session.`,
	}

	SessionVars = FlagInfo{
		Name:        "set",
		Description: `Session variables, as a comma-separated list of name=value pairs.`,
	}

	TableDisplayFormat = FlagInfo{
		Name: "format",
		Description: `
Selects how to display rows: table, tsv, csv or records.
Defaults to table when the output is a terminal and tsv otherwise.`,
	}

	Verbosity = FlagInfo{
		Name:        "verbosity",
		Shorthand:   "v",
		Description: `Log verbosity level.`,
	}
)
