// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"os"
	"time"

	"github.com/cockroachdb/pipexec/pkg/base"
	"github.com/cockroachdb/pipexec/pkg/cli/cliflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// scanContext captures the command-line parameters of the scan and tables
// commands. Flag values are applied on top of the configuration file at the
// end of command-line parsing, and only when the flag was set.
type scanContext struct {
	fragment   string
	catalog    string
	sqlDriver  string
	sqlDSN     string
	configPath string

	database    string
	user        string
	sessionVars map[string]string

	parallelism     int
	maxRunningTasks int
	batchSize       int
	scannerTimeout  time.Duration
	serial          bool
	legacy          bool
	verbosity       int

	displayFormat tableDisplayFormat
}

var scanCtx scanContext

// initCLIDefaults sets the parameters back to their defaults. It is called
// before every command-line parse so that tests can run several commands in
// one process.
func initCLIDefaults() {
	def := base.DefaultExecConfig()
	scanCtx = scanContext{
		sessionVars:     map[string]string{},
		parallelism:     def.Parallelism,
		maxRunningTasks: def.MaxRunningTasks,
		batchSize:       def.BatchSize,
		scannerTimeout:  def.ScannerTimeout.Duration,
		displayFormat:   tableDisplayTSV,
	}
	if isInteractive {
		scanCtx.displayFormat = tableDisplayTable
	}
	for _, cmd := range append(pipexecCmd.Commands(), pipexecCmd) {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			f.Changed = false
		})
	}
	versionIncludesDeps = false
}

// envFlags lists the flags that can also be set from the environment.
var envFlags = map[*pflag.FlagSet][]cliflags.FlagInfo{}

// setFlagsFromEnv sets every unset flag of f that has an environment
// variable from that variable.
func setFlagsFromEnv(f *pflag.FlagSet) error {
	for _, flagInfo := range envFlags[f] {
		if f.Changed(flagInfo.Name) {
			continue
		}
		if value, set := os.LookupEnv(flagInfo.EnvVar); set {
			if err := f.Set(flagInfo.Name, value); err != nil {
				return &flagError{cause: err}
			}
		}
	}
	return nil
}

func registerEnv(f *pflag.FlagSet, flagInfo cliflags.FlagInfo) {
	if flagInfo.EnvVar != "" {
		envFlags[f] = append(envFlags[f], flagInfo)
	}
}

// StringFlag creates a string flag and registers it with the FlagSet.
func StringFlag(f *pflag.FlagSet, valPtr *string, flagInfo cliflags.FlagInfo) {
	f.StringVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(f, flagInfo)
}

// IntFlag creates an int flag and registers it with the FlagSet.
func IntFlag(f *pflag.FlagSet, valPtr *int, flagInfo cliflags.FlagInfo) {
	f.IntVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(f, flagInfo)
}

// BoolFlag creates a bool flag and registers it with the FlagSet.
func BoolFlag(f *pflag.FlagSet, valPtr *bool, flagInfo cliflags.FlagInfo) {
	f.BoolVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(f, flagInfo)
}

// DurationFlag creates a duration flag and registers it with the FlagSet.
func DurationFlag(f *pflag.FlagSet, valPtr *time.Duration, flagInfo cliflags.FlagInfo) {
	f.DurationVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(f, flagInfo)
}

// VarFlag creates a custom-variable flag and registers it with the FlagSet.
func VarFlag(f *pflag.FlagSet, value pflag.Value, flagInfo cliflags.FlagInfo) {
	f.VarP(value, flagInfo.Name, flagInfo.Shorthand, flagInfo.Usage())
	registerEnv(f, flagInfo)
}

func init() {
	initCLIDefaults()

	pipexecCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &flagError{cause: err}
	})
	pipexecCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return setFlagsFromEnv(cmd.Flags())
	}

	versionCmd.Flags().BoolVar(&versionIncludesDeps, "include-deps", false,
		"include dependency versions")

	// Flags shared by every command printing rows.
	for _, cmd := range []*cobra.Command{scanCmd, tablesCmd} {
		VarFlag(cmd.Flags(), &scanCtx.displayFormat, cliflags.TableDisplayFormat)
	}

	{
		f := scanCmd.Flags()
		StringFlag(f, &scanCtx.fragment, cliflags.Fragment)
		StringFlag(f, &scanCtx.catalog, cliflags.Catalog)
		StringFlag(f, &scanCtx.sqlDriver, cliflags.SQLDriver)
		StringFlag(f, &scanCtx.sqlDSN, cliflags.SQLDSN)
		StringFlag(f, &scanCtx.configPath, cliflags.Config)
		StringFlag(f, &scanCtx.database, cliflags.Database)
		StringFlag(f, &scanCtx.user, cliflags.User)
		f.StringToStringVar(&scanCtx.sessionVars, cliflags.SessionVars.Name, nil, cliflags.SessionVars.Usage())

		IntFlag(f, &scanCtx.parallelism, cliflags.Parallelism)
		IntFlag(f, &scanCtx.maxRunningTasks, cliflags.MaxRunningTasks)
		IntFlag(f, &scanCtx.batchSize, cliflags.BatchSize)
		DurationFlag(f, &scanCtx.scannerTimeout, cliflags.ScannerTimeout)
		BoolFlag(f, &scanCtx.serial, cliflags.Serial)
		BoolFlag(f, &scanCtx.legacy, cliflags.Legacy)
		IntFlag(f, &scanCtx.verbosity, cliflags.Verbosity)
	}
}

// execConfigFromFlags loads the configuration file, if any, and applies the
// flags that were set on top of it.
func execConfigFromFlags(cmd *cobra.Command) (*base.ExecConfig, error) {
	cfg := base.DefaultExecConfig()
	if scanCtx.configPath != "" {
		if err := cfg.LoadFile(scanCtx.configPath); err != nil {
			return nil, err
		}
	}
	f := cmd.Flags()
	if f.Changed(cliflags.Parallelism.Name) {
		cfg.Parallelism = scanCtx.parallelism
	}
	if f.Changed(cliflags.MaxRunningTasks.Name) {
		cfg.MaxRunningTasks = scanCtx.maxRunningTasks
	}
	if f.Changed(cliflags.BatchSize.Name) {
		cfg.BatchSize = scanCtx.batchSize
	}
	if f.Changed(cliflags.ScannerTimeout.Name) {
		cfg.ScannerTimeout.Duration = scanCtx.scannerTimeout
	}
	if f.Changed(cliflags.Serial.Name) {
		cfg.Serial = scanCtx.serial
	}
	if f.Changed(cliflags.Verbosity.Name) {
		cfg.Log.Verbosity = int32(scanCtx.verbosity)
	}
	if err := cfg.Validate(); err != nil {
		return nil, &flagError{cause: err}
	}
	return cfg, nil
}
