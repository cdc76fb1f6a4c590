// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cli implements the pipexec command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/build"
	"github.com/cockroachdb/pipexec/pkg/cli/exit"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Proxy to allow overrides in tests.
var osStderr = os.Stderr

var versionIncludesDeps bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "output version information",
	Long: `
Output build version information.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := build.GetInfo()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 1, 2, ' ', 0)
		fmt.Fprintf(tw, "Build Tag:   %s\n", info.Tag)
		fmt.Fprintf(tw, "Build Time:  %s\n", info.Time)
		fmt.Fprintf(tw, "Revision:    %s\n", info.Revision)
		fmt.Fprintf(tw, "Platform:    %s\n", info.Platform)
		fmt.Fprintf(tw, "Go Version:  %s\n", info.GoVersion)
		if versionIncludesDeps {
			fmt.Fprintf(tw, "Build Deps:\n\t%s\n", strings.Join(info.Dependencies, "\n\t"))
		}
		return tw.Flush()
	},
}

var pipexecCmd = &cobra.Command{
	Use:   "pipexec [command] (flags)",
	Short: "pipelined execution of catalog scan fragments",
	Long: `
Compiles plan fragments whose source is a catalog scan and runs them with
any number of concurrent instances.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// isInteractive indicates whether stdout refers to a terminal.
var isInteractive = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func init() {
	cobra.EnableCommandSorting = false

	pipexecCmd.AddCommand(
		scanCmd,
		tablesCmd,
		versionCmd,
	)
}

// Main is the entry point of the pipexec binary.
func Main() {
	if err := Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(osStderr, "ERROR: %v\n", err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintf(osStderr, "HINT: %s\n", h)
		}
		exit.WithCode(errorCode(err))
	}
	exit.WithCode(exit.Success())
}

// Run runs the command line with the given arguments.
func Run(ctx context.Context, args []string) error {
	initCLIDefaults()
	pipexecCmd.SetArgs(args)
	return pipexecCmd.ExecuteContext(ctx)
}

// errorCode maps an error to the exit code of the process.
func errorCode(err error) exit.Code {
	if errors.Is(err, context.Canceled) {
		return exit.Interrupted()
	}
	if errors.HasType(err, (*flagError)(nil)) {
		return exit.CommandLineFlagError()
	}
	switch colexecerror.KindOf(err) {
	case colexecerror.KindInvalidPlan, colexecerror.KindSchemaResolution:
		return exit.PlanRejected()
	case colexecerror.KindSourceUnavailable:
		return exit.SourceFailed()
	default:
		return exit.UnspecifiedError()
	}
}

// flagError marks errors caused by the command line flags.
type flagError struct {
	cause error
}

func (e *flagError) Error() string { return e.cause.Error() }
func (e *flagError) Cause() error  { return e.cause }
func (e *flagError) Unwrap() error { return e.cause }
