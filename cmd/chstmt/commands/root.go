// Package commands implements the chstmt command line.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/chstmt/logging"
)

var Version = "0.1.0"

// Execute runs the root command and prints any error in red.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln(color.RedString("Error: %v", err))
		return err
	}
	return nil
}

// NewRootCommand creates the chstmt root command.
func NewRootCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "chstmt",
		Short: "Bind parameters into SQL templates and run them",
		Long: `chstmt rewrites SQL templates with ? and :name placeholders into literal
SQL for analytical databases and runs the result, printing any rows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitWriter(cmd.ErrOrStderr(), debug)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log rewrite and dispatch details to stderr")

	cmd.AddCommand(NewExecCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("chstmt version %s\n", Version)
		},
	}
}
