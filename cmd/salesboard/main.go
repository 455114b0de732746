// Package main provides the entry point for the salesboard CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/salesboard/cmd/salesboard/commands"
	"github.com/Sumatoshi-tech/salesboard/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	var globals commands.GlobalOptions

	rootCmd := &cobra.Command{
		Use:   "salesboard",
		Short: "Salesboard - sales analytics dashboard",
		Long: `Salesboard turns sales metric payloads into dashboard charts.

Commands:
  render    Render a payload file as an HTML dashboard
  fetch     Apply filters through the filter endpoint and render the result
  ranking   Print the store sales ranking
  report    Write a PDF report of the charts
  serve     Host the dashboard over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.AddGlobalFlags(rootCmd, &globals)

	rootCmd.AddCommand(commands.NewRenderCommand(&globals))
	rootCmd.AddCommand(commands.NewFetchCommand(&globals))
	rootCmd.AddCommand(commands.NewRankingCommand(&globals))
	rootCmd.AddCommand(commands.NewReportCommand(&globals))
	rootCmd.AddCommand(commands.NewServeCommand(&globals))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
