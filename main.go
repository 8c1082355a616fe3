package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sthembisoo/sentry-worker/cmd/sentry/dsn"
	"github.com/sthembisoo/sentry-worker/cmd/sentry/report"
)

var rootCmd = &cobra.Command{
	Use:   "sentry-worker",
	Short: "Report exceptions to Sentry",
}

func main() {
	rootCmd.AddCommand(report.NewCmdReport())
	rootCmd.AddCommand(dsn.NewCmdDSN())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
