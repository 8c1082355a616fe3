package dsn

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/sthembisoo/sentry-worker/utils/sentry"
)

func NewCmdDSN() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dsn [DSN]",
		Short: "Show where events for a DSN are sent",
		Long: `Show where events for a DSN are sent.

Examples:
  # Inspect a DSN
  sentry-worker dsn https://KEY@o0.ingest.sentry.io/42

  # Inspect the DSN from the environment
  SENTRY_DSN=https://KEY@o0.ingest.sentry.io/42 sentry-worker dsn`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := os.Getenv("SENTRY_DSN")
			if len(args) == 1 {
				raw = args[0]
			}
			return show(cmd.OutOrStdout(), raw)
		},
	}

	return cmd
}

func show(out io.Writer, raw string) error {
	if raw == "" {
		return fmt.Errorf("dsn required: pass it as an argument or set SENTRY_DSN environment variable")
	}

	dsn, err := sentry.ParseDSN(raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Host:       %s\n", dsn.Host)
	fmt.Fprintf(out, "Project:    %s\n", dsn.ProjectID())
	fmt.Fprintf(out, "Public key: %s\n", dsn.PublicKey)
	fmt.Fprintf(out, "Store URL:  %s\n", dsn.StoreURL())
	return nil
}
