package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/sthembisoo/sentry-worker/cmd/sentry/types"
	"github.com/sthembisoo/sentry-worker/utils/config"
	"github.com/sthembisoo/sentry-worker/utils/logging"
	"github.com/sthembisoo/sentry-worker/utils/sentry"
)

var (
	flagDSN         string
	flagConfig      string
	flagType        string
	flagMessage     string
	flagLevel       string
	flagRelease     string
	flagDist        string
	flagEnvironment string
	flagServerName  string
	flagTransaction string
	flagUserID      string
	flagUserEmail   string
	flagUserName    string
	flagUserIP      string
	flagTags        map[string]string
	flagExtra       map[string]string
	flagFingerprint []string
	flagDryRun      bool
	flagLogLevel    string
)

func NewCmdReport() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report an exception to Sentry",
		Long: `Report an exception to Sentry.

The exception is captured on this process's stack and sent to the store
endpoint of the project named by the DSN. Exactly one request is made and
it is never retried.

Examples:
  # Send a test exception
  sentry-worker report --dsn https://KEY@o0.ingest.sentry.io/42 --message "Boom!"

  # Add metadata
  sentry-worker report --message "queue stalled" --level warning --tag queue=jobs --release v1.2.3

  # Print the payload instead of sending it
  sentry-worker report --message "Boom!" --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return start(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flagDSN, "dsn", "d", "", "Sentry DSN (or set SENTRY_DSN env var)")
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().StringVar(&flagType, "type", "Error", "Exception type")
	cmd.Flags().StringVarP(&flagMessage, "message", "m", "", "Exception message")
	cmd.Flags().StringVarP(&flagLevel, "level", "l", string(types.LevelError), "Event level: fatal, error, warning, info or debug")
	cmd.Flags().StringVar(&flagRelease, "release", "", "Release version")
	cmd.Flags().StringVar(&flagDist, "dist", "", "Release distribution")
	cmd.Flags().StringVar(&flagEnvironment, "environment", "", "Environment name")
	cmd.Flags().StringVar(&flagServerName, "server-name", "", "Server name (defaults to the hostname)")
	cmd.Flags().StringVar(&flagTransaction, "transaction", "", "Transaction name")
	cmd.Flags().StringVar(&flagUserID, "user-id", "", "Affected user id")
	cmd.Flags().StringVar(&flagUserEmail, "user-email", "", "Affected user email")
	cmd.Flags().StringVar(&flagUserName, "user-name", "", "Affected user name")
	cmd.Flags().StringVar(&flagUserIP, "user-ip", "", "Affected user IP address")
	cmd.Flags().StringToStringVarP(&flagTags, "tag", "t", nil, "Tag as key=value (repeatable)")
	cmd.Flags().StringToStringVarP(&flagExtra, "extra", "e", nil, "Extra data as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&flagFingerprint, "fingerprint", nil, "Grouping fingerprint")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the event instead of sending it")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")

	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func start(ctx context.Context, out io.Writer) error {
	logging.Init(os.Stderr, logging.ParseLevel(flagLogLevel))

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	dsn := pick(flagDSN, cfg.DSN)
	if dsn == "" {
		return fmt.Errorf("sentry dsn required: use --dsn flag, set SENTRY_DSN or add dsn to the config file")
	}

	level := types.Level(strings.ToLower(flagLevel))
	if !lo.Contains(types.Levels, level) {
		return fmt.Errorf("unknown level %q", flagLevel)
	}

	client, err := sentry.New(sentry.Config{DSN: dsn})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	opts := captureOptions(cfg, level)
	reportErr := sentry.NewError(flagType, flagMessage)

	if flagDryRun {
		event, err := client.BuildEvent(reportErr, opts)
		if err != nil {
			return fmt.Errorf("failed to build event: %w", err)
		}
		eventJson, err := json.MarshalIndent(event, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		fmt.Fprintf(out, "POST %s\n%s\n", client.StoreURL(), eventJson)
		return nil
	}

	slog.Debug("sending event", "url", client.StoreURL(), "type", flagType, "level", level)

	response, err := client.Report(ctx, reportErr, opts)
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("sentry returned status %d: %s", response.StatusCode, string(body))
	}

	var stored struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &stored); err != nil {
		slog.Debug("unexpected store response", "body", string(body), "error", err)
	}

	fmt.Fprintf(out, "Event sent: %s\n", lo.Ternary(stored.ID != "", stored.ID, "(no id returned)"))
	return nil
}

// captureOptions merges flags over config file values
func captureOptions(cfg *config.Config, level types.Level) *sentry.CaptureOptions {
	hostname, _ := os.Hostname()

	opts := &sentry.CaptureOptions{
		Level:       level,
		Release:     pick(flagRelease, cfg.Release),
		Dist:        pick(flagDist, cfg.Dist),
		Environment: pick(flagEnvironment, cfg.Environment),
		ServerName:  pick(flagServerName, pick(cfg.ServerName, hostname)),
		Transaction: flagTransaction,
		User: types.User{
			ID:        flagUserID,
			Email:     flagUserEmail,
			Username:  flagUserName,
			IPAddress: flagUserIP,
		},
		Fingerprint: flagFingerprint,
	}

	if len(cfg.Tags) > 0 || len(flagTags) > 0 {
		opts.Tags = lo.Assign(cfg.Tags, flagTags)
	}
	if len(flagExtra) > 0 {
		opts.Extra = lo.MapValues(flagExtra, func(v string, _ string) any {
			return v
		})
	}

	return opts
}

func pick(value, fallback string) string {
	return lo.Ternary(value != "", value, fallback)
}
