package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fivetwenty-io/marvel-client/internal/metrics"
	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/fivetwenty-io/marvel-client/pkg/marvelclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// session bundles the fetcher a command runs against with its metrics.
type session struct {
	fetcher  *marvel.Fetcher
	recorder *metrics.Recorder
	logger   marvel.Logger
}

// newSession builds a fetcher from the merged flag, environment and file
// configuration.
func newSession(cmd *cobra.Command) (*session, error) {
	level := slog.LevelWarn
	if viper.GetBool("verbose") || viper.GetBool("debug") {
		level = slog.LevelDebug
	}

	logger := newLogger(cmd.ErrOrStderr(), level)

	publicKey := strings.TrimSpace(viper.GetString("public_key"))
	if publicKey == "" {
		return nil, ErrMissingPublicKey
	}

	privateKey, err := privateKey(cmd)
	if err != nil {
		return nil, err
	}

	config := &marvel.Config{
		APIEndpoint:   viper.GetString("api"),
		PublicKey:     publicKey,
		PrivateKey:    privateKey,
		DefaultLimit:  viper.GetInt("default_limit"),
		AllowInsecure: viper.GetBool("insecure"),
		HTTPTimeout:   viper.GetDuration("timeout"),
		RetryMax:      viper.GetInt("retry_max"),
		Debug:         viper.GetBool("debug"),
		Logger:        logger,
		UserAgent:     "marvel-cli/" + cmd.Root().Version,
	}

	fetcher, err := marvelclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	rps := viper.GetFloat64("rate_limit")
	if rps < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRateLimit, rps)
	}

	if rps > 0 {
		fetcher.Interceptors().AddRequestInterceptor(marvel.RateLimitInterceptor(marvel.NewRateLimiter(rps)))
	}

	recorder := metrics.NewRecorder()
	recorder.Attach(fetcher.Interceptors())

	return &session{
		fetcher:  fetcher,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// privateKey reads the configured private key, prompting for it when stdin
// is a terminal.
func privateKey(cmd *cobra.Command) (string, error) {
	key := strings.TrimSpace(viper.GetString("private_key"))
	if key != "" {
		return key, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", ErrMissingPrivateKey
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Private key: ")

	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}

	key = strings.TrimSpace(string(keyBytes))
	if key == "" {
		return "", ErrMissingPrivateKey
	}

	return key, nil
}

// runWithSession runs fn against a fresh session and reports dispatch
// statistics afterwards.
func runWithSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	runErr := fn(cmd.Context(), s)

	s.logger.Debug("Requests dispatched", map[string]interface{}{
		"count": s.fetcher.RequestCount(),
	})

	if viper.GetBool("metrics") {
		err = writeMetrics(cmd.ErrOrStderr(), s.recorder)
		if err != nil && runErr == nil {
			runErr = err
		}
	}

	return runErr
}

func writeMetrics(out io.Writer, recorder *metrics.Recorder) error {
	summaries, err := recorder.Summary()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Endpoint", "Requests", "Errors", "Total Seconds")

	for _, summary := range summaries {
		_ = table.Append(
			summary.Endpoint,
			fmt.Sprint(summary.Requests),
			fmt.Sprint(summary.Errors),
			fmt.Sprintf("%.3f", summary.TotalSeconds),
		)
	}

	return renderTable(table)
}
