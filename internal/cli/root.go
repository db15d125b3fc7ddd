package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	rs "github.com/renderscreenshot/client-go"
)

// Exit codes returned by ExitCode.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitAPIError     = 2
	ExitAPIRetryable = 3
)

// errMissingAPIKey is returned by commands that call the API when no key
// could be resolved.
var errMissingAPIKey = errors.New("no API key configured: use --api-key, set " + EnvAPIKey +
	", or run 'renderscreenshot auth set-key'")

// newRetryPolicy is replaced in tests to avoid real backoff sleeps.
var newRetryPolicy = rs.DefaultRetryPolicy

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	apiKey     string
	baseURL    string
	timeout    time.Duration
	retries    int
	rps        float64
	verbose    bool
	jq         string
}

// app carries state shared by the command tree.
type app struct {
	version string
	opts    globalOptions
	keys    *keyStore

	// dotenvPath and lookupEnv are fixed in production and overridden in
	// tests.
	dotenvPath string
	lookupEnv  func(string) (string, bool)

	cfg    *Config
	logger *slog.Logger
}

// NewRootCommand creates the root command for the renderscreenshot CLI.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&app{
		version:    version,
		keys:       newKeyStore(),
		dotenvPath: ".env",
		lookupEnv:  os.LookupEnv,
	})
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renderscreenshot",
		Short: "Capture screenshots and PDFs with the RenderScreenshot API",
		Long: `renderscreenshot captures web pages through the RenderScreenshot API.

The API key is read from --api-key, RENDERSCREENSHOT_API_KEY, a .env file,
the config file, or the system keyring (see 'renderscreenshot auth set-key').`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.opts.verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Path to config file (default: ~/.config/renderscreenshot/config.yaml)")
	flags.StringVar(&a.opts.apiKey, "api-key", "", "API key (overrides every other source)")
	flags.StringVar(&a.opts.baseURL, "base-url", "", "API base URL")
	flags.DurationVar(&a.opts.timeout, "timeout", 0, "Per-request timeout (default 30s)")
	flags.IntVar(&a.opts.retries, "retries", 0, "Retry retryable failures up to this many times")
	flags.Float64Var(&a.opts.rps, "rate-limit", 0, "Maximum requests per second (0 disables)")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log HTTP requests to stderr")
	flags.StringVar(&a.opts.jq, "jq", "", "Filter JSON output with a jq expression")

	cmd.AddCommand(
		newTakeCommand(a),
		newSignURLCommand(a),
		newWebhookCommand(a),
		newBatchCommand(a),
		newPresetsCommand(a),
		newDevicesCommand(a),
		newCacheCommand(a),
		newAuthCommand(a),
	)

	return cmd
}

// ExitCode maps a command error to the process exit status. API errors exit
// with 2, or 3 when retrying could succeed.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var apiErr *rs.Error
	if errors.As(err, &apiErr) {
		if apiErr.Retryable {
			return ExitAPIRetryable
		}
		return ExitAPIError
	}
	return ExitFailure
}

// HandleExitError prints err and exits with ExitCode(err).
func HandleExitError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// config resolves configuration once per invocation. Flags take precedence
// over every other source.
func (a *app) config() (*Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := loadConfig(loadOptions{
		path:       a.opts.configPath,
		dotenvPath: a.dotenvPath,
		lookupEnv:  a.lookupEnv,
		keyring:    a.keys,
	})
	if err != nil {
		return nil, err
	}

	if a.opts.apiKey != "" {
		cfg.APIKey = a.opts.apiKey
	}
	if a.opts.baseURL != "" {
		cfg.BaseURL = a.opts.baseURL
	}
	if a.opts.timeout > 0 {
		cfg.Timeout = a.opts.timeout
	}

	a.cfg = cfg
	return cfg, nil
}

func (a *app) client() (*rs.Client, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, errMissingAPIKey
	}

	opts := []rs.Option{
		rs.WithBaseURL(cfg.BaseURL),
		rs.WithTimeout(cfg.Timeout),
		rs.WithUserAgent("renderscreenshot-cli/" + a.version),
		rs.WithRateLimit(a.opts.rps, 1),
	}
	if a.logger != nil {
		opts = append(opts, rs.WithLogger(a.logger))
	}
	return rs.New(cfg.APIKey, opts...)
}

// retry runs fn until it succeeds, fails permanently, or --retries is used up.
func (a *app) retry(ctx context.Context, op string, fn func() error) error {
	policy := newRetryPolicy()
	policy.MaxRetries = a.opts.retries

	for attempt := 0; ; attempt++ {
		err := fn()
		if !policy.ShouldRetry(attempt, err) {
			return err
		}

		delay := policy.Delay(attempt, err)
		if a.logger != nil {
			a.logger.Warn("retrying request",
				"op", op,
				"attempt", attempt+1,
				"delay", delay,
				"error", err,
			)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
