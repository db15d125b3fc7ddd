package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	rs "github.com/renderscreenshot/client-go"
)

// errInvalidWebhook is returned when a webhook signature does not verify.
var errInvalidWebhook = errors.New("webhook signature is invalid or expired")

func newWebhookCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Verify and decode webhook deliveries",
	}
	cmd.AddCommand(newWebhookVerifyCommand(a), newWebhookParseCommand(a))
	return cmd
}

func newWebhookVerifyCommand(a *app) *cobra.Command {
	var (
		payloadFile string
		signature   string
		timestamp   string
		secret      string
		tolerance   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a webhook signature",
		Long: `Check that a webhook body was signed with your webhook secret and that
its timestamp is within --tolerance of the current time.

The secret is read from --secret or RENDERSCREENSHOT_WEBHOOK_SECRET.`,
		Example: `  renderscreenshot webhook verify --payload-file body.json \
    --signature "$SIG" --timestamp "$TS"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				cfg, err := a.config()
				if err != nil {
					return err
				}
				secret = cfg.WebhookSecret
			}
			if secret == "" {
				return fmt.Errorf("no webhook secret: use --secret or set %s", EnvWebhookSecret)
			}

			payload, err := readInput(cmd, payloadFile)
			if err != nil {
				return err
			}

			if !rs.VerifyWebhookWithTolerance(payload, signature, timestamp, secret, tolerance) {
				return errInvalidWebhook
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return err
		},
	}

	cmd.Flags().StringVar(&payloadFile, "payload-file", "-", "File with the raw request body, or - for stdin")
	cmd.Flags().StringVar(&signature, "signature", "", "Value of the "+rs.SignatureHeader+" header")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "Value of the "+rs.TimestampHeader+" header")
	cmd.Flags().StringVar(&secret, "secret", "", "Webhook signing secret")
	cmd.Flags().DurationVar(&tolerance, "tolerance", rs.DefaultWebhookTolerance, "Maximum clock difference")
	_ = cmd.MarkFlagRequired("signature")
	_ = cmd.MarkFlagRequired("timestamp")

	return cmd
}

func newWebhookParseCommand(a *app) *cobra.Command {
	var payloadFile string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Decode a webhook body",
		Long:  "Decode a webhook body without verifying it. Run 'webhook verify' first for untrusted input.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := readInput(cmd, payloadFile)
			if err != nil {
				return err
			}
			event, err := rs.ParseWebhook(payload)
			if err != nil {
				return err
			}
			return writeJSON(cmd.Context(), cmd.OutOrStdout(), event, a.opts.jq)
		},
	}

	cmd.Flags().StringVar(&payloadFile, "payload-file", "-", "File with the raw request body, or - for stdin")

	return cmd
}
