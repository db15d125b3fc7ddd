package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSignURLCommand(a *app) *cobra.Command {
	capture := newCaptureFlags()
	var expires time.Duration

	cmd := &cobra.Command{
		Use:   "sign-url [url]",
		Short: "Generate a signed, expiring screenshot URL",
		Long: `Generate a URL that renders a capture without an Authorization header.

The URL is signed with your API key and stops working after --expires.
It is safe to embed in <img> tags or share, but anyone holding it can
trigger the capture until it expires.`,
		Example: `  renderscreenshot sign-url https://example.com --width 1200 --height 630 --expires 24h`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if expires <= 0 {
				return fmt.Errorf("--expires must be positive")
			}
			var target string
			if len(args) == 1 {
				target = args[0]
			}
			opts, err := capture.targetOptions(target)
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			signed := client.GenerateURL(opts, time.Now().Add(expires))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}

	cmd.Flags().AddFlagSet(capture.fs)
	cmd.Flags().DurationVar(&expires, "expires", time.Hour, "How long the URL stays valid")

	return cmd
}
