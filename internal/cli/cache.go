package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	rs "github.com/renderscreenshot/client-go"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached captures",
	}
	cmd.AddCommand(
		newCacheGetCommand(a),
		newCacheDeleteCommand(a),
		newCachePurgeCommand(a),
	)
	return cmd
}

func newCacheGetCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Download a cached capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var data []byte
			err = a.retry(ctx, "cache get", func() error {
				var err error
				data, err = client.Cache.Get(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}
			if data == nil {
				return fmt.Errorf("no cached entry for key %q", args[0])
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, or - for stdout")

	return cmd
}

func newCacheDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a cached capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var deleted bool
			err = a.retry(ctx, "cache delete", func() error {
				var err error
				deleted, err = client.Cache.Delete(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}

			if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No cached entry for %s\n", args[0])
			}
			return nil
		},
	}
}

func newCachePurgeCommand(a *app) *cobra.Command {
	var (
		keys    []string
		url     string
		before  string
		pattern string
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Purge cached captures in bulk",
		Example: `  renderscreenshot cache purge --keys abc123,def456
  renderscreenshot cache purge --url "https://example.com/*"
  renderscreenshot cache purge --before 2024-01-01T00:00:00Z
  renderscreenshot cache purge --pattern "screenshots/2024/*"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cutoff time.Time
			if before != "" {
				t, err := time.Parse(time.RFC3339, before)
				if err != nil {
					return fmt.Errorf("--before must be an RFC 3339 time: %w", err)
				}
				cutoff = t
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var resp *rs.PurgeResponse
			err = a.retry(ctx, "cache purge", func() error {
				var err error
				switch {
				case len(keys) > 0:
					resp, err = client.Cache.Purge(ctx, keys)
				case url != "":
					resp, err = client.Cache.PurgeURL(ctx, url)
				case before != "":
					resp, err = client.Cache.PurgeBefore(ctx, cutoff)
				default:
					resp, err = client.Cache.PurgePattern(ctx, pattern)
				}
				return err
			})
			if err != nil {
				return err
			}
			return writeJSON(ctx, cmd.OutOrStdout(), resp, a.opts.jq)
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Cache keys to purge")
	cmd.Flags().StringVar(&url, "url", "", "Purge entries whose URL matches this pattern")
	cmd.Flags().StringVar(&before, "before", "", "Purge entries created before this RFC 3339 time")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Purge entries whose storage path matches this glob")
	cmd.MarkFlagsOneRequired("keys", "url", "before", "pattern")
	cmd.MarkFlagsMutuallyExclusive("keys", "url", "before", "pattern")

	return cmd
}
