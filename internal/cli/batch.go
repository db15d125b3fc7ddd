package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	rs "github.com/renderscreenshot/client-go"
)

func newBatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Create and inspect batch jobs",
	}
	cmd.AddCommand(newBatchCreateCommand(a), newBatchGetCommand(a))
	return cmd
}

func newBatchCreateCommand(a *app) *cobra.Command {
	capture := newCaptureFlags()
	var (
		wait         bool
		pollInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:     "create <url>...",
		Short:   "Capture several URLs with the same options",
		Example: `  renderscreenshot batch create https://a.example https://b.example --full-page --wait`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if capture.htmlFile != "" {
				return fmt.Errorf("--html-file is not supported for batches")
			}
			opts, err := capture.apply(rs.TakeOptions{})
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var batch *rs.BatchResponse
			err = a.retry(ctx, "batch", func() error {
				var err error
				batch, err = client.Batch(ctx, args, opts)
				return err
			})
			if err != nil {
				return err
			}

			if wait && !batch.IsComplete() {
				batch, err = a.waitForBatch(ctx, client, batch.ID, pollInterval)
				if err != nil {
					return err
				}
			}
			return writeJSON(ctx, cmd.OutOrStdout(), batch, a.opts.jq)
		},
	}

	cmd.Flags().AddFlagSet(capture.fs)
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the batch completes")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 2*time.Second, "Delay between status checks with --wait")

	return cmd
}

func newBatchGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the status of a batch job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var batch *rs.BatchResponse
			err = a.retry(ctx, "batch get", func() error {
				var err error
				batch, err = client.GetBatch(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}
			return writeJSON(ctx, cmd.OutOrStdout(), batch, a.opts.jq)
		},
	}
}

// waitForBatch polls the job until it reaches a terminal state, logging
// progress as it changes.
func (a *app) waitForBatch(ctx context.Context, client *rs.Client, id string, interval time.Duration) (*rs.BatchResponse, error) {
	var batch *rs.BatchResponse
	err := a.retry(ctx, "batch wait", func() error {
		var err error
		batch, err = client.WaitForBatch(ctx, id,
			rs.WithPollInterval(interval),
			rs.WithProgress(func(b *rs.BatchResponse) {
				if a.logger != nil {
					a.logger.Info("batch progress",
						"id", b.ID,
						"status", b.Status,
						"completed", b.Completed,
						"failed", b.Failed,
						"total", b.Total,
					)
				}
			}),
		)
		return err
	})
	return batch, err
}
