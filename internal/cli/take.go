package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	rs "github.com/renderscreenshot/client-go"
)

func newTakeCommand(a *app) *cobra.Command {
	capture := newCaptureFlags()
	var (
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "take [url]",
		Short: "Capture a screenshot or PDF",
		Long: `Capture a URL, or the HTML in --html-file, and write the result to a file.

With --json the API stores the capture and the command prints its metadata
(including the download URL) instead of the image bytes.`,
		Example: `  renderscreenshot take https://example.com -o example.png
  renderscreenshot take https://example.com --full-page --format jpeg --quality 80
  renderscreenshot take https://example.com --json --jq .url`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			ctx := cmd.Context()

			if asJSON {
				var resp *rs.ScreenshotResponse
				err := a.retry(ctx, "take", func() error {
					var err error
					resp, err = client.TakeJSON(ctx, opts)
					return err
				})
				if err != nil {
					return err
				}
				return writeJSON(ctx, cmd.OutOrStdout(), resp, a.opts.jq)
			}

			var data []byte
			err = a.retry(ctx, "take", func() error {
				var err error
				data, err = client.Take(ctx, opts)
				return err
			})
			if err != nil {
				return err
			}

			if output == "" {
				output = "screenshot." + extensionFor(capture.format)
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().AddFlagSet(capture.fs)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or - for stdout (default: screenshot.<format>)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print capture metadata instead of saving the image")

	return cmd
}

// extensionFor returns the file extension for a --format value.
func extensionFor(format string) string {
	switch format {
	case "":
		return rs.FormatPNG
	case rs.FormatJPEG, "jpg":
		return "jpg"
	default:
		return format
	}
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d bytes to %s\n", len(data), path)
	return nil
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
