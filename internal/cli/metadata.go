package cli

import (
	"github.com/spf13/cobra"

	rs "github.com/renderscreenshot/client-go"
)

func newPresetsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets [id]",
		Short: "List capture presets, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var out any
			err = a.retry(ctx, "presets", func() error {
				if len(args) == 1 {
					p, err := client.Preset(ctx, args[0])
					out = p
					return err
				}
				ps, err := client.Presets(ctx)
				out = ps
				return err
			})
			if err != nil {
				return err
			}
			return writeJSON(ctx, cmd.OutOrStdout(), out, a.opts.jq)
		},
	}
}

func newDevicesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List emulated devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var devices []rs.Device
			err = a.retry(ctx, "devices", func() error {
				var err error
				devices, err = client.Devices(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return writeJSON(ctx, cmd.OutOrStdout(), devices, a.opts.jq)
		},
	}
}
