package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Store the API key in the system keyring",
	}
	cmd.AddCommand(newAuthSetKeyCommand(a), newAuthClearCommand(a))
	return cmd
}

func newAuthSetKeyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Save an API key to the system keyring",
		Long: `Save an API key to the system keyring. The key is read from the terminal
without echo, or from stdin when stdin is not a terminal:

  echo "$KEY" | renderscreenshot auth set-key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := readSecret(cmd, "API key: ")
			if err != nil {
				return err
			}
			if key == "" {
				return errors.New("API key must not be empty")
			}
			if err := a.keys.set(key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved to the system keyring")
			return nil
		},
	}
}

func newAuthClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := a.keys.delete()
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed from the system keyring")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key was stored")
			}
			return nil
		},
	}
}

// readSecret prompts on stderr and reads without echo when stdin is a
// terminal. Otherwise it reads the first line of stdin.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
