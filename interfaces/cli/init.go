package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// initOptions holds options for the init command.
type initOptions struct {
	force bool
}

// newInitCmd creates the init command.
func (a *App) newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample game file",
		Long: `Write the taxi game to a new game file.

The format follows the file extension (.yaml, .yml or .json).

Examples:
  # Create game.yaml in the current directory
  shapley init

  # Create a JSON game file, replacing an existing one
  shapley init taxi.json --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "game.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			return a.initGame(path, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func (a *App) initGame(path string, opts *initOptions) error {
	format, err := api.ConfigFormatFromPath(path)
	if err != nil {
		return err
	}

	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	data, err := api.MarshalConfig(api.DefaultGameConfig(), format)
	if err != nil {
		return fmt.Errorf("failed to encode game: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write game: %w", err)
	}

	fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	return nil
}
