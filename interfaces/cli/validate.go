package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
	showSchema bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a game file",
		Long: `Validate a game file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Required fields (name, version, worth type)
  - Agent IDs are present and unique
  - Worth parameters (capacity, quota, url, path)
  - Environment variable references and unknown fields (in strict mode)

Examples:
  # Validate a game file
  shapley validate -c game.yaml

  # Strict validation (fail on missing env vars and unknown fields)
  shapley validate -c game.yaml --strict

  # Show the JSON schema for game files
  shapley validate --schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showSchema {
				return a.showConfigSchema()
			}
			return a.validateGame(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to game file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on missing env vars and unknown fields")
	cmd.Flags().BoolVar(&opts.showSchema, "schema", false, "Show JSON schema for game files")

	return cmd
}

// validateGame loads the file and builds the worth function.
func (a *App) validateGame(ctx context.Context, opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("game file path is required (-c flag)")
	}

	config, err := a.loadGameConfig(&gameOptions{configPath: opts.configPath, strict: opts.strict})
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	built, err := api.NewConfigBuilder(config).Build(ctx)
	if err != nil {
		return fmt.Errorf("game build failed: %w", err)
	}
	if err := built.Close(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "✓ Game is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", config.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", config.Version)
	if config.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", config.Description)
	}

	fmt.Fprintf(a.stdout, "\nGame summary:\n")
	fmt.Fprintf(a.stdout, "  Worth: %s\n", config.Worth.Type)
	fmt.Fprintf(a.stdout, "  Agents: %d\n", len(config.Agents))
	for _, agent := range config.Agents {
		fmt.Fprintf(a.stdout, "    - %s (%s)\n", agent.ID, formatFloat(agent.Contribution))
	}
	fmt.Fprintf(a.stdout, "  Permutations: %d\n", api.PermutationCount(len(config.Agents)))
	if config.Engine.MaxAgents > 0 {
		fmt.Fprintf(a.stdout, "  Max agents: %d\n", config.Engine.MaxAgents)
	}

	return nil
}

// showConfigSchema displays the JSON schema for game files.
func (a *App) showConfigSchema() error {
	schemaJSON, err := api.ConfigSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Fprintln(a.stdout, schemaJSON)
	return nil
}
