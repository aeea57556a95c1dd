package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk/internal/platform"
	"github.com/aretw0/crosstalk/pkg/core"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a vault and write crosstalk.yaml",
		Long: `Create the vault directory, prepare its storage and write crosstalk.yaml
next to it so later commands find the project from any subdirectory.

Examples:
  crosstalk init
  crosstalk init --vault ./training --format yaml
  crosstalk init --adapter sqlite`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationCreatesConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			vault, err := filepath.Abs(cfg.Vault)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(vault, 0755); err != nil {
				return fmt.Errorf("create vault: %w", err)
			}

			repo, err := platform.Init(cmd.Context(), vault,
				platform.WithAdapter(cfg.Adapter),
				platform.WithFormat(cfg.Format),
				platform.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}
			if c, ok := repo.(core.Closer); ok {
				defer c.Close()
			}

			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = filepath.Join(vault, platform.ConfigFile)
			}
			file := cfg
			file.Vault = "."
			if dir, err := filepath.Abs(filepath.Dir(configPath)); err == nil && dir != vault {
				file.Vault = vault
			}
			if err := file.Save(configPath); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"vault":   vault,
					"adapter": cfg.Adapter,
					"config":  configPath,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s vault in %s\n", cfg.Adapter, vault)
			return nil
		},
	}
}
