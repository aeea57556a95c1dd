package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of crosstalk",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": crosstalk.Version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "crosstalk v%s\n", crosstalk.Version)
			return nil
		},
	}
}
