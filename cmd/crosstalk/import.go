package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/corpus"
	"github.com/aretw0/crosstalk/pkg/text"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the corpus with the entities of a JSON or YAML file",
		Long: `Import utterances, dialogs and services. The file is either an object with
"utterances", "dialogs" and "services" arrays, or a flat array of items tagged
with objectType. Keyword profiles and the to-do list are kept.

Examples:
  crosstalk import training.json
  crosstalk import training.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := corpus.Decode(f, corpus.FormatFromPath(path))
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}

			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ws.SetCorpus(cmd.Context(), c); err != nil {
				return err
			}

			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]int{
					"utterances": len(c.Utterances),
					"dialogs":    len(c.Dialogs),
					"services":   len(c.Services),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d utterances in %d dialogs (%d services)\n",
				len(c.Utterances), len(c.Dialogs), len(c.Services))
			return nil
		},
	}
}

func newUtterancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utterances [dialog]",
		Short: "List utterances with their IDs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byLength, _ := cmd.Flags().GetBool("by-length")

			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			c := s.ws.Corpus()
			utterances := c.Utterances
			if len(args) == 1 {
				if !c.HasDialog(args[0]) {
					return unknownDialog(args[0])
				}
				utterances = c.UtterancesOf(args[0])
			}
			if byLength {
				utterances = corpus.SortedByWordCount(utterances)
			}
			if utterances == nil {
				utterances = []core.Utterance{}
			}

			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), utterances)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDIALOG\tWORDS\tUTTERANCE")
			for _, u := range utterances {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", u.ID, u.DialogKey, text.WordCount(u.Text), u.Text)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("by-length", false, "Order from the shortest utterance to the longest")
	return cmd
}
