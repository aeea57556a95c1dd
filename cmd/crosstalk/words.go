package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk/pkg/conflict"
	"github.com/aretw0/crosstalk/pkg/text"
)

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words [dialog]",
		Short: "List the words only one dialog uses",
		Long: `Words exclusive to a dialog are good keyword candidates: no other dialog's
utterances contain them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			c := s.ws.Corpus()
			exclusive := conflict.ExclusiveWords(c)
			if len(args) == 1 {
				words, ok := exclusive[args[0]]
				if !ok {
					return unknownDialog(args[0])
				}
				exclusive = map[string][]string{args[0]: words}
			}
			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), exclusive)
			}
			for _, d := range c.Dialogs {
				if words, ok := exclusive[d.Key]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.Key, strings.Join(words, " "))
				}
			}
			return nil
		},
	}
}

func newAlternativesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alternatives <text>",
		Short: "Suggest the common misspellings of a phrase",
		Args:  cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			alts := text.Alternatives(args[0])
			if alts == nil {
				alts = []string{}
			}
			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), alts)
			}
			for _, a := range alts {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
}
