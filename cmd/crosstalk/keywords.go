package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newKeywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage the keyword profile of a dialog",
		Long: `A dialog's keywords decide which utterances of other dialogs look like they
belong to it. Keywords are single words with no spaces.

Examples:
  crosstalk keywords add refund money back
  crosstalk keywords remove refund back
  crosstalk keywords list refund`,
	}
	cmd.AddCommand(
		newKeywordsAddCmd(),
		newKeywordsRemoveCmd(),
		newKeywordsListCmd(),
	)
	return cmd
}

func newKeywordsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <dialog> <keyword>...",
		Short: "Add keywords to a dialog",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			dialog := args[0]
			for _, kw := range args[1:] {
				added, err := s.ws.AddKeyword(cmd.Context(), dialog, kw)
				if err != nil {
					return fmt.Errorf("add %q: %w", kw, err)
				}
				if !added && !jsonFlag(cmd) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already has keyword %q\n", dialog, kw)
				}
			}
			return printKeywords(cmd, s, dialog)
		},
	}
}

func newKeywordsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <dialog> <keyword>...",
		Short: "Remove keywords from a dialog",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			dialog := args[0]
			for _, kw := range args[1:] {
				removed, err := s.ws.RemoveKeyword(cmd.Context(), dialog, kw)
				if err != nil {
					return err
				}
				if !removed && !jsonFlag(cmd) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s has no keyword %q\n", dialog, kw)
				}
			}
			return printKeywords(cmd, s, dialog)
		},
	}
}

func newKeywordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dialog]",
		Short: "Show the keywords of one dialog or of every dialog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 1 {
				return printKeywords(cmd, s, args[0])
			}
			snap := s.ws.KeywordsByDialog()
			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			for _, d := range s.ws.Corpus().Dialogs {
				if e, ok := snap[d.Key]; ok && len(e.Keywords) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.Key, strings.Join(e.Keywords, ", "))
				}
			}
			return nil
		},
	}
}

func printKeywords(cmd *cobra.Command, s *session, dialog string) error {
	kws := s.ws.Keywords(dialog)
	if kws == nil {
		kws = []string{}
	}
	if jsonFlag(cmd) {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"dialog": dialog, "keywords": kws})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", dialog, strings.Join(kws, ", "))
	return nil
}
