package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk/pkg/ledger"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Record how a conflicting utterance gets remediated",
		Long: `Each utterance carries at most one action. Recording the action it already
has clears it again. Utterances are addressed by ID or by their exact text.

Examples:
  crosstalk resolve remove billing "I want my money back"
  crosstalk resolve edit billing 3f1c... "Why was I charged twice"
  crosstalk resolve move billing "refund my order" refund`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "remove <dialog> <utterance>",
			Short: "Mark an utterance for deletion",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSetAction(cmd, args[0], args[1], ledger.RemoveAction())
			},
		},
		&cobra.Command{
			Use:   "edit <dialog> <utterance> <new-text>",
			Short: "Rewrite an utterance",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSetAction(cmd, args[0], args[1], ledger.EditAction(args[2]))
			},
		},
		&cobra.Command{
			Use:   "move <dialog> <utterance> <target-dialog>",
			Short: "Move an utterance to another dialog",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSetAction(cmd, args[0], args[1], ledger.MoveAction(args[2]))
			},
		},
	)
	return cmd
}

func runSetAction(cmd *cobra.Command, dialog, utterance string, a ledger.Action) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ref := refFor(s.ws, dialog, utterance)
	entry, ok, err := s.ws.SetAction(cmd.Context(), ref, a)
	if err != nil {
		return err
	}
	u, _ := s.ws.Corpus().Resolve(ref)
	return printEntry(cmd, u.Text, entry, ok)
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag <dialog> <utterance>",
		Short: "Toggle a flag raised on an utterance from another dialog",
		Long: `A flag marks a conflict as handled from the point of view of one dialog
without changing the utterance. Flagging again removes the flag.

Examples:
  crosstalk flag billing "refund my order" --from refund`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")

			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			ref := refFor(s.ws, args[0], args[1])
			entry, ok, err := s.ws.ToggleFlag(cmd.Context(), ref, from)
			if err != nil {
				return err
			}
			u, _ := s.ws.Corpus().Resolve(ref)
			return printEntry(cmd, u.Text, entry, ok)
		},
	}
	cmd.Flags().String("from", "", "Dialog raising the flag")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func newTodoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "todo",
		Short: "List the recorded remediation of every utterance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			todo := s.ws.ToDoList()
			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), todo)
			}
			texts := make([]string, 0, len(todo))
			for t := range todo {
				texts = append(texts, t)
			}
			sort.Strings(texts)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ACTION\tDETAIL\tFLAGGED FROM\tUTTERANCE")
			for _, t := range texts {
				e := todo[t]
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", actionName(e.Action), actionDetail(e.Action), strings.Join(e.FlaggedFrom, ","), t)
			}
			return tw.Flush()
		},
	}
}

func printEntry(cmd *cobra.Command, text string, e ledger.Entry, ok bool) error {
	if jsonFlag(cmd) {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"utterance": text,
			"entry":     e,
			"recorded":  ok,
		})
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %q\n", text)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%q: %s", text, actionName(e.Action))
	if d := actionDetail(e.Action); d != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " (%s)", d)
	}
	if len(e.FlaggedFrom) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", flagged from %s", strings.Join(e.FlaggedFrom, ", "))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func actionName(a ledger.Action) string {
	if a.IsNone() {
		return string(ledger.None)
	}
	return string(a.Kind)
}

func actionDetail(a ledger.Action) string {
	switch a.Kind {
	case ledger.Edit:
		return a.EditedText
	case ledger.Move:
		return "to " + a.TargetDialog
	}
	return ""
}
