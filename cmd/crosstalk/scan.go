package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk/pkg/conflict"
	"github.com/aretw0/crosstalk/pkg/match"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <dialog>",
		Short: "Show how well each utterance of a dialog matches its own keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			dialog := args[0]
			if !s.ws.Corpus().HasDialog(dialog) {
				return unknownDialog(dialog)
			}
			statuses := s.ws.Statuses(dialog)
			if statuses == nil {
				statuses = map[string]match.Percentage{}
			}
			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"dialog":   dialog,
					"keywords": s.ws.Keywords(dialog),
					"statuses": statuses,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Keywords: %s\n", strings.Join(s.ws.Keywords(dialog), ", "))
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MATCH\tUTTERANCE")
			for _, u := range s.ws.Corpus().UtterancesOf(dialog) {
				fmt.Fprintf(tw, "%s\t%s\n", statuses[u.Text], u.Text)
			}
			return tw.Flush()
		},
	}
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dialog>",
		Short: "Score the utterances of every other dialog against a dialog's keywords",
		Long: `Scan lists, per other dialog, every utterance with the share of the active
dialog's keywords it contains and its remediation state as seen from the
active dialog.

Examples:
  crosstalk scan refund
  crosstalk scan refund --only 'billing*'
  crosstalk scan refund --conflicts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			only, _ := cmd.Flags().GetString("only")
			conflictsOnly, _ := cmd.Flags().GetBool("conflicts")

			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			dialog := args[0]
			report, err := s.ws.Scan(dialog)
			if err != nil {
				return err
			}
			if report, err = conflict.Filter(report, only); err != nil {
				return err
			}
			todo := s.ws.ToDoList()

			type row struct {
				Utterance  string           `json:"utterance"`
				Percentage match.Percentage `json:"percentage"`
				Display    conflict.Display `json:"display"`
			}
			type group struct {
				Dialog  string `json:"dialog"`
				Matches []row  `json:"matches"`
			}
			groups := []group{}
			for _, key := range report.Order {
				g := group{Dialog: key, Matches: []row{}}
				for _, m := range report.Results[key] {
					if conflictsOnly && !m.Percentage.Positive() {
						continue
					}
					g.Matches = append(g.Matches, row{
						Utterance:  m.Utterance,
						Percentage: m.Percentage,
						Display:    conflict.DisplayFor(todo, m.Utterance, dialog),
					})
				}
				if conflictsOnly && len(g.Matches) == 0 {
					continue
				}
				groups = append(groups, g)
			}

			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"dialog":   dialog,
					"keywords": report.Keywords,
					"results":  groups,
				})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DIALOG\tMATCH\tSTATE\tUTTERANCE")
			for _, g := range groups {
				for _, r := range g.Matches {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.Dialog, r.Percentage, r.Display, r.Utterance)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("only", "", "Glob restricting the other dialogs shown")
	cmd.Flags().Bool("conflicts", false, "Only show matches above 0%")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [dialog]",
		Short: "Aggregate conflicts and their remediation",
		Long: `Without a dialog, summary covers every dialog that has keywords. A dialog is
resolved once every conflict counted before remediation has a matching change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			var summaries []conflict.Summary
			if len(args) == 1 {
				sum, err := s.ws.Summary(args[0])
				if err != nil {
					return err
				}
				summaries = []conflict.Summary{sum}
			} else {
				summaries = s.ws.Summaries()
			}

			if jsonFlag(cmd) {
				if len(args) == 1 {
					return writeJSON(cmd.OutOrStdout(), summaries[0])
				}
				return writeJSON(cmd.OutOrStdout(), summaries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if len(args) == 1 {
				sum := summaries[0]
				fmt.Fprintln(tw, "DIALOG\tCONFLICTS\tPENDING\tCHANGES\tSTATE")
				rows := append([]conflict.DialogSummary(nil), sum.Dialogs...)
				sort.SliceStable(rows, func(i, j int) bool { return rows[i].Pending > rows[j].Pending })
				for _, d := range rows {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", d.Dialog, d.Conflicts, d.Pending, d.Changes, d.State)
				}
				fmt.Fprintf(tw, "total\t%d\t%d\t%d\t%s\n", sum.Conflicts, sum.Pending, sum.Changes, sum.State)
				return tw.Flush()
			}
			fmt.Fprintln(tw, "DIALOG\tCONFLICTING\tCONFLICTS\tPENDING\tCHANGES\tSTATE")
			for _, sum := range summaries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", sum.Active, sum.Conflicting, sum.Conflicts, sum.Pending, sum.Changes, sum.State)
			}
			return tw.Flush()
		},
	}
}
