package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover new papers and produce episodes",
		Long: strings.TrimSpace(`
Run one discovery pass: query the arXiv feed, drop papers that already have
an episode, and push the rest through extraction, scripting, and synthesis.

With --dry-run the command stops after the duplicate check and lists the
papers a real run would process, without touching Gemini or the database.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer cleanup()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if dryRun {
				candidates, err := runner.PlanDiscovery(runCtx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(candidates) == 0 {
					fmt.Fprintln(out, "No new papers; everything in the feed already has an episode.")
					return nil
				}
				rows := make([][]string, 0, len(candidates))
				for _, paper := range candidates {
					rows = append(rows, []string{
						paper.ArxivID,
						paper.Title,
						paper.Category,
						paper.Published.Format("2006-01-02"),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"arXiv ID", "Title", "Category", "Published"}, rows))
				fmt.Fprintf(out, "%d candidate(s); run without --dry-run to process them.\n", len(candidates))
				return nil
			}

			summary, err := runner.RunDiscovery(runCtx)
			if summary != nil {
				printRunSummary(cmd, summary)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List new papers without processing them")
	return cmd
}
