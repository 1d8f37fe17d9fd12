package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/store"
)

func newPapersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "papers",
		Short: "Browse published episodes",
	}
	cmd.AddCommand(newPapersListCommand(ctx))
	cmd.AddCommand(newPapersShowCommand(ctx))
	return cmd
}

func newPapersListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published papers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			papers, err := st.ListPapers(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(papers) == 0 {
				fmt.Fprintln(out, "No papers published yet.")
				return nil
			}

			rows := make([][]string, 0, len(papers))
			for _, paper := range papers {
				rows = append(rows, []string{
					paper.ArxivID,
					clipCell(paper.Title),
					paper.Category,
					formatAudioDuration(paper.AudioDuration),
					formatRelativeTime(paper.CreatedAt),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"arXiv ID", "Title", "Category", "Audio", "Published"}, rows, 3))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to show")
	return cmd
}

func newPapersShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <arxiv-id>",
		Short: "Show one published paper in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			paper, err := st.PaperByArxivID(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no paper with id %q", args[0])
				}
				return err
			}

			out := cmd.OutOrStdout()
			p := newStatusPrinter(out)
			p.section(paper.Title)
			p.field("arXiv ID", paper.ArxivID)
			p.field("Authors", joinOrDash(paper.Authors))
			p.field("Category", valueOrDash(paper.Category))
			p.field("Tags", joinOrDash(paper.Tags))
			p.field("arXiv URL", valueOrDash(paper.ArxivURL))
			p.field("PDF", valueOrDash(paper.PDFURL))
			p.field("Audio", valueOrDash(paper.AudioURL))
			p.field("Duration", formatAudioDuration(paper.AudioDuration))
			p.field("Published", paper.CreatedAt.Format("2006-01-02 15:04 MST"))

			sections := []struct {
				title string
				body  string
			}{
				{"Summary", paper.Summary},
				{"Innovations", paper.Innovations},
				{"Method", paper.Method},
				{"Results", paper.Results},
				{"Conclusion", paper.Conclusion},
			}
			for _, section := range sections {
				body := strings.TrimSpace(section.body)
				if body == "" {
					continue
				}
				p.blank()
				p.section(section.title)
				fmt.Fprintln(out, body)
			}
			return nil
		},
	}
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
