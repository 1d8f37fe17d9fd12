package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"papercast/internal/textutil"
	"papercast/internal/workflow"
)

const tableCellWidth = 60

func printRunSummary(cmd *cobra.Command, summary *workflow.RunSummary) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s run finished in %s: %d processed, %d skipped, %d failed (%d candidate(s)).\n",
		summaryLabel(summary.Kind),
		summary.Duration.Round(time.Second),
		summary.Processed,
		summary.Skipped,
		summary.Failed,
		summary.Candidates,
	)
}

func summaryLabel(kind string) string {
	switch kind {
	case workflow.RunKindUploads:
		return "Uploads"
	case workflow.RunKindDiscovery:
		return "Discovery"
	default:
		return kind
	}
}

func formatAudioDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return (time.Duration(seconds) * time.Second).String()
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// clipCell keeps table rows readable; values longer than tableCellWidth
// runes are cut and empty values render as a dash.
func clipCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return textutil.TruncateRunes(value, tableCellWidth)
}
