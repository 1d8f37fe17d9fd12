package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"papercast/internal/config"
	"papercast/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, library counts, and readiness checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			configPath, fromFile, err := ctx.configSource()
			if err != nil {
				return err
			}

			p := newStatusPrinter(cmd.OutOrStdout())

			p.section("Configuration")
			if fromFile {
				p.field("Config file", configPath)
			} else {
				p.field("Config file", configPath+" (missing, defaults in effect)")
			}
			p.field("arXiv query", cfg.Arxiv.Query)
			p.field("Papers per run", strconv.Itoa(cfg.Workflow.MaxPapersPerRun))
			p.field("Extraction model", cfg.Gemini.ExtractionModel)
			p.field("Script model", cfg.Gemini.ScriptModel)
			p.field("TTS model", cfg.Gemini.TTSModel)
			p.field("Storage", describeStorage(cfg))
			p.field("Database", cfg.DatabasePath())
			p.field("Local copies", yesNo(cfg.Workflow.SaveLocalCopies))
			p.field("Notifications", yesNo(cfg.Notifications.NtfyTopic != ""))
			p.blank()

			p.section("Library")
			if err := printLibraryCounts(cmd, ctx, p); err != nil {
				p.line(toneWarn, "Database", err.Error())
			}
			p.blank()

			p.section("Readiness")
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				tone := toneOK
				if !result.Passed {
					tone = toneFail
				}
				p.line(tone, result.Name, result.Detail)
			}

			if !preflight.Healthy(results) {
				return errors.New("one or more readiness checks failed")
			}
			return nil
		},
	}
}

func printLibraryCounts(cmd *cobra.Command, ctx *commandContext, p *statusPrinter) error {
	st, err := ctx.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	papers, err := st.CountPapers(cmd.Context())
	if err != nil {
		return err
	}
	health, err := st.UploadHealth(cmd.Context())
	if err != nil {
		return err
	}

	p.field("Published papers", strconv.Itoa(papers))
	p.field("Submissions", fmt.Sprintf("%d total (%d pending, %d processing, %d completed, %d failed)",
		health.Total, health.Pending, health.Processing, health.Completed, health.Failed))
	return nil
}

func describeStorage(cfg *config.Config) string {
	if cfg.Storage.Backend == config.StorageBackendSupabase {
		return fmt.Sprintf("supabase (bucket %q)", cfg.Storage.Bucket)
	}
	return fmt.Sprintf("local (%s)", cfg.Storage.LocalDir)
}
