package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"papercast/internal/fileutil"
	"papercast/internal/pipeline"
	"papercast/internal/services/bucket"
	"papercast/internal/store"
)

func newUploadsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Manage user-submitted PDFs",
	}
	cmd.AddCommand(newUploadsProcessCommand(ctx))
	cmd.AddCommand(newUploadsListCommand(ctx))
	cmd.AddCommand(newUploadsAddCommand(ctx))
	return cmd
}

func newUploadsProcessCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process pending submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer cleanup()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			summary, err := runner.RunUploads(runCtx, limit)
			if summary != nil {
				printRunSummary(cmd, summary)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum submissions to process (default: configured batch size)")
	return cmd
}

func newUploadsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]store.Status, 0, len(statusFlags))
			for _, raw := range statusFlags {
				status, err := store.ParseStatus(raw)
				if err != nil {
					return err
				}
				statuses = append(statuses, status)
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			uploads, err := st.ListUploads(cmd.Context(), statuses, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(uploads) == 0 {
				fmt.Fprintln(out, "No submissions found.")
				return nil
			}

			rows := make([][]string, 0, len(uploads))
			for _, upload := range uploads {
				rows = append(rows, []string{
					upload.ID,
					clipCell(uploadLabel(upload)),
					string(upload.Status),
					paperRef(upload.PaperID),
					formatRelativeTime(upload.UpdatedAt),
					clipCell(upload.ErrorMessage),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Document", "Status", "Paper", "Updated", "Error"}, rows))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&statusFlags, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to show")
	return cmd
}

func newUploadsAddCommand(ctx *commandContext) *cobra.Command {
	var title string
	var authors []string
	var user string

	cmd := &cobra.Command{
		Use:   "add <file.pdf>",
		Short: "Submit a PDF for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			data, err := fileutil.ReadFileMax(absPath, cfg.Workflow.MaxPDFBytes)
			if err != nil {
				return err
			}
			if err := pipeline.ValidatePDF(data, cfg.Workflow.MaxPDFBytes); err != nil {
				return fmt.Errorf("reject %s: %w", filepath.Base(absPath), err)
			}

			blobs, err := bucket.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			id := strings.ToLower(ulid.Make().String())
			ref, err := blobs.Upload(cmd.Context(), "uploads/raw/"+id+".pdf", data, bucket.ContentTypePDF)
			if err != nil {
				return fmt.Errorf("store document: %w", err)
			}

			upload := &store.Upload{
				ID:               id,
				OriginalFilename: filepath.Base(absPath),
				FileURL:          ref,
				UserID:           strings.TrimSpace(user),
				ExtractedTitle:   strings.TrimSpace(title),
				ExtractedAuthors: authors,
			}
			if err := st.CreateUpload(cmd.Context(), upload); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Queued submission %s (%s)\n", upload.ID, upload.OriginalFilename)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Known document title, used instead of re-extracting one")
	cmd.Flags().StringArrayVar(&authors, "author", nil, "Document author (repeatable)")
	cmd.Flags().StringVar(&user, "user", "", "Submitting user identifier")
	return cmd
}

func uploadLabel(upload *store.Upload) string {
	if title := strings.TrimSpace(upload.ExtractedTitle); title != "" {
		return title
	}
	return upload.OriginalFilename
}

func paperRef(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("#%d", *id)
}
