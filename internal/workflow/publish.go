package workflow

import (
	"context"
	"fmt"
	"strings"

	"papercast/internal/logging"
	"papercast/internal/pipeline"
	"papercast/internal/services"
	"papercast/internal/services/arxiv"
	"papercast/internal/services/bucket"
	"papercast/internal/store"
	"papercast/internal/textutil"
	"papercast/internal/wav"
)

// publish runs one document through the content pipeline, packages the
// audio, stores it, and inserts the published record. The returned record
// carries the database ID assigned on insert.
func (r *Runner) publish(ctx context.Context, doc pipeline.Document) (*store.Paper, error) {
	job := &pipeline.Job{Document: doc}
	if err := r.generator.Run(ctx, job); err != nil {
		return nil, err
	}
	if job.Info == nil {
		return nil, services.Wrap(services.ErrValidation, "workflow", "package record", "pipeline produced no extraction result", nil)
	}

	audio, err := wav.Encode(job.PCM, wav.DefaultFormat())
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "workflow", "package audio", "encode wav container", err)
	}

	audioURL, err := r.blobs.Upload(ctx, audioObjectPath(doc), audio, bucket.ContentTypeWAV)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "workflow", "store audio", "upload wav", err)
	}

	record := buildRecord(doc, job, audioURL)
	id, err := r.store.InsertPaper(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}
	record.ID = id

	r.logger.Info("record published",
		logging.String("record_id", record.ArxivID),
		logging.Int64("paper_id", id),
		logging.String("audio_url", audioURL),
		logging.Int("audio_seconds", record.AudioDuration))
	r.notify("episode published", r.notifier.NotifyPaperPublished(ctx, record.Title, audioURL))

	if r.cfg.Workflow.SaveLocalCopies {
		r.saveLocalCopy(doc, job, audio)
	}
	return record, nil
}

// audioObjectPath keys discovery episodes under podcasts/ and submitted
// documents under uploads/, both by native identifier.
func audioObjectPath(doc pipeline.Document) string {
	name := textutil.SanitizeFileName(doc.ID)
	if doc.Kind == pipeline.KindUpload {
		return "uploads/" + name + ".wav"
	}
	return "podcasts/" + name + ".wav"
}

func buildRecord(doc pipeline.Document, job *pipeline.Job, audioURL string) *store.Paper {
	info := job.Info
	category := doc.Category
	if category == "" {
		category = info.Field
	}
	return &store.Paper{
		ArxivID:       doc.RecordID,
		Title:         info.Title,
		Authors:       info.Authors,
		Category:      category,
		Tags:          info.Tags,
		Summary:       info.Abstract,
		Innovations:   strings.Join(info.Innovations, "\n"),
		Method:        info.Method,
		Results:       info.Results,
		Conclusion:    info.Conclusion,
		Script:        job.Script,
		ArxivURL:      doc.SourceURL,
		PDFURL:        doc.PDFRef,
		AudioURL:      audioURL,
		AudioDuration: wav.DurationSeconds(len(job.PCM), wav.DefaultFormat()),
	}
}

func documentForCandidate(candidate arxiv.Paper) pipeline.Document {
	return pipeline.Document{
		ID:        candidate.ArxivID,
		RecordID:  candidate.ArxivID,
		Kind:      pipeline.KindDiscovery,
		Title:     candidate.Title,
		Authors:   candidate.Authors,
		Abstract:  candidate.Summary,
		Category:  candidate.Category,
		SourceURL: candidate.AbsURL,
		PDFRef:    candidate.PDFURL,
	}
}

func documentForUpload(upload *store.Upload) pipeline.Document {
	// The intake title wins; otherwise the file name, cleaned up, serves as
	// a last-resort hint for documents the extractor cannot title.
	title := strings.TrimSpace(upload.ExtractedTitle)
	if title == "" {
		title = textutil.DisplayName(upload.OriginalFilename)
	}
	return pipeline.Document{
		ID:        upload.ID,
		RecordID:  store.UploadRecordID(upload.ID),
		Kind:      pipeline.KindUpload,
		Title:     title,
		Authors:   upload.ExtractedAuthors,
		Abstract:  upload.ExtractedAbstract,
		SourceURL: upload.FileURL,
		PDFRef:    upload.FileURL,
	}
}

func describeDocument(doc pipeline.Document) string {
	if title := strings.TrimSpace(doc.Title); title != "" {
		return fmt.Sprintf("%s (%s)", title, doc.ID)
	}
	return doc.ID
}
