package workflow

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"papercast/internal/fileutil"
	"papercast/internal/logging"
	"papercast/internal/pipeline"
	"papercast/internal/textutil"
)

const dumpTitleLimit = 80

// saveLocalCopy writes the extraction, script, and packaged audio for one
// published record under the output directory. These copies are for manual
// inspection only; failures are logged and never affect the run.
func (r *Runner) saveLocalCopy(doc pipeline.Document, job *pipeline.Job, audio []byte) {
	title := strings.TrimSpace(job.Info.Title)
	if title == "" {
		title = doc.RecordID
	}
	dirName := textutil.TruncateRunes(textutil.SanitizeFileName(title), dumpTitleLimit) +
		"_" + textutil.SanitizeFileName(doc.RecordID)
	dir := filepath.Join(r.cfg.Paths.OutputDir, dirName)

	if data, err := json.MarshalIndent(job.Info, "", "  "); err == nil {
		r.writeDumpFile(filepath.Join(dir, "info.json"), data)
	}
	r.writeDumpFile(filepath.Join(dir, "script.txt"), []byte(job.Script))
	r.writeDumpFile(filepath.Join(dir, "podcast.wav"), audio)
}

func (r *Runner) writeDumpFile(path string, data []byte) {
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		r.logger.Warn("could not save local copy",
			logging.String("path", path),
			logging.Error(err))
	}
}
