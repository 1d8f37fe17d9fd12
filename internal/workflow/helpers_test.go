package workflow

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"papercast/internal/config"
	"papercast/internal/pipeline"
	"papercast/internal/services/arxiv"
	"papercast/internal/services/bucket"
	"papercast/internal/services/gemini"
	"papercast/internal/store"
	"papercast/internal/testsupport"
)

type stubSearcher struct {
	papers []arxiv.Paper
	err    error
	calls  int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]arxiv.Paper, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.papers, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) add(event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) NotifyRunStarted(_ context.Context, kind string, count int) error {
	return n.add(fmt.Sprintf("started:%s:%d", kind, count))
}

func (n *recordingNotifier) NotifyRunCompleted(_ context.Context, kind string, processed, failed int, _ time.Duration) error {
	return n.add(fmt.Sprintf("completed:%s:%d:%d", kind, processed, failed))
}

func (n *recordingNotifier) NotifyPaperPublished(_ context.Context, title, _ string) error {
	return n.add("published:" + title)
}

func (n *recordingNotifier) NotifyDocumentFailed(_ context.Context, document string, _ error) error {
	return n.add("failed:" + document)
}

func (n *recordingNotifier) TestNotification(context.Context) error {
	return n.add("test")
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func (n *recordingNotifier) has(event string) bool {
	for _, got := range n.all() {
		if got == event {
			return true
		}
	}
	return false
}

type stubStage struct {
	name  string
	calls int
	run   func(ctx context.Context, job *pipeline.Job) error
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Execute(ctx context.Context, job *pipeline.Job) error {
	s.calls++
	if s.run != nil {
		return s.run(ctx, job)
	}
	return nil
}

func (s *stubStage) HealthCheck(context.Context) pipeline.Health {
	return pipeline.Healthy(s.name)
}

// stubPipeline mimics the four standard stages with canned outputs so runs
// complete without any external service.
type stubPipeline struct {
	acquire    *stubStage
	extract    *stubStage
	script     *stubStage
	synthesize *stubStage
}

func newStubPipeline(info *gemini.PaperInfo) *stubPipeline {
	return &stubPipeline{
		acquire: &stubStage{name: "acquire", run: func(_ context.Context, job *pipeline.Job) error {
			job.PDF = testsupport.PDFBytes(64)
			return nil
		}},
		extract: &stubStage{name: "extract", run: func(_ context.Context, job *pipeline.Job) error {
			job.Info = info
			return nil
		}},
		script: &stubStage{name: "script", run: func(_ context.Context, job *pipeline.Job) error {
			job.Script = "Alex: Welcome back.\nJamie: Glad to be here."
			return nil
		}},
		synthesize: &stubStage{name: "synthesize", run: func(_ context.Context, job *pipeline.Job) error {
			job.PCM = testsupport.PCMBytes(24000, 512)
			return nil
		}},
	}
}

func (p *stubPipeline) handlers() []pipeline.Handler {
	return []pipeline.Handler{p.acquire, p.extract, p.script, p.synthesize}
}

func (p *stubPipeline) totalCalls() int {
	return p.acquire.calls + p.extract.calls + p.script.calls + p.synthesize.calls
}

func testInfo(title string) *gemini.PaperInfo {
	return &gemini.PaperInfo{
		Title:       title,
		Authors:     []string{"Rosalind Chen", "Marcus Webb"},
		Abstract:    "We study sparse attention routing in transformer models.",
		Field:       "cs.LG",
		Tags:        []string{"attention", "efficiency"},
		Innovations: []string{"learned sparse routing", "no auxiliary losses"},
		Method:      "Ablations across three model scales on standard benchmarks.",
		Results:     "Matches dense baselines at roughly half the compute.",
		Conclusion:  "Sparsity alone recovers dense quality.",
	}
}

func testCandidate(arxivID, title string) arxiv.Paper {
	return arxiv.Paper{
		ArxivID:  arxivID,
		Title:    title,
		Summary:  "Feed abstract for " + title,
		Authors:  []string{"Rosalind Chen"},
		Category: "cs.AI",
		AbsURL:   "https://arxiv.org/abs/" + arxivID,
		PDFURL:   "https://arxiv.org/pdf/" + arxivID,
	}
}

type testRunner struct {
	cfg      *config.Config
	store    *store.Store
	blobs    *bucket.Local
	searcher *stubSearcher
	notifier *recordingNotifier
	runner   *Runner
}

func newTestRunner(t *testing.T, cfg *config.Config, searcher *stubSearcher, stages ...pipeline.Handler) *testRunner {
	t.Helper()

	st := testsupport.MustOpenStore(t, cfg)
	blobs, err := bucket.NewLocal(cfg.Storage.LocalDir)
	if err != nil {
		t.Fatalf("bucket.NewLocal: %v", err)
	}
	notifier := &recordingNotifier{}
	generator := pipeline.NewGeneratorWithStages(nil, stages...)
	runner, err := New(cfg, st, blobs, searcher, generator, notifier, nil)
	if err != nil {
		t.Fatalf("workflow.New: %v", err)
	}
	return &testRunner{
		cfg:      cfg,
		store:    st,
		blobs:    blobs,
		searcher: searcher,
		notifier: notifier,
		runner:   runner,
	}
}
