package scraper

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"talentscout/talent-service/internal/model"
)

// Remote is the slice of the remote talent API the worker depends on.
type Remote interface {
	FetchPage(ctx context.Context, page int) (*model.PageResult, error)
	FetchDetail(ctx context.Context, id int64) (model.TalentDetail, error)
}

// Saver persists one merged talent record, keyed by its id.
type Saver interface {
	Save(ctx context.Context, record model.TalentDetail) (*model.SaveResult, error)
}

// Policy holds the knobs of one scrape run.
type Policy struct {
	StartPage       int
	EndPage         int // inclusive
	Delay           time.Duration
	StopOnEmptyPage bool
}

// Worker runs the full scrape cycle: it pages through the remote list
// endpoint, fetches the detail record for every summary, merges the two and
// upserts the result. Items are processed strictly one at a time with a
// fixed pause between remote requests — a politeness constraint toward the
// remote API, not an accident.
//
// Individual item failures never abort the run; they are accumulated in the
// returned RunReport.
type Worker struct {
	remote Remote
	store  Saver
	policy Policy
}

// NewWorker constructs a Worker.
func NewWorker(remote Remote, store Saver, policy Policy) *Worker {
	return &Worker{remote: remote, store: store, policy: policy}
}

// Run executes one scrape run and returns its report. The run ends when the
// end page is reached, a list page carries no data, the remote signals no
// next page, or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) model.RunReport {
	report := model.RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	log.Printf("[worker] [RUN %s] Starting scrape — pages %d..%d, delay %s",
		report.RunID, w.policy.StartPage, w.policy.EndPage, w.policy.Delay)

	for page := w.policy.StartPage; page <= w.policy.EndPage; page++ {
		result, err := w.remote.FetchPage(ctx, page)
		if err != nil {
			log.Printf("[worker] [RUN %s] Page %d fetch failed: %v — no data, stopping",
				report.RunID, page, err)
			break
		}
		if result.Results == nil {
			log.Printf("[worker] [RUN %s] Page %d — no data, stopping", report.RunID, page)
			break
		}
		if len(result.Results) == 0 && w.policy.StopOnEmptyPage {
			log.Printf("[worker] [RUN %s] Page %d — empty results, stopping", report.RunID, page)
			break
		}

		saved, errs := w.processPage(ctx, report.RunID, page, result.Results)
		report.TotalSaved += saved
		report.TotalErrors += errs
		report.Pages++

		if ctx.Err() != nil {
			log.Printf("[worker] [RUN %s] Cancelled — stopping", report.RunID)
			break
		}

		if result.Next == nil {
			log.Printf("[worker] [RUN %s] Page %d — no more pages", report.RunID, page)
			break
		}
		if page < w.policy.EndPage && !w.pause(ctx) {
			break
		}
	}

	report.FinishedAt = time.Now().UTC()
	log.Printf("[worker] [RUN %s] Run complete — saved=%d errors=%d pages=%d duration=%s",
		report.RunID, report.TotalSaved, report.TotalErrors, report.Pages,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	return report
}

// processPage handles every summary of one list page sequentially, pausing
// after each item regardless of outcome.
func (w *Worker) processPage(
	ctx context.Context,
	runID string,
	page int,
	summaries []model.TalentSummary,
) (saved, errs int) {
	log.Printf("[worker] [RUN %s] Page %d — %d talent(s)", runID, page, len(summaries))

	for _, summary := range summaries {
		if ctx.Err() != nil {
			return saved, errs
		}

		detail, err := w.remote.FetchDetail(ctx, summary.ID)
		if err != nil {
			errs++
			log.Printf("[worker] [RUN %s] Detail fetch for talent %d (%s) failed: %v — continuing",
				runID, summary.ID, summary.User.Name, err)
			w.pause(ctx)
			continue
		}

		result, err := w.store.Save(ctx, Merge(detail, summary))
		if err != nil {
			errs++
			log.Printf("[worker] [RUN %s] Save for talent %d (%s) failed: %v — continuing",
				runID, summary.ID, summary.User.Name, err)
		} else {
			saved++
			log.Printf("[worker] [RUN %s] Saved talent %d (%s) — matched=%d modified=%d upserted=%d",
				runID, summary.ID, summary.User.Name,
				result.Matched, result.Modified, result.Upserted)
		}

		w.pause(ctx)
	}

	return saved, errs
}

// pause waits for the configured delay. Returns false when ctx was
// cancelled before the delay elapsed.
func (w *Worker) pause(ctx context.Context) bool {
	if w.policy.Delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.policy.Delay):
		return true
	}
}
