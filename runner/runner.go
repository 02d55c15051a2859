// Package runner drives the check loop: one record at a time, in input
// order, pacing navigations so the target site is not hammered.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/use-agent/refcheck/classify"
	"github.com/use-agent/refcheck/config"
	"github.com/use-agent/refcheck/models"
)

// Session is the browser capability the runner consumes. browser.Session
// satisfies it; tests inject a fake.
type Session interface {
	Navigate(ctx context.Context, url string) error
	RenderedText() string
	Title() string
	ElementTexts(selector string) []string
}

// statusLabels are the per-record console markers.
var statusLabels = map[models.Status]string{
	models.StatusValid:   "✅ VALID",
	models.StatusInvalid: "❌ Invalid/Claimed",
	models.StatusError:   "⚠️  Error",
	models.StatusUnknown: "❓ Unknown",
}

// Runner checks records sequentially against a single browser session.
type Runner struct {
	session     Session
	classifier  *classify.Classifier
	navTimeout  time.Duration
	settleDelay time.Duration
	limiter     *rate.Limiter
	progress    io.Writer
}

// New builds a Runner. Zero SettleDelay and PaceInterval disable the
// corresponding waits, which is how tests run without real delays.
func New(session Session, classifier *classify.Classifier, cfg config.CheckerConfig, progress io.Writer) *Runner {
	return &Runner{
		session:     session,
		classifier:  classifier,
		navTimeout:  cfg.NavigationTimeout,
		settleDelay: cfg.SettleDelay,
		limiter:     rate.NewLimiter(rate.Every(cfg.PaceInterval), 1),
		progress:    progress,
	}
}

// Run checks every record in order and returns the partitioned results.
// On interruption it returns the results accumulated so far together
// with the context error; the half-checked record is not recorded.
func (r *Runner) Run(ctx context.Context, records []models.ReferralRecord) (*models.RunResults, error) {
	results := &models.RunResults{}

	for i, rec := range records {
		// Pacing between consecutive checks. The first Wait is free
		// (burst 1), so the run starts immediately.
		if err := r.limiter.Wait(ctx); err != nil {
			return results, err
		}

		fmt.Fprintf(r.progress, "Checking %d/%d: %s ... ", i+1, len(records), rec.Code)

		status, err := r.checkOne(ctx, rec)
		if err != nil {
			fmt.Fprintln(r.progress, "interrupted")
			return results, err
		}

		fmt.Fprintln(r.progress, statusLabels[status])
		results.Add(models.CheckOutcome{ReferralRecord: rec, Status: status})
	}

	return results, nil
}

// checkOne resolves the status of a single record. Navigation failures
// are the runner's to classify: they become StatusError without ever
// consulting the classifier. The returned error is non-nil only when the
// run itself was cancelled.
func (r *Runner) checkOne(ctx context.Context, rec models.ReferralRecord) (models.Status, error) {
	navCtx := ctx
	if r.navTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, r.navTimeout)
		defer cancel()
	}

	if err := r.session.Navigate(navCtx, rec.URL); err != nil {
		if ctx.Err() != nil {
			return models.StatusError, ctx.Err()
		}
		slog.Warn("navigation failed", "url", rec.URL, "error", err)
		return models.StatusError, nil
	}

	// Let client-side rendering finish before reading anything.
	if err := r.settle(ctx); err != nil {
		return models.StatusError, err
	}

	view := classify.PageView{
		Text:     r.session.RenderedText(),
		Title:    r.session.Title(),
		Elements: r.session.ElementTexts(classify.ElementSelector),
	}
	return r.classifier.Classify(view), nil
}

func (r *Runner) settle(ctx context.Context) error {
	if r.settleDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.settleDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
