// Package scheduler runs the daily reconcile→chart→deliver pipeline on a
// cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"PortfolioPulse/internal/chart"
	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/notifier"
	"PortfolioPulse/internal/portfolio"
	"PortfolioPulse/internal/reconciler"
	"PortfolioPulse/internal/recorder"
	"PortfolioPulse/internal/series"
)

// Scheduler owns the cron instance and the run pipeline's collaborators.
type Scheduler struct {
	Cron       *cron.Cron
	Reconciler *reconciler.Reconciler
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	LedgerPath string
	Ctx        context.Context
}

// New creates a Scheduler.
func New(ctx context.Context, rec *reconciler.Reconciler, tn *notifier.TelegramNotifier, hist recorder.Recorder, ledgerPath string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Reconciler: rec,
		Notifier:   tn,
		Recorder:   hist,
		LedgerPath: ledgerPath,
		Ctx:        ctx,
	}
}

// Register adds the daily task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the daily task immediately (RUN_ON_START / manual runs).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	// "today" is read once and fixed for the whole run.
	today := dates.Today()
	log.Printf("[INFO] running portfolio update for %s", today)

	res, err := s.Reconciler.Run(s.Ctx, today)
	if err != nil {
		log.Printf("[ERROR] reconcile: %v", err)
		s.trySendText(notifier.FormatRunFailure(today, err))
		s.record(nil, today, false, err)
		return
	}
	for _, f := range res.Failures {
		log.Printf("[WARN] ticker %s not refreshed: %v", f.Ticker, f.Err)
	}

	ledger, err := portfolio.LoadLedger(s.LedgerPath)
	if err != nil {
		log.Printf("[ERROR] load ledger: %v", err)
		s.trySendText(notifier.FormatRunFailure(today, err))
		s.record(res, today, false, err)
		return
	}

	tbl := series.Assemble(res.Doc, s.Reconciler.Tickers, res.Window)
	perfs := portfolio.Compute(ledger, tbl)
	if len(perfs) == 0 {
		err := fmt.Errorf("no positions with price data")
		log.Printf("[ERROR] %v; nothing to deliver", err)
		s.trySendText(notifier.FormatRunFailure(today, err))
		s.record(res, today, false, err)
		return
	}

	png, err := chart.Render(perfs, time.Now())
	if err != nil {
		log.Printf("[ERROR] render chart: %v", err)
		s.trySendText(notifier.FormatRunFailure(today, err))
		s.record(res, today, false, err)
		return
	}

	caption := notifier.FormatCaption(today, perfs, res.Failures)
	delivered := true
	if err := s.Notifier.SendPhotoWithRetry(s.Ctx, png, caption, 3); err != nil {
		log.Printf("[ERROR] deliver chart: %v", err)
		delivered = false
	}

	s.record(res, today, delivered, nil)
	log.Printf("[INFO] run complete: %d points fetched, %d failures, delivered=%v",
		res.Fetched, len(res.Failures), delivered)
}

// record writes the run to history. res is nil when the run aborted before
// reconciliation produced a result; the summary then carries only the abort
// reason.
func (s *Scheduler) record(res *reconciler.Result, today dates.Date, delivered bool, runErr error) {
	summary := &recorder.RunSummary{
		Today:     today.String(),
		Tickers:   len(s.Reconciler.Tickers),
		Delivered: delivered,
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}
	if res != nil {
		summary.Fetched = res.Fetched
		summary.Failures = len(res.Failures)
		failed := make(map[string]string, len(res.Failures))
		for _, f := range res.Failures {
			failed[f.Ticker] = f.Err.Error()
		}
		for _, ticker := range s.Reconciler.Tickers {
			outcome := recorder.TickerOutcome{
				Ticker:      ticker,
				Fetched:     res.Merged[ticker],
				CachedDates: len(res.Doc.Series(ticker)),
				Error:       failed[ticker],
			}
			summary.Outcomes = append(summary.Outcomes, outcome)
		}
	}
	if err := s.Recorder.RecordRun(summary); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

func (s *Scheduler) trySendText(text string) {
	if err := s.Notifier.Send(text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
