package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/apave/jobwatch/internal/parser"
	"github.com/apave/jobwatch/pkg/models"
)

// Intake yields the raw messages for a lookback window. The sequence is
// finite, may be empty, and carries no ordering guarantee.
type Intake interface {
	FetchSince(ctx context.Context, since time.Time) ([]models.RawMessage, error)
}

// Result is the outcome log entry for one processed message
type Result struct {
	Outcome Outcome
	Company string
	Role    string
	Status  models.Status
	Subject string
}

// Pipeline runs each fetched message through normalize, filter, classify,
// extract and upsert, one message at a time
type Pipeline struct {
	intake     Intake
	normalizer *parser.Normalizer
	filter     *Filter
	extractor  *Extractor
	upserter   *Upserter
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline wires the processing stages together
func NewPipeline(intake Intake, filter *Filter, store RecordStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		intake:     intake,
		normalizer: parser.NewNormalizer(),
		filter:     filter,
		extractor:  NewExtractor(),
		upserter:   NewUpserter(store, logger),
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessWindow fetches and processes every message from the last daysBack
// days. Only an intake failure aborts the run; per-message failures are
// recorded in the outcome log and processing continues.
func (p *Pipeline) ProcessWindow(ctx context.Context, daysBack int) ([]Result, error) {
	since := p.now().AddDate(0, 0, -daysBack)

	messages, err := p.intake.FetchSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("mail intake failed: %w", err)
	}

	results := make([]Result, 0, len(messages))
	for _, msg := range messages {
		result := p.processMessage(ctx, msg)
		results = append(results, result)
		p.logger.Info("processed message",
			"outcome", result.Outcome,
			"company", result.Company,
			"role", result.Role,
			"status", result.Status,
			"subject", truncate(msg.Subject, 100))
	}

	return results, nil
}

func (p *Pipeline) processMessage(ctx context.Context, msg models.RawMessage) Result {
	result := Result{Subject: msg.Subject}

	body := p.normalizer.Text(msg)

	if !p.filter.IsCandidate(msg.Subject, msg.Sender, body) {
		result.Outcome = OutcomeSkippedNotRelevant
		return result
	}

	result.Status = Classify(msg.Subject, body)

	attrs := p.extractor.Extract(msg.Subject, msg.Sender, body, msg.ReceivedAt)
	if attrs.Company == "" {
		result.Outcome = OutcomeSkippedNoCompany
		return result
	}
	result.Company = attrs.Company
	result.Role = attrs.Role

	// For a freshly submitted application with no extractable date, today
	// is the best remaining guess.
	if attrs.AppliedOn.IsZero() &&
		(result.Status == models.StatusApplied || result.Status == models.StatusNotAppliedYet) {
		attrs.AppliedOn = dateOnly(p.now())
	}

	outcome, err := p.upserter.Upsert(ctx, attrs, result.Status, msg.Subject)
	if err != nil {
		p.logger.Error("upsert failed", "company", attrs.Company, "role", attrs.Role, "error", err)
	}
	result.Outcome = outcome
	return result
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
