package tracker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/apave/jobwatch/pkg/models"
)

const (
	unknownRole = "(unknown role)"
	maxNotesLen = 1900
)

// Fields is the full record written to the store. An update overwrites
// every field: a later extraction replaces stale values, never merges.
type Fields struct {
	Company   string
	Role      string
	Status    models.Status
	URL       string
	AppliedOn time.Time
	Notes     string
}

// Query is one identity filter set. Zero-valued fields are unset; every
// set field must match exactly.
type Query struct {
	URL       string
	Company   string
	Role      string
	AppliedOn time.Time
}

// RecordStore is the external application-record store
type RecordStore interface {
	Query(ctx context.Context, q Query) ([]string, error)
	Create(ctx context.Context, f Fields) error
	Update(ctx context.Context, id string, f Fields) error
	StatusOptions(ctx context.Context) ([]string, error)
}

// Outcome is the per-message result of one pipeline pass
type Outcome string

const (
	OutcomeCreated            Outcome = "created"
	OutcomeCreatedFallback    Outcome = "created-fallback"
	OutcomeUpdated            Outcome = "updated"
	OutcomeUpdatedFallback    Outcome = "updated-fallback"
	OutcomeSkippedNotRelevant Outcome = "skipped-not-relevant"
	OutcomeSkippedNoCompany   Outcome = "skipped-no-company"
	OutcomeFailed             Outcome = "failed"
)

// Upserter resolves an extracted identity to an existing record and writes
// it, creating the record on first sighting
type Upserter struct {
	store  RecordStore
	logger *slog.Logger

	statusOptions []string
	optionsLoaded bool
}

// NewUpserter creates a new upserter backed by the given store
func NewUpserter(store RecordStore, logger *slog.Logger) *Upserter {
	return &Upserter{store: store, logger: logger}
}

// Upsert writes one extracted record. On a status-validity rejection the
// write is retried once with a forced generic Applied status; any other
// failure is reported and the caller moves on to the next message.
func (u *Upserter) Upsert(ctx context.Context, attrs Attributes, status models.Status, subject string) (Outcome, error) {
	role := attrs.Role
	if role == "" {
		role = unknownRole
	}
	notes := subject
	if len(notes) > maxNotesLen {
		notes = notes[:maxNotesLen]
	}

	fields := Fields{
		Company:   attrs.Company,
		Role:      role,
		Status:    models.Status(u.validateStatus(ctx, string(status))),
		URL:       attrs.URL,
		AppliedOn: attrs.AppliedOn,
		Notes:     notes,
	}

	id, err := u.findExisting(ctx, attrs)
	if err != nil {
		return OutcomeFailed, err
	}

	outcome, err := u.write(ctx, id, fields, false)
	if err == nil {
		return outcome, nil
	}
	if !isStatusError(err) {
		return OutcomeFailed, err
	}

	u.logger.Warn("store rejected status, retrying with fallback",
		"company", fields.Company, "status", fields.Status, "error", err)
	fields.Status = models.Status(u.validateStatus(ctx, string(models.StatusApplied)))

	outcome, err = u.write(ctx, id, fields, true)
	if err != nil {
		return OutcomeFailed, err
	}
	return outcome, nil
}

// findExisting resolves the extracted identity to a record id. Filters run
// strongest first; company alone is consulted only when no stronger filter
// was applicable at all, since it would otherwise fold distinct
// applications at the same company into one record.
func (u *Upserter) findExisting(ctx context.Context, attrs Attributes) (string, error) {
	tried := false

	if attrs.URL != "" {
		tried = true
		ids, err := u.store.Query(ctx, Query{URL: attrs.URL})
		if err != nil {
			return "", err
		}
		if len(ids) > 0 {
			return ids[0], nil
		}
	}

	if attrs.Company != "" && !attrs.AppliedOn.IsZero() {
		tried = true
		ids, err := u.store.Query(ctx, Query{Company: attrs.Company, AppliedOn: attrs.AppliedOn})
		if err != nil {
			return "", err
		}
		if len(ids) > 0 {
			return ids[0], nil
		}
	}

	if attrs.Company != "" && attrs.Role != "" && attrs.Role != unknownRole {
		tried = true
		ids, err := u.store.Query(ctx, Query{Company: attrs.Company, Role: attrs.Role})
		if err != nil {
			return "", err
		}
		if len(ids) > 0 {
			return ids[0], nil
		}
	}

	if !tried && attrs.Company != "" {
		ids, err := u.store.Query(ctx, Query{Company: attrs.Company})
		if err != nil {
			return "", err
		}
		if len(ids) > 0 {
			return ids[0], nil
		}
	}

	return "", nil
}

func (u *Upserter) write(ctx context.Context, id string, fields Fields, fallback bool) (Outcome, error) {
	if id != "" {
		if err := u.store.Update(ctx, id, fields); err != nil {
			return OutcomeFailed, err
		}
		if fallback {
			return OutcomeUpdatedFallback, nil
		}
		return OutcomeUpdated, nil
	}

	if err := u.store.Create(ctx, fields); err != nil {
		return OutcomeFailed, err
	}
	if fallback {
		return OutcomeCreatedFallback, nil
	}
	return OutcomeCreated, nil
}

// validateStatus checks the derived label against the store's vocabulary:
// exact match, then case-insensitive substring match, then the first
// available option. With no options available the label passes through.
func (u *Upserter) validateStatus(ctx context.Context, status string) string {
	options := u.loadStatusOptions(ctx)
	if len(options) == 0 {
		return status
	}

	for _, option := range options {
		if option == status {
			return status
		}
	}

	lower := strings.ToLower(status)
	for _, option := range options {
		optionLower := strings.ToLower(option)
		if strings.Contains(optionLower, lower) || strings.Contains(lower, optionLower) {
			u.logger.Warn("status not in store vocabulary, using closest match",
				"status", status, "match", option)
			return option
		}
	}

	u.logger.Warn("status not in store vocabulary, using first option",
		"status", status, "fallback", options[0])
	return options[0]
}

func (u *Upserter) loadStatusOptions(ctx context.Context) []string {
	if u.optionsLoaded {
		return u.statusOptions
	}
	options, err := u.store.StatusOptions(ctx)
	if err != nil {
		u.logger.Warn("could not retrieve status options", "error", err)
		return nil
	}
	u.statusOptions = options
	u.optionsLoaded = true
	return options
}

func isStatusError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "status")
}
