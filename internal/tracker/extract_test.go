package tracker

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedExtractor(now time.Time) *Extractor {
	e := NewExtractor()
	e.now = func() time.Time { return now }
	return e
}

func TestExtractCompany(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		body   string
		want   string
	}{
		{
			name:   "sender domain",
			sender: "careers@acme.com",
			want:   "Acme",
		},
		{
			name:   "sender with display name",
			sender: "Acme Recruiting <careers@acme.com>",
			want:   "Acme",
		},
		{
			name:   "subdomain before two-level suffix",
			sender: "talent@hiring.initech.co.uk",
			want:   "Initech",
		},
		{
			name:   "known domain mapping overrides label",
			sender: "no-reply@mail.metacareers.com",
			want:   "Meta",
		},
		{
			name:   "noise tokens stripped from label",
			sender: "updates@acmecareers.com",
			want:   "Acme",
		},
		{
			name:   "mail provider rejected, body fallback",
			sender: "recruiter@gmail.com",
			body:   "Company: Initech\nWe look forward to reviewing your application.",
			want:   "Initech",
		},
		{
			name:   "ats domain rejected, body fallback",
			sender: "no-reply@boards.greenhouse.io",
			body:   "Thanks for applying to the team at Initech.",
			want:   "Initech",
		},
		{
			name:   "corporate suffix stripped",
			sender: "no-reply@updates.greenhouse.io",
			body:   "Company: Globex Corp",
			want:   "Globex",
		},
		{
			name:   "stopword candidate rejected",
			sender: "",
			body:   "We will review at Our earliest convenience.",
			want:   "",
		},
		{
			name:   "praise prefix rejected",
			sender: "",
			body:   "Company: Great news for you",
			want:   "",
		},
		{
			name:   "nothing extractable",
			sender: "",
			body:   "no company mentioned here",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCompany(tt.sender, tt.body))
		})
	}
}

func TestExtractRole(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    string
	}{
		{
			name:    "title phrase in subject",
			subject: "Thank you for your application to the Software Engineer role at Acme Corp",
			want:    "Software Engineer",
		},
		{
			name:    "labeled field wins over title phrase",
			subject: "Senior Developer application",
			body:    "Position: Staff Software Engineer\nThanks for applying.",
			want:    "Staff Software Engineer",
		},
		{
			name:    "reply prefix and tag stripped",
			subject: "Re: Data Analyst position [external]",
			want:    "Data Analyst",
		},
		{
			name:    "trailing role suffix stripped",
			subject: "Your Product Manager role application",
			want:    "Product Manager",
		},
		{
			name:    "body title phrase",
			subject: "Application update",
			body:    "You applied for the Machine Learning Scientist opening.",
			want:    "Machine Learning Scientist",
		},
		{
			name:    "run-on candidate rejected by length bound",
			body:    "Position: " + strings.Repeat("x", 120),
			want:    "",
		},
		{
			name: "nothing extractable",
			body: "thank you for reaching out",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractRole(tt.subject, tt.body))
		})
	}
}

func TestBestURL(t *testing.T) {
	t.Run("ats portal beats social", func(t *testing.T) {
		body := "Track your application at https://boards.greenhouse.io/acme/jobs/123 " +
			"or see updates on https://linkedin.com/feed/update/1"
		assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/123", BestURL("", body))
	})

	t.Run("low-scoring url still returned", func(t *testing.T) {
		body := "See https://linkedin.com/feed/update/1 for more."
		assert.Equal(t, "https://linkedin.com/feed/update/1", BestURL("", body))
	})

	t.Run("trailing punctuation trimmed", func(t *testing.T) {
		body := "Apply here: https://jobs.initech.com/apply/42."
		assert.Equal(t, "https://jobs.initech.com/apply/42", BestURL("", body))
	})

	t.Run("no url", func(t *testing.T) {
		assert.Empty(t, BestURL("subject", "plain text body"))
	})
}

func TestExtractAppliedOn(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	received := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)
	e := fixedExtractor(now)

	t.Run("labeled body date", func(t *testing.T) {
		got := e.extractAppliedOn("Update", "You applied on 05/02/2025 via our portal.", received)
		assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("month name in subject", func(t *testing.T) {
		got := e.extractAppliedOn("Interview on 3 June 2025", "", received)
		assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("invalid numeric tokens rejected", func(t *testing.T) {
		got := e.extractAppliedOn("Update", "applied on 13/45/2024", received)
		assert.True(t, got.IsZero())
	})

	t.Run("date before floor rejected", func(t *testing.T) {
		got := e.extractAppliedOn("Update", "applied on 01/01/1999", received)
		assert.True(t, got.IsZero())
	})

	t.Run("future date rejected", func(t *testing.T) {
		got := e.extractAppliedOn("Update", "applied on 12/24/2031", received)
		assert.True(t, got.IsZero())
	})

	t.Run("confirmation falls back to message timestamp", func(t *testing.T) {
		got := e.extractAppliedOn("Thank you for your application", "no dates here", received)
		assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("non-confirmation without date stays absent", func(t *testing.T) {
		got := e.extractAppliedOn("Interview next steps", "no dates here", received)
		assert.True(t, got.IsZero())
	})
}

func TestExtractEndToEnd(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	received := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)
	e := fixedExtractor(now)

	attrs := e.Extract(
		"Thank you for your application to the Software Engineer role at Acme Corp",
		"careers@acme.com",
		"We will be in touch soon.",
		received,
	)

	assert.Equal(t, "Acme", attrs.Company)
	assert.Equal(t, "Software Engineer", attrs.Role)
	assert.Empty(t, attrs.URL)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), attrs.AppliedOn)
}
