package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterIsCandidate(t *testing.T) {
	filter := NewFilter(FilterConfig{})

	tests := []struct {
		name    string
		subject string
		sender  string
		body    string
		want    bool
	}{
		{
			name:    "application confirmation admitted",
			subject: "Thank you for your application to the Software Engineer role at Acme Corp",
			sender:  "careers@acme.com",
			body:    "We received your application.",
			want:    true,
		},
		{
			name:    "rejection admitted",
			subject: "Update on your application — not moving forward",
			sender:  "talent@bigco.com",
			body:    "",
			want:    true,
		},
		{
			name:    "lifecycle keyword in body only",
			subject: "Quick update",
			sender:  "recruiting@startup.io",
			body:    "We would like to schedule an interview with you.",
			want:    true,
		},
		{
			name:    "social notification sender denied",
			subject: "You appeared in 3 searches",
			sender:  "jobs-noreply@linkedin.com",
			body:    "See who viewed your profile.",
			want:    false,
		},
		{
			name:    "newsletter sender denied",
			subject: "Weekly job digest",
			sender:  "newsletter@jobboard.example",
			body:    "",
			want:    false,
		},
		{
			name:    "hiring broadcast noise rejected",
			subject: "We're hiring! Join our team",
			sender:  "hello@somestartup.com",
			body:    "Open positions across engineering.",
			want:    false,
		},
		{
			name:    "deadline broadcast rejected",
			subject: "Application deadline approaching",
			sender:  "events@university.edu",
			body:    "Submit before Friday.",
			want:    false,
		},
		{
			name:    "no lifecycle keyword rejected",
			subject: "Your invoice for July",
			sender:  "billing@vendor.com",
			body:    "Amount due: $42.",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.IsCandidate(tt.subject, tt.sender, tt.body))
		})
	}
}

func TestFilterExtraTerms(t *testing.T) {
	filter := NewFilter(FilterConfig{
		ExtraSenderDenyList: []string{"spamcorp", " Ignored.Example "},
		ExtraNoisePhrases:   []string{"career fair"},
	})

	assert.False(t, filter.IsCandidate("Job opportunity", "hello@spamcorp.io", "apply"))
	assert.False(t, filter.IsCandidate("Reminder", "a@ignored.example", "your application"))
	assert.False(t, filter.IsCandidate("Career fair next week", "events@school.edu", "job openings"))

	// Built-in behavior still intact
	assert.True(t, filter.IsCandidate("Thanks for applying", "careers@acme.com", ""))
}
