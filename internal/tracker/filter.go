package tracker

import (
	"regexp"
	"strings"
)

// Senders and platforms whose mail never represents a tracked application:
// social notifications, newsletter/marketing tooling, CRM broadcast senders.
var defaultSenderDenyList = []string{
	"linkedin",
	"newsletter",
	"marketing",
	"promotional",
	"unsubscribe",
	"notifications@",
	"hubspot",
	"mailchimp",
	"constant contact",
	"salesforce",
	"zendesk",
}

// Phrases that look like job mail but are broadcast noise, not a message
// about a submitted application.
var defaultNoisePhrases = []string{
	"this is your sign",
	"don't miss",
	"last chance",
	"closing soon",
	"apply now",
	"open positions",
	"we're hiring",
	"join our team",
	"job alert",
	"deadline reminder",
	"application deadline",
}

// Application-lifecycle keywords that admit a message. Deliberately broad:
// the classifier and extractor downstream are responsible for precision.
var lifecycleKeywords = regexp.MustCompile(`(?i)apply|application|interview|assessment|offer|declin|reject|next steps|thanks|position|role|job|candidate|confirmation|submitted`)

// FilterConfig extends the built-in deny lists with operator-supplied terms
type FilterConfig struct {
	ExtraSenderDenyList []string
	ExtraNoisePhrases   []string
}

// Filter decides whether a message is worth classifying at all
type Filter struct {
	senderDeny []string
	noise      []string
}

// NewFilter creates a relevance filter from the built-in lists plus any
// configured extra terms
func NewFilter(cfg FilterConfig) *Filter {
	f := &Filter{
		senderDeny: append([]string{}, defaultSenderDenyList...),
		noise:      append([]string{}, defaultNoisePhrases...),
	}
	for _, term := range cfg.ExtraSenderDenyList {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			f.senderDeny = append(f.senderDeny, term)
		}
	}
	for _, phrase := range cfg.ExtraNoisePhrases {
		if phrase = strings.ToLower(strings.TrimSpace(phrase)); phrase != "" {
			f.noise = append(f.noise, phrase)
		}
	}
	return f
}

// IsCandidate reports whether a message looks like application-related mail
func (f *Filter) IsCandidate(subject, sender, body string) bool {
	subjectLower := strings.ToLower(subject)
	senderLower := strings.ToLower(sender)
	bodyLower := strings.ToLower(body)

	for _, term := range f.senderDeny {
		if strings.Contains(senderLower, term) || strings.Contains(subjectLower, term) {
			return false
		}
	}

	for _, phrase := range f.noise {
		if strings.Contains(subjectLower, phrase) || strings.Contains(bodyLower, phrase) {
			return false
		}
	}

	return lifecycleKeywords.MatchString(subject) || lifecycleKeywords.MatchString(body)
}
