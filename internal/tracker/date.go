package tracker

import (
	"regexp"
	"time"
)

// Parsed dates outside this floor..today window are treated as misreads
// (phone numbers and reference IDs parse as dates surprisingly often).
var dateFloor = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Labeled date phrases beat bare date tokens; the bare pattern is last.
var bodyDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)applied on\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)application date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)submitted on\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)received on\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
}

var subjectDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})`),
}

var numericDateFormats = []string{
	"1/2/2006", "1-2-2006", "2/1/2006", "2-1-2006", "1/2/06", "1-2-06",
}

var subjectDateFormats = append(numericDateFormats, "2 Jan 2006", "2 January 2006")

var confirmationHint = regexp.MustCompile(`(?i)thanks|received|application|confirmation|submitted`)

// extractAppliedOn derives the application date: explicit body phrases
// first, then subject tokens, then the message's own timestamp for
// confirmation-style mail. Returns the zero time when nothing parses.
func (e *Extractor) extractAppliedOn(subject, body string, receivedAt time.Time) time.Time {
	now := e.now()

	for _, pattern := range bodyDatePatterns {
		if match := pattern.FindStringSubmatch(body); match != nil {
			if date, ok := parseWindowed(match[1], numericDateFormats, now); ok {
				return date
			}
		}
	}

	for _, pattern := range subjectDatePatterns {
		if match := pattern.FindStringSubmatch(subject); match != nil {
			if date, ok := parseWindowed(match[1], subjectDateFormats, now); ok {
				return date
			}
		}
	}

	// A confirmation email lands close to the actual application time
	if confirmationHint.MatchString(subject) && !receivedAt.IsZero() {
		return dateOnly(receivedAt)
	}

	return time.Time{}
}

func parseWindowed(value string, formats []string, now time.Time) (time.Time, bool) {
	for _, format := range formats {
		date, err := time.Parse(format, value)
		if err != nil {
			continue
		}
		if date.Before(dateFloor) || date.After(now) {
			continue
		}
		return date, true
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
