package tracker

import (
	"regexp"

	"github.com/apave/jobwatch/pkg/models"
)

type statusRule struct {
	pattern *regexp.Regexp
	status  models.Status
}

// Rules are evaluated in order and the first hit wins. Rejection comes
// first: rejection boilerplate routinely quotes the original confirmation
// phrasing ("we received your application... we will not be moving
// forward"), so any later ordering misreads rejections as confirmations.
var statusRules = []statusRule{
	{regexp.MustCompile(`(?i)not mov(e|ing) forward|reject|regret|declined|unsuccessful|not (been )?selected|not chosen|not proceed`), models.StatusRejected},
	{regexp.MustCompile(`(?i)pleased to offer|offer`), models.StatusOfferReceived},
	{regexp.MustCompile(`(?i)interview.{0,40}(scheduled|invite)|phone screen.{0,40}scheduled|assessment.{0,40}scheduled`), models.StatusInterviewScheduled},
	{regexp.MustCompile(`(?i)interview|phone screen|assessment|coding challenge`), models.StatusInterviewScheduled},
	{regexp.MustCompile(`(?i)thank(s| you) for (applying|your application)|received your application|application.{0,30}(received|submitted|confirmed)`), models.StatusApplied},
	{regexp.MustCompile(`(?i)next steps|under review|in review|being considered`), models.StatusInProgress},
}

// Classify derives the application status for a message. Each rule matches
// against subject and body independently; either field is sufficient.
func Classify(subject, body string) models.Status {
	for _, rule := range statusRules {
		if rule.pattern.MatchString(subject) || rule.pattern.MatchString(body) {
			return rule.status
		}
	}
	return models.StatusNotAppliedYet
}
