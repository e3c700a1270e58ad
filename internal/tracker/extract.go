package tracker

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Attributes are the fields extracted from one message. Zero values mean
// the field could not be derived; nothing here is ever guessed.
type Attributes struct {
	Company   string
	Role      string
	URL       string
	AppliedOn time.Time
}

// Extractor derives company, role, URL and application date from a message
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates a new attribute extractor
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// Extract runs every sub-extraction against one message. Each one degrades
// to an absent field instead of failing.
func (e *Extractor) Extract(subject, sender, body string, receivedAt time.Time) Attributes {
	return Attributes{
		Company:   extractCompany(sender, body),
		Role:      extractRole(subject, body),
		URL:       BestURL(subject, body),
		AppliedOn: e.extractAppliedOn(subject, body, receivedAt),
	}
}

// Domains that identify mail infrastructure, job boards or ATS vendors
// rather than the employer itself.
var genericDomainFragments = []string{
	"gmail", "yahoo", "hotmail", "outlook", "aol", "icloud", "proton",
	"linkedin", "indeed", "glassdoor", "ziprecruiter", "wellfound",
	"greenhouse", "lever", "workday", "myworkday", "taleo", "icims",
	"jobvite", "bamboohr", "smartrecruiters", "ashbyhq",
	"hubspot", "mailchimp", "sendgrid", "mailgun", "amazonses",
}

// Raw domain labels are often a mail-infra subdomain rather than the brand.
// Fragment keys are matched as substrings of the full sender domain and
// override whatever the label heuristic produced.
var knownCompanyDomains = map[string]string{
	"amazonjobs":    "Amazon",
	"metacareers":   "Meta",
	"google":        "Google",
	"microsoft":     "Microsoft",
	"jpmchase":      "JPMorgan Chase",
	"goldmansachs":  "Goldman Sachs",
	"morganstanley": "Morgan Stanley",
	"capitalone":    "Capital One",
	"nvidia":        "NVIDIA",
	"bytedance":     "ByteDance",
	"tiktok":        "TikTok",
	"databricks":    "Databricks",
	"stripe":        "Stripe",
	"accenture":     "Accenture",
	"deloitte":      "Deloitte",
}

var companyStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"our": true, "your": true, "this": true, "that": true,
	"unknown": true, "unknown company": true, "(unknown company)": true,
}

var (
	domainNoiseTokens   = regexp.MustCompile(`(?i)noreply|no-reply|careers|jobs|hr|talent|recruiting`)
	companySuffixRegex  = regexp.MustCompile(`(?i)\s+(inc|llc|ltd|corp|corporation|company|& co)\.?$`)
	praisePrefixRegex   = regexp.MustCompile(`(?i)^(great|good|wonderful|amazing)`)
	whitespaceRunsRegex = regexp.MustCompile(`\s+`)
	titleCaser          = cases.Title(language.English)
)

// Ordered from explicit labels down to positional phrases. Candidates must
// start with a capital letter; lowercase matches are far too noisy.
var companyBodyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)Company:\s*([^\n\r,]+)`),
	regexp.MustCompile(`(?m)Organization:\s*([^\n\r,]+)`),
	regexp.MustCompile(`\bat\s+([A-Z][A-Za-z&.]*[A-Za-z])`),
	regexp.MustCompile(`\bfrom\s+([A-Z][A-Za-z&.]*[A-Za-z])`),
	regexp.MustCompile(`((?:[A-Z][A-Za-z&.]*\s+){1,3})is hiring`),
	regexp.MustCompile(`((?:[A-Z][A-Za-z&.]*\s+){1,3})team\b`),
}

// extractCompany tries the sender domain first, then the known-domain
// mapping, then body phrases. Returns "" when nothing confident was found.
func extractCompany(sender, body string) string {
	if company := companyFromSender(sender); company != "" {
		return company
	}

	for _, pattern := range companyBodyPatterns {
		match := pattern.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		candidate := cleanCompany(match[1])
		if acceptCompany(candidate) {
			return candidate
		}
	}

	return ""
}

func companyFromSender(sender string) string {
	address := sender
	if parsed, err := mail.ParseAddress(sender); err == nil {
		address = parsed.Address
	}

	at := strings.LastIndex(address, "@")
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(address[at+1:]))
	if domain == "" {
		return ""
	}

	// Mapping table wins over the raw label: mail-infra subdomains rarely
	// carry the display name.
	for fragment, name := range knownCompanyDomains {
		if strings.Contains(domain, fragment) {
			return name
		}
	}

	for _, fragment := range genericDomainFragments {
		if strings.Contains(domain, fragment) {
			return ""
		}
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return ""
	}
	label := labels[len(labels)-2]
	// Two-level public suffixes like co.uk
	if (label == "co" || label == "com" || label == "ac") && len(labels) >= 3 {
		label = labels[len(labels)-3]
	}

	label = domainNoiseTokens.ReplaceAllString(label, "")
	label = strings.Trim(label, "-._")
	if label == "" {
		return ""
	}

	candidate := titleCaser.String(label)
	if !acceptCompany(candidate) {
		return ""
	}
	return candidate
}

func cleanCompany(company string) string {
	company = whitespaceRunsRegex.ReplaceAllString(company, " ")
	company = strings.TrimSpace(company)
	company = companySuffixRegex.ReplaceAllString(company, "")
	return strings.TrimSpace(company)
}

func acceptCompany(company string) bool {
	if len(company) <= 2 {
		return false
	}
	if companyStopwords[strings.ToLower(company)] {
		return false
	}
	if praisePrefixRegex.MatchString(company) {
		return false
	}
	return true
}

var (
	subjectPrefixRegex = regexp.MustCompile(`(?i)^(re:|fwd?:|fw:)\s*`)
	subjectTagRegex    = regexp.MustCompile(`\s*\[.*?\]\s*$`)

	roleLabelRegex = regexp.MustCompile(`(?i)(?:position|role|job title):\s*([^\n\r,]+)`)
	// Capitalized noun phrase ending in a job-title keyword.
	roleTitleRegex = regexp.MustCompile(`((?:[A-Z][A-Za-z+#/.-]*\s+){0,5}(?:Engineer|Developer|Analyst|Manager|Intern|Associate|Specialist|Coordinator|Assistant|Consultant|Designer|Scientist|Program))\b`)

	roleArticleRegex = regexp.MustCompile(`(?i)^(the|a|an|your|our)\s+`)
	roleSuffixRegex  = regexp.MustCompile(`(?i)\s+(position|role|job)$`)
)

// extractRole looks for an explicit labeled field first, then for a
// capitalized title phrase in the subject and body
func extractRole(subject, body string) string {
	subject = subjectTagRegex.ReplaceAllString(subjectPrefixRegex.ReplaceAllString(subject, ""), "")

	for _, text := range []string{subject, body} {
		if match := roleLabelRegex.FindStringSubmatch(text); match != nil {
			if role := cleanRole(match[1]); role != "" {
				return role
			}
		}
	}

	for _, text := range []string{subject, body} {
		if match := roleTitleRegex.FindStringSubmatch(text); match != nil {
			if role := cleanRole(match[1]); role != "" {
				return role
			}
		}
	}

	return ""
}

func cleanRole(role string) string {
	role = whitespaceRunsRegex.ReplaceAllString(role, " ")
	role = strings.TrimSpace(role)
	role = roleArticleRegex.ReplaceAllString(role, "")
	role = roleSuffixRegex.ReplaceAllString(role, "")
	role = strings.TrimSpace(role)
	if len(role) < 4 || len(role) > 99 {
		return ""
	}
	return role
}
