package parser

import (
	"strings"

	"github.com/apave/jobwatch/pkg/models"
)

// Normalizer reduces a raw message to one canonical plain-text body.
// The plain-text part wins when present; otherwise the HTML part is
// stripped to text. A message with neither yields an empty string.
type Normalizer struct {
	html *HTMLParser
}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{html: NewHTMLParser()}
}

// Text returns the canonical plain-text body for a message
func (n *Normalizer) Text(msg models.RawMessage) string {
	if text := strings.TrimSpace(msg.BodyText); text != "" {
		return text
	}
	return n.html.Parse(msg.BodyHTML)
}
