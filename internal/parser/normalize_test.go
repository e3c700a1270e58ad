package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apave/jobwatch/pkg/models"
)

func TestNormalizerPrefersPlainText(t *testing.T) {
	n := NewNormalizer()

	msg := models.RawMessage{
		BodyText: "plain version",
		BodyHTML: "<p>html version</p>",
	}
	assert.Equal(t, "plain version", n.Text(msg))
}

func TestNormalizerFallsBackToHTML(t *testing.T) {
	n := NewNormalizer()

	msg := models.RawMessage{
		BodyHTML: "<html><head><style>p{color:red}</style></head><body><p>We received your application.</p><p>Thanks, Acme</p></body></html>",
	}
	assert.Equal(t, "We received your application.\nThanks, Acme", n.Text(msg))
}

func TestNormalizerEmptyMessage(t *testing.T) {
	n := NewNormalizer()
	assert.Empty(t, n.Text(models.RawMessage{}))

	// Whitespace-only plain part should not shadow the HTML part
	msg := models.RawMessage{BodyText: "   \n ", BodyHTML: "<b>body</b>"}
	assert.Equal(t, "body", n.Text(msg))
}

func TestHTMLParserStripsMarkup(t *testing.T) {
	p := NewHTMLParser()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "tags removed",
			html: "<div>Your application to <b>Acme</b> was received.</div>",
			want: "Your application to Acme was received.",
		},
		{
			name: "script and style dropped",
			html: "<script>track()</script><p>Hello</p><style>body{}</style>",
			want: "Hello",
		},
		{
			name: "block elements become line breaks",
			html: "<p>line one</p><p>line two</p>",
			want: "line one\nline two",
		},
		{
			name: "whitespace runs collapsed",
			html: "<p>too     many\tspaces</p>",
			want: "too many spaces",
		},
		{
			name: "empty input",
			html: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.html))
		})
	}
}
