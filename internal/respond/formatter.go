// Package respond renders retrieval results into the single text block
// returned to the user. Output is HTML; catalog text is escaped.
package respond

import (
	"fmt"
	"html"
	"strings"

	"github.com/yojanadost/yojanadost/internal/model"
)

const (
	// EmptyQueryMessage is returned for blank queries
	EmptyQueryMessage = "Please enter a query."

	// UnavailableMessage replaces any fallback failure
	UnavailableMessage = "Smart assistant is currently unavailable. Please try again later."

	// RateLimitedMessage is returned to clients that exceed their request budget
	RateLimitedMessage = "Too many requests. Please wait a moment and try again."

	notSpecified = "Not specified"
	linkText     = "Official Website"
)

// Formatter renders responses. The zero value is not usable; call NewFormatter.
type Formatter struct {
	exampleScheme string
}

// NewFormatter creates a formatter. exampleScheme is suggested in the
// no-match message.
func NewFormatter(exampleScheme string) *Formatter {
	if exampleScheme == "" {
		exampleScheme = "Ayushman Bharat"
	}
	return &Formatter{exampleScheme: exampleScheme}
}

// Empty returns the prompt for a blank query
func (f *Formatter) Empty() string {
	return EmptyQueryMessage
}

// NoMatch suggests the catalog's categories when nothing matched and no
// fallback is configured
func (f *Formatter) NoMatch(query string, categories []string) string {
	return fmt.Sprintf(
		"I couldn't find exact matches for '%s'. Try these categories: %s. Or ask about specific schemes like '%s'.",
		html.EscapeString(query),
		html.EscapeString(strings.Join(categories, ", ")),
		html.EscapeString(f.exampleScheme),
	)
}

// Matches renders up to limit schemes under a header carrying the full
// count. limit <= 0 renders every scheme.
func (f *Formatter) Matches(schemes []model.Scheme, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>%s:</strong><br><br>", foundHeader(len(schemes)))
	f.writeEntries(&b, schemes, limit)
	return b.String()
}

// CategoryMatches renders every scheme in a category
func (f *Formatter) CategoryMatches(category string, schemes []model.Scheme) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>Schemes under %s: %s</strong><br><br>", html.EscapeString(category), foundHeader(len(schemes)))
	f.writeEntries(&b, schemes, 0)
	return b.String()
}

// Unavailable is the fixed message shown when the fallback fails
func (f *Formatter) Unavailable() string {
	return UnavailableMessage
}

func (f *Formatter) writeEntries(b *strings.Builder, schemes []model.Scheme, limit int) {
	for i, s := range schemes {
		if limit > 0 && i >= limit {
			break
		}

		eligibility := s.Eligibility
		if strings.TrimSpace(eligibility) == "" {
			eligibility = notSpecified
		}
		url := s.URL
		if url == "" {
			url = "#"
		}

		fmt.Fprintf(b, "<strong>%d. %s</strong><br>", i+1, html.EscapeString(s.Name))
		fmt.Fprintf(b, "%s<br>", html.EscapeString(s.Description))
		fmt.Fprintf(b, "<em>Eligibility: %s</em><br>", html.EscapeString(eligibility))
		fmt.Fprintf(b, "<a href='%s' target='_blank'>%s</a><br><br>", html.EscapeString(url), linkText)
	}
}

func foundHeader(n int) string {
	if n == 1 {
		return "Found 1 scheme"
	}
	return fmt.Sprintf("Found %d schemes", n)
}
