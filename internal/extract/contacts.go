package extract

import (
	"regexp"
	"strings"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Pattern is one named entry of the contact pattern table
type Pattern struct {
	Name     string
	Kind     model.ContactKind
	Regex    *regexp.Regexp
	Examples []string
}

// phoneAlternatives are tried in order at each position (leftmost-first)
var phoneAlternatives = []struct {
	name string
	expr string
}{
	{"fixed_line", `0\d{1,4}-\d{1,4}-\d{4}`},
	{"compact", `0\d{9,10}`},
	{"mobile_hyphenated", `0[789]0-\d{4}-\d{4}`},
	{"mobile", `0[789]0\d{8}`},
	{"ip_hyphenated", `050-\d{4}-\d{4}`},
	{"ip", `050\d{8}`},
	{"freephone_hyphenated", `0120-\d{3}-\d{3}`},
	{"freephone", `0120\d{6}`},
	{"navi_dial_hyphenated", `0570-\d{3}-\d{3}`},
	{"navi_dial", `0570\d{6}`},
	{"m2m", `020\d{8,10}`},
}

func phoneExpr() string {
	parts := make([]string, len(phoneAlternatives))
	for i, alt := range phoneAlternatives {
		parts[i] = alt.expr
	}
	return strings.Join(parts, "|")
}

// DefaultPatterns returns the built-in contact pattern table
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:     "email",
			Kind:     model.ContactEmail,
			Regex:    regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
			Examples: []string{"taro.yamada@example.co.jp"},
		},
		{
			Name:     "phone",
			Kind:     model.ContactPhone,
			Regex:    regexp.MustCompile(phoneExpr()),
			Examples: []string{"03-1234-5678", "090-1234-5678", "0120-123-456", "0570123456"},
		},
		{
			Name:     "postal",
			Kind:     model.ContactPostal,
			Regex:    regexp.MustCompile(`\d{3}-\d{4}|\d{7}`),
			Examples: []string{"150-0001", "1500001"},
		},
	}
}

// ContactExtractor finds email addresses, phone numbers and postal codes in raw text
type ContactExtractor struct {
	patterns []Pattern
}

// NewContactExtractor creates an extractor with the built-in pattern table
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{patterns: DefaultPatterns()}
}

// Patterns returns the pattern table in evaluation order
func (e *ContactExtractor) Patterns() []Pattern {
	out := make([]Pattern, len(e.patterns))
	copy(out, e.patterns)
	return out
}

// ExtractAll returns every contact identifier in text, in order of appearance.
// A postal candidate whose digits appear inside any phone number is dropped.
func (e *ContactExtractor) ExtractAll(text string) model.Contacts {
	var contacts model.Contacts
	if strings.TrimSpace(text) == "" {
		return contacts
	}

	text = NormalizeText(text)

	for _, p := range e.patterns {
		found := p.Regex.FindAllString(text, -1)
		switch p.Kind {
		case model.ContactEmail:
			contacts.Emails = append(contacts.Emails, found...)
		case model.ContactPhone:
			contacts.Phones = append(contacts.Phones, found...)
		case model.ContactPostal:
			contacts.Postals = append(contacts.Postals, found...)
		}
	}

	contacts.Postals = dropPhoneFragments(contacts.Postals, contacts.Phones)
	return contacts
}

// dropPhoneFragments removes postal codes that are really pieces of phone numbers
func dropPhoneFragments(postals, phones []string) []string {
	if len(postals) == 0 || len(phones) == 0 {
		return postals
	}

	phoneDigits := make([]string, len(phones))
	for i, p := range phones {
		phoneDigits[i] = digitsOnly(p)
	}

	var kept []string
	for _, postal := range postals {
		d := digitsOnly(postal)
		conflict := false
		for _, pd := range phoneDigits {
			if strings.Contains(pd, d) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, postal)
		}
	}
	return kept
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
