package datenorm

import (
	"strings"
	"time"
	_ "time/tzdata" // Asia/Tokyo must resolve on hosts without a zoneinfo database

	dps "github.com/markusmobius/go-dateparser"
	"golang.org/x/text/unicode/norm"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// DefaultTimezone is the zone relative expressions are resolved in
const DefaultTimezone = "Asia/Tokyo"

// relativeWords maps Japanese relative-date words to the English phrases the
// parser understands. Anything not listed is passed through unchanged.
var relativeWords = map[string]string{
	"今日":   "today",
	"明日":   "tomorrow",
	"明後日":  "day after tomorrow",
	"明々後日": "in three days",
	"昨日":   "yesterday",
	"一昨日":  "two days ago",
	"今週":   "this week",
	"来週":   "next week",
	"再来週":  "in 2 weeks",
	"先週":   "last week",
	"先々週":  "two weeks ago",
	"今月":   "this month",
	"来月":   "next month",
	"再来月":  "in 2 months",
	"先月":   "last month",
	"先々月":  "two months ago",
	"今年":   "this year",
	"来年":   "next year",
	"再来年":  "in 2 years",
	"去年":   "last year",
	"一昨年":  "two years ago",
}

// Translate returns the English phrase for a known Japanese relative-date
// word, or expr unchanged
func Translate(expr string) string {
	if en, ok := relativeWords[expr]; ok {
		return en
	}
	return expr
}

// RelativeWords returns the Japanese words the normalizer translates
func RelativeWords() []string {
	words := make([]string, 0, len(relativeWords))
	for w := range relativeWords {
		words = append(words, w)
	}
	return words
}

// Normalizer resolves date expressions against a reference time
type Normalizer struct {
	loc      *time.Location
	holidays *Holidays
}

// NewNormalizer creates a normalizer. A nil location means Asia/Tokyo.
func NewNormalizer(holidays *Holidays, loc *time.Location) *Normalizer {
	if loc == nil {
		loc = MustLoadLocation(DefaultTimezone)
	}
	if holidays == nil {
		holidays = NewHolidays()
	}
	return &Normalizer{loc: loc, holidays: holidays}
}

// MustLoadLocation loads a zone from the embedded database
func MustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Location returns the target zone
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize parses expr relative to ref. It returns false when the
// expression cannot be parsed; that is not an error.
func (n *Normalizer) Normalize(expr string, ref time.Time) (*model.NormalizedDate, bool) {
	query := strings.TrimSpace(norm.NFKC.String(expr))
	if query == "" {
		return nil, false
	}
	ref = ref.In(n.loc)

	t, matched, ok := resolveCalendar(stripSpaces(query), ref)
	if matched && !ok {
		return nil, false
	}
	if !matched {
		if t, ok = n.parse(Translate(query), ref); !ok {
			return nil, false
		}
	}

	t = t.In(n.loc)
	return &model.NormalizedDate{
		Original:   expr,
		ISO:        t.Format(time.RFC3339),
		IsFuture:   t.After(ref),
		IsRepeated: false,
		IsHoliday:  n.holidays.Contains(t.Format("2006-01-02")),
	}, true
}

func (n *Normalizer) parse(query string, ref time.Time) (time.Time, bool) {
	cfg := &dps.Configuration{
		CurrentTime:         ref,
		DefaultTimezone:     n.loc,
		PreferredDateSource: dps.Future,
		DefaultLanguages:    []string{"en", "ja"},
	}

	parsed, err := dps.Parse(cfg, query)
	if err != nil || parsed.IsZero() {
		return time.Time{}, false
	}
	return parsed.Time, true
}

// NormalizeAll normalizes each expression, dropping those that fail to parse
func (n *Normalizer) NormalizeAll(exprs []string, ref time.Time) []model.NormalizedDate {
	var out []model.NormalizedDate
	for _, expr := range exprs {
		if d, ok := n.Normalize(expr, ref); ok {
			out = append(out, *d)
		}
	}
	return out
}
