package ner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simpleray/SNSCheckerBack-phone/internal/datenorm"
	"github.com/simpleray/SNSCheckerBack-phone/internal/extract"
	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// PhrasePattern is one EntityRuler-style entry: a literal phrase and its label.
// In YAML the pattern is either a string or a list of token maps whose
// TEXT/ORTH values are concatenated.
type PhrasePattern struct {
	Label   string
	Pattern string
}

type rawPattern struct {
	Label   string `yaml:"label"`
	Pattern any    `yaml:"pattern"`
	ID      string `yaml:"id,omitempty"`
}

// regexRule labels every match of a regular expression. whole is the same
// expression anchored at both ends.
type regexRule struct {
	label string
	re    *regexp.Regexp
	whole *regexp.Regexp
}

func newRule(label, expr string) regexRule {
	return regexRule{
		label: label,
		re:    regexp.MustCompile(expr),
		whole: regexp.MustCompile(`^(?:` + expr + `)$`),
	}
}

// span is a candidate entity in byte offsets of the normalized text
type span struct {
	start, end int
	label      string
	rank       int // lower wins ties: phrase patterns before regex rules
}

// RuleRecognizer is a deterministic recognizer built from phrase patterns and
// regex rules for ages, relative dates, honorific names, stations and hospitals
type RuleRecognizer struct {
	phrases []PhrasePattern
	rules   []regexRule
}

// NewRuleRecognizer loads phrase patterns from path. An empty path or a
// missing file leaves only the built-in rules.
func NewRuleRecognizer(path string) (*RuleRecognizer, error) {
	var phrases []PhrasePattern
	if path != "" {
		loaded, err := LoadPatterns(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("entity pattern file not found, using built-in rules only", "path", path)
		case err != nil:
			return nil, err
		default:
			phrases = loaded
			logger.Debug("entity patterns loaded", "path", path, "count", len(phrases))
		}
	}
	return NewRuleRecognizerWithPatterns(phrases), nil
}

// NewRuleRecognizerWithPatterns creates a recognizer from in-memory patterns
func NewRuleRecognizerWithPatterns(phrases []PhrasePattern) *RuleRecognizer {
	return &RuleRecognizer{
		phrases: phrases,
		rules:   builtinRules(),
	}
}

// LoadPatterns reads an EntityRuler-style YAML file
func LoadPatterns(path string) ([]PhrasePattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePatterns(data)
}

// ParsePatterns decodes EntityRuler-style YAML. Token patterns without
// TEXT or ORTH values are skipped.
func ParsePatterns(data []byte) ([]PhrasePattern, error) {
	var raw []rawPattern
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse entity patterns: %w", err)
	}

	var patterns []PhrasePattern
	for i, r := range raw {
		if r.Label == "" {
			return nil, fmt.Errorf("entity pattern %d: missing label", i)
		}
		phrase, ok := phraseOf(r.Pattern)
		if !ok || phrase == "" {
			continue
		}
		patterns = append(patterns, PhrasePattern{Label: r.Label, Pattern: extract.NormalizeText(phrase)})
	}
	return patterns, nil
}

func phraseOf(pattern any) (string, bool) {
	switch p := pattern.(type) {
	case string:
		return p, true
	case []any:
		var b strings.Builder
		for _, tok := range p {
			attrs, ok := tok.(map[string]any)
			if !ok {
				return "", false
			}
			text, ok := attrs["TEXT"].(string)
			if !ok {
				text, ok = attrs["ORTH"].(string)
			}
			if !ok {
				return "", false
			}
			b.WriteString(text)
		}
		return b.String(), true
	default:
		return "", false
	}
}

func builtinRules() []regexRule {
	words := datenorm.RelativeWords()
	// Longest first so 一昨日 wins over 昨日 and 再来週 over 来週
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	return []regexRule{
		newRule(model.LabelAge, `\d{1,3}(?:[-〜~]\d{1,3})?(?:歳|才)|\d{1,2}0代`),
		newRule(model.LabelDate, strings.Join(quoted, "|")),
		newRule(model.LabelDate, `(?:\d{4}年)?\d{1,2}月\d{1,2}日`),
		newRule(model.LabelPerson, `[\p{Han}\p{Katakana}ー]{1,6}(?:さん|くん|ちゃん|様)`),
		newRule("station", `[\p{Han}\p{Katakana}ー]{1,10}駅`),
		newRule("hospital", `[\p{Han}\p{Katakana}ー]{1,15}病院`),
	}
}

// Name returns the backend name
func (r *RuleRecognizer) Name() string {
	return "rules"
}

// Recognize labels phrase and rule matches. Overlaps resolve to the longest
// span, then the earliest, then phrase patterns over rules.
func (r *RuleRecognizer) Recognize(ctx context.Context, text string) (model.Entities, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text = extract.NormalizeText(text)
	entities := make(model.Entities)
	if strings.TrimSpace(text) == "" {
		return entities, nil
	}

	var candidates []span
	for _, p := range r.phrases {
		for offset := 0; ; {
			i := strings.Index(text[offset:], p.Pattern)
			if i < 0 {
				break
			}
			start := offset + i
			candidates = append(candidates, span{start: start, end: start + len(p.Pattern), label: p.Label, rank: 0})
			offset = start + len(p.Pattern)
		}
	}

	type ruleMatch struct {
		span
		rule regexRule
	}
	var dates []span
	var matches []ruleMatch
	for _, rule := range r.rules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			s := span{start: loc[0], end: loc[1], label: rule.label, rank: 1}
			if rule.label == model.LabelDate {
				dates = append(dates, s)
			}
			matches = append(matches, ruleMatch{span: s, rule: rule})
		}
	}
	for _, m := range matches {
		if m.label != model.LabelDate {
			m.span = yieldToDates(text, m.span, m.rule, dates)
		}
		candidates = append(candidates, m.span)
	}

	for _, s := range filterSpans(candidates) {
		entities.Add(s.label, text[s.start:s.end])
	}
	return entities, nil
}

// yieldToDates drops a leading date from a name, station or hospital span
// ("今日田中さん", "20日渋谷駅") when the rest still matches the rule on its own
func yieldToDates(text string, s span, rule regexRule, dates []span) span {
	for _, d := range dates {
		if d.start <= s.start && s.start < d.end && d.end < s.end && rule.whole.MatchString(text[d.end:s.end]) {
			s.start = d.end
		}
	}
	return s
}

// filterSpans keeps non-overlapping spans, preferring longer ones, and
// returns them in text order
func filterSpans(spans []span) []span {
	sort.SliceStable(spans, func(i, j int) bool {
		li, lj := spans[i].end-spans[i].start, spans[j].end-spans[j].start
		if li != lj {
			return li > lj
		}
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].rank < spans[j].rank
	})

	var kept []span
	for _, s := range spans {
		overlaps := false
		for _, k := range kept {
			if s.start < k.end && k.start < s.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, s)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	return kept
}
