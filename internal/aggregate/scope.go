package aggregate

import (
	"fmt"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// ParseScope validates a configured normalization scope. Empty means all.
func ParseScope(s string) (model.NormalizeScope, error) {
	switch model.NormalizeScope(s) {
	case "", model.ScopeAll:
		return model.ScopeAll, nil
	case model.ScopeFirst:
		return model.ScopeFirst, nil
	default:
		return "", fmt.Errorf("unknown normalize scope %q (want %q or %q)", s, model.ScopeAll, model.ScopeFirst)
	}
}

// DateSpans returns the DATE spans to normalize
func DateSpans(entities model.Entities, scope model.NormalizeScope) []string {
	spans := entities.Get(model.LabelDate)
	if scope == model.ScopeFirst && len(spans) > 1 {
		return spans[:1]
	}
	return spans
}

// PlaceSpans returns the place spans to resolve, visiting place labels in
// their fixed order. In first scope only the first span of the first label
// that has spans is returned.
func PlaceSpans(entities model.Entities, scope model.NormalizeScope) []string {
	var spans []string
	for _, label := range model.PlaceLabels {
		found := entities.Get(label)
		if len(found) == 0 {
			continue
		}
		if scope == model.ScopeFirst {
			return []string{found[0]}
		}
		spans = append(spans, found...)
	}
	return spans
}
