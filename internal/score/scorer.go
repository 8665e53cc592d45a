package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// DirectWeights are the points each direct identifier contributes per value
var DirectWeights = map[model.Category]float64{
	model.CategoryPhone:  35,
	model.CategoryEmail:  30,
	model.CategoryPerson: 15,
	model.CategoryPostal: 40,
	model.CategoryDate:   10,
	model.CategoryAge:    5,
}

// IndirectCategories are the quasi-identifiers counted by the indirect score.
// Dates are counted here and in the direct score.
var IndirectCategories = []model.Category{
	model.CategoryStation,
	model.CategoryHospital,
	model.CategoryTouristSpot,
	model.CategoryPlace,
	model.CategoryDate,
}

const maxPercent = 100

// Scorer calculates the two risk percentages and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Direct returns the weighted sum of direct identifiers, clamped to [0,100]
func (s *Scorer) Direct(result model.Result) float64 {
	total := 0.0
	for category, weight := range DirectWeights {
		total += float64(result.Count(category)) * weight
	}
	return clamp(total)
}

// Indirect returns floor(min(10 * n^1.5, 100)) where n is the number of
// quasi-identifiers; 0 when there are none
func (s *Scorer) Indirect(result model.Result) int {
	n := indirectCount(result)
	if n == 0 {
		return 0
	}
	return int(math.Floor(math.Min(10*math.Pow(float64(n), 1.5), maxPercent)))
}

// Calculate computes both percentages and the diagnostic signals explaining them
func (s *Scorer) Calculate(result model.Result) model.Score {
	direct := s.Direct(result)
	indirect := s.Indirect(result)

	signals := []model.Signal{
		s.directSignal(result, direct),
		s.indirectSignal(result, indirect),
	}

	if result.Count(model.CategoryDate) > 0 {
		signals = append(signals, s.dateSignal(result))
	}

	if n := result.Count(model.CategoryPlace); n > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalUnresolvedPlaces,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("%d place mention(s) not found in the gazetteer", n),
			Data: map[string]interface{}{
				"count":  n,
				"places": result[model.CategoryPlace].Strings(),
			},
		})
	}

	return model.Score{
		Direct:   direct,
		Indirect: indirect,
		Signals:  signals,
	}
}

func (s *Scorer) directSignal(result model.Result, direct float64) model.Signal {
	counts := make(map[string]int)
	contributions := make(map[string]float64)
	raw := 0.0
	for _, category := range sortedCategories(DirectWeights) {
		n := result.Count(category)
		if n == 0 {
			continue
		}
		counts[string(category)] = n
		contributions[string(category)] = float64(n) * DirectWeights[category]
		raw += float64(n) * DirectWeights[category]
	}

	return model.Signal{
		Type:        model.SignalDirectIdentifiers,
		Severity:    severityFor(direct),
		Description: fmt.Sprintf("Direct identifiability: %.0f%%", direct),
		Data: map[string]interface{}{
			"counts":        counts,
			"contributions": contributions,
			"raw":           raw,
			"score":         direct,
			"clamped":       raw > maxPercent,
			"formula":       "min(sum(count * weight), 100); weights phone 35, email 30, person 15, postal 40, date 10, age 5",
		},
	}
}

func (s *Scorer) indirectSignal(result model.Result, indirect int) model.Signal {
	counts := make(map[string]int)
	for _, category := range IndirectCategories {
		if n := result.Count(category); n > 0 {
			counts[string(category)] = n
		}
	}

	return model.Signal{
		Type:        model.SignalIndirectIdentifiers,
		Severity:    severityFor(float64(indirect)),
		Description: fmt.Sprintf("Indirect identifiability: %d%% from %d quasi-identifier(s)", indirect, indirectCount(result)),
		Data: map[string]interface{}{
			"counts":  counts,
			"n":       indirectCount(result),
			"score":   indirect,
			"formula": "n == 0 ? 0 : floor(min(10 * n^1.5, 100))",
		},
	}
}

func (s *Scorer) dateSignal(result model.Result) model.Signal {
	n := result.Count(model.CategoryDate)
	return model.Signal{
		Type:        model.SignalDateDualUse,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d date(s) counted in both direct and indirect scores", n),
		Data: map[string]interface{}{
			"count":           n,
			"direct_points":   float64(n) * DirectWeights[model.CategoryDate],
			"indirect_weight": n,
		},
	}
}

func indirectCount(result model.Result) int {
	n := 0
	for _, category := range IndirectCategories {
		n += result.Count(category)
	}
	return n
}

func severityFor(percent float64) model.SignalSeverity {
	switch {
	case percent >= 70:
		return model.SeverityCritical
	case percent >= 30:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(v, maxPercent))
}

func sortedCategories(weights map[model.Category]float64) []model.Category {
	keys := make([]model.Category, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
