package gazetteer

import (
	"strings"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// exactPriority is the category order for exact-name matches
var exactPriority = []model.PlaceCategory{
	model.PlaceStation,
	model.PlaceHospital,
	model.PlaceTouristSpot,
	model.PlaceSchool,
}

// partialMatch decides whether a record is a candidate for input
type partialMatch func(input, record string) bool

func stationMatch(input, record string) bool {
	return strings.HasSuffix(input, "駅") && strings.Contains(input, record)
}

func eitherContains(input, record string) bool {
	return strings.Contains(input, record) || strings.Contains(record, input)
}

func recordInInput(input, record string) bool {
	return strings.Contains(input, record)
}

// Resolver classifies place mentions against a gazetteer
type Resolver struct {
	gazetteer  *Gazetteer
	predicates map[model.PlaceCategory]partialMatch
	fallback   partialMatch
}

// NewResolver creates a resolver over g
func NewResolver(g *Gazetteer) *Resolver {
	if g == nil {
		g = New(nil)
	}
	return &Resolver{
		gazetteer: g,
		predicates: map[model.PlaceCategory]partialMatch{
			model.PlaceStation:     stationMatch,
			model.PlaceHospital:    eitherContains,
			model.PlaceTouristSpot: eitherContains,
			model.PlaceSchool:      eitherContains,
		},
		fallback: recordInInput,
	}
}

// Lookup resolves a mention: exact match by category priority, then the most
// similar partial candidate (first wins on ties), else unknown.
func (r *Resolver) Lookup(name string) model.PlaceResolution {
	name = normalizeName(name)
	if name == "" {
		return model.PlaceResolution{Category: model.PlaceUnknown}
	}

	for _, category := range exactPriority {
		if r.gazetteer.hasExact(name, category) {
			return model.PlaceResolution{Category: category}
		}
	}

	var best *model.PlaceRecord
	bestScore := -1.0
	for i := range r.gazetteer.records {
		rec := &r.gazetteer.records[i]
		if !r.matches(name, rec) {
			continue
		}
		if score := Ratio(name, rec.Name); score > bestScore {
			best = rec
			bestScore = score
		}
	}

	if best == nil {
		return model.PlaceResolution{Category: model.PlaceUnknown}
	}
	return model.PlaceResolution{Category: best.Category}
}

func (r *Resolver) matches(input string, rec *model.PlaceRecord) bool {
	match, ok := r.predicates[rec.Category]
	if !ok {
		match = r.fallback
	}
	return match(input, rec.Name)
}

// ResolveAll resolves each mention, keeping input order
func (r *Resolver) ResolveAll(names []string) []model.PlacePair {
	pairs := make([]model.PlacePair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, model.PlacePair{Text: name, Resolution: r.Lookup(name)})
	}
	return pairs
}
