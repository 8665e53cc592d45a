package aggregate

import (
	"strings"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// ageRangeMarkers exclude spans such as "20-30" or "20〜30" that describe a range
var ageRangeMarkers = []string{"-", "〜", "~", "–"}

// Input is everything the aggregator combines into a result
type Input struct {
	Entities model.Entities
	Contacts model.Contacts
	Dates    []model.NormalizedDate
	Places   []model.PlacePair
}

// Aggregator builds the sparse category map
type Aggregator struct{}

// NewAggregator creates a new aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Build combines recognizer spans, contacts, dates and resolved places.
// Categories with no values are omitted.
func (a *Aggregator) Build(in Input) model.Result {
	result := make(model.Result)

	result.Set(model.CategoryPerson, model.StringBucket(in.Entities.Get(model.LabelPerson)))
	result.Set(model.CategoryAge, model.StringBucket(validAges(in.Entities.Get(model.LabelAge))))
	result.Set(model.CategoryDate, model.DateBucket(in.Dates))

	result.Set(model.CategoryEmail, model.StringBucket(in.Contacts.Emails))
	result.Set(model.CategoryPhone, model.StringBucket(in.Contacts.Phones))
	result.Set(model.CategoryPostal, model.StringBucket(in.Contacts.Postals))

	for category, texts := range partitionPlaces(in.Places) {
		result.Set(category, model.StringBucket(texts))
	}

	return result
}

func validAges(ages []string) []string {
	var valid []string
	for _, age := range ages {
		if !isAgeRange(age) {
			valid = append(valid, age)
		}
	}
	return valid
}

func isAgeRange(age string) bool {
	for _, marker := range ageRangeMarkers {
		if strings.Contains(age, marker) {
			return true
		}
	}
	return false
}

// partitionPlaces groups mention texts by result category, keeping order.
// School resolutions have no result category and are dropped.
func partitionPlaces(pairs []model.PlacePair) map[model.Category][]string {
	groups := make(map[model.Category][]string)
	for _, pair := range pairs {
		category, ok := placeCategory(pair.Resolution.Category)
		if !ok {
			continue
		}
		groups[category] = append(groups[category], pair.Text)
	}
	return groups
}

func placeCategory(c model.PlaceCategory) (model.Category, bool) {
	switch c {
	case model.PlaceStation:
		return model.CategoryStation, true
	case model.PlaceHospital:
		return model.CategoryHospital, true
	case model.PlaceTouristSpot:
		return model.CategoryTouristSpot, true
	case model.PlaceUnknown, model.PlaceOther:
		return model.CategoryPlace, true
	default:
		return "", false
	}
}
