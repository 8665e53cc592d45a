package model

// PlaceCategory classifies a gazetteer entry or a resolved place mention
type PlaceCategory string

const (
	PlaceStation     PlaceCategory = "station"
	PlaceHospital    PlaceCategory = "hospital"
	PlaceSchool      PlaceCategory = "school"
	PlaceTouristSpot PlaceCategory = "tourist_spot"
	PlaceOther       PlaceCategory = "other"
	PlaceUnknown     PlaceCategory = "unknown" // Resolution only: no gazetteer match
)

// PlaceScale is the fixed size class of a gazetteer category
type PlaceScale string

const (
	ScaleSmall PlaceScale = "small"
	ScaleLarge PlaceScale = "large"
)

// ScaleFor returns the fixed scale of a category (large unless listed)
func ScaleFor(category PlaceCategory) PlaceScale {
	switch category {
	case PlaceSchool, PlaceHospital:
		return ScaleSmall
	default:
		return ScaleLarge
	}
}

// PlaceRecord is one gazetteer row
type PlaceRecord struct {
	Name     string        `json:"name"`
	Category PlaceCategory `json:"category"`
	Scale    PlaceScale    `json:"scale"`
}

// PlaceResolution is the outcome of a gazetteer lookup
type PlaceResolution struct {
	Category PlaceCategory `json:"category"`
}

// PlacePair couples a place mention with its resolution
type PlacePair struct {
	Text       string
	Resolution PlaceResolution
}
