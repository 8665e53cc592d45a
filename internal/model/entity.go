package model

// Labels emitted by the upstream recognizer
const (
	LabelPerson = "Person"
	LabelAge    = "Age"
	LabelDate   = "DATE"
)

// PlaceLabels are the recognizer labels routed to the gazetteer, in the
// order they are visited
var PlaceLabels = []string{
	"GPE",
	"Province",
	"FAC",
	"City",
	"ORG",
	"GOE_Other",
	"Organization_Other",
	"station",
	"hospital",
	"tourist_spot",
}

// EntitySpan is a labeled substring produced by the recognizer
type EntitySpan struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Entities groups span texts by label, preserving the order spans were found
type Entities map[string][]string

// EntitiesFromSpans groups spans by label
func EntitiesFromSpans(spans []EntitySpan) Entities {
	entities := make(Entities)
	for _, span := range spans {
		entities.Add(span.Label, span.Text)
	}
	return entities
}

// Add appends a span text under label
func (e Entities) Add(label, text string) {
	e[label] = append(e[label], text)
}

// Get returns the spans under label (nil if none)
func (e Entities) Get(label string) []string {
	if e == nil {
		return nil
	}
	return e[label]
}

// Len returns the total number of spans across all labels
func (e Entities) Len() int {
	n := 0
	for _, spans := range e {
		n += len(spans)
	}
	return n
}
