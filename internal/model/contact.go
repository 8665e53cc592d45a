package model

// ContactKind classifies a regex-detected contact identifier
type ContactKind string

const (
	ContactEmail  ContactKind = "email"
	ContactPhone  ContactKind = "phone"
	ContactPostal ContactKind = "postal"
)

// ContactMatch is a single contact identifier found in raw text
type ContactMatch struct {
	Kind  ContactKind `json:"kind"`
	Value string      `json:"value"`
}

// Contacts holds every contact identifier found in one text, grouped by kind
type Contacts struct {
	Emails  []string `json:"emails,omitempty"`
	Phones  []string `json:"phones,omitempty"`
	Postals []string `json:"postals,omitempty"`
}

// IsEmpty reports whether nothing was found
func (c Contacts) IsEmpty() bool {
	return len(c.Emails) == 0 && len(c.Phones) == 0 && len(c.Postals) == 0
}

// Matches flattens the contacts into a list of matches (emails, phones, postals)
func (c Contacts) Matches() []ContactMatch {
	var matches []ContactMatch
	for _, v := range c.Emails {
		matches = append(matches, ContactMatch{Kind: ContactEmail, Value: v})
	}
	for _, v := range c.Phones {
		matches = append(matches, ContactMatch{Kind: ContactPhone, Value: v})
	}
	for _, v := range c.Postals {
		matches = append(matches, ContactMatch{Kind: ContactPostal, Value: v})
	}
	return matches
}
