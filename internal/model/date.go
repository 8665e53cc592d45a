package model

// NormalizedDate is a relative date expression resolved against a reference time
type NormalizedDate struct {
	Original   string `json:"date"`        // Expression as written in the post
	ISO        string `json:"iso"`         // RFC 3339 timestamp in the target zone
	IsFuture   bool   `json:"is_future"`   // Strictly after the reference time
	IsRepeated bool   `json:"is_repeated"` // Recurrence detection is not implemented; always false
	IsHoliday  bool   `json:"in_holiday"`  // Date falls on a loaded public holiday
}
