package entity

// DischargeAnalysis is the structured explanation returned by the model.
// JSON tags match the declared response schema; the same shape is persisted
// verbatim into history.
type DischargeAnalysis struct {
	OverallSummary      string             `json:"overallSummary"`
	Slides              []ExplanationSlide `json:"slides"`
	DemographicInsights string             `json:"demographicInsights,omitempty"`
	Reminders           []Reminder         `json:"reminders,omitempty"`
	NearbyFollowUp      []NearbyPlace      `json:"nearbyFollowUp,omitempty"`
}

// ExplanationSlide is one topic-segmented explanation unit.
type ExplanationSlide struct {
	Topic         string `json:"topic"`
	Content       string `json:"content"`
	LaymanSummary string `json:"laymanSummary"`
}

// Reminder is a follow-up appointment or medication reminder extracted from
// the document under premium analysis. Date is either ISO-8601 or a
// descriptive string; the model decides.
type Reminder struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// NearbyPlace is a suggested follow-up care facility.
type NearbyPlace struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	URI     string `json:"uri"`
}

// Demographics is the premium patient context attached to a request.
type Demographics struct {
	Age      string
	Gender   string
	Location string
}

// GeoPoint is the patient's coordinates for location-grounded suggestions.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}
