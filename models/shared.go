package models

// OverstayPayload is the body of a delayed overstay reminder task.
type OverstayPayload struct {
	UID      string `json:"uid"`
	EventID  string `json:"eventId"`
	FireDate string `json:"fireDate"` // RFC3339, informational
}
