package models

// NoValue is what the dashboard shows for a field with no active session.
const NoValue = "--"

// SessionView is the derived "am I parked" answer shown on the dashboard.
type SessionView struct {
	IsParked bool   `json:"isParked"`
	TimeIn   string `json:"timeIn"`
	SlotNo   string `json:"slotNo"`
	EventID  string `json:"eventId,omitempty"`
	Date     string `json:"date,omitempty"`
	// Open is false while a closed session is still displayed as parked.
	Open bool `json:"open"`
}

// FreeView is the view of a user with no current session.
func FreeView() SessionView {
	return SessionView{IsParked: false, TimeIn: NoValue, SlotNo: NoValue}
}
