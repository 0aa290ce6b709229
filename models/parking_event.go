// File: models/parking_event.go
package models

import "fmt"

// ParkingEvent is one parking attempt, stored at notifications/{uid}/{id}.
// JSON names match what the mobile app reads and writes.
type ParkingEvent struct {
	ID          string `json:"id,omitempty"`
	TimeIn      string `json:"timeIn,omitempty"`
	DateIn      string `json:"date,omitempty"`
	TimeOut     string `json:"timeOut,omitempty"`
	DateOut     string `json:"dateOut,omitempty"`
	SlotNo      string `json:"slotNo,omitempty"`
	VehicleType string `json:"vehicleType,omitempty"`
	PlateNumber string `json:"plateNumber,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
	Rating      int    `json:"rating,omitempty"`

	// Feed text rendered by the notification screen.
	Title          string `json:"title,omitempty"`
	Message        string `json:"message,omitempty"`
	ReceiptTitle   string `json:"title2,omitempty"`
	ReceiptMessage string `json:"message2,omitempty"`

	// RFC3339 instants; the display fields above are localized strings.
	Timestamp string `json:"timestamp,omitempty"`
	ClosedAt  string `json:"closedAt,omitempty"`
}

// IsOpen reports whether the session has not been closed yet.
func (e ParkingEvent) IsOpen() bool {
	return e.TimeOut == ""
}

// ClosingDate is the calendar date the session closed on, falling back to the
// date it started for records written without a dateOut.
func (e ParkingEvent) ClosingDate() string {
	if e.DateOut != "" {
		return e.DateOut
	}
	return e.DateIn
}

// Rated reports whether feedback or a rating was already attached.
func (e ParkingEvent) Rated() bool {
	return e.Rating != 0 || e.Feedback != ""
}

// Validate checks the invariants a record must satisfy to be trusted.
func (e ParkingEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: parking event without id", ErrInvalidRecord)
	}
	if e.Rating < 0 || e.Rating > MaxRating {
		return fmt.Errorf("%w: event %s has rating %d", ErrInvalidRecord, e.ID, e.Rating)
	}
	if e.IsOpen() && (e.Rated() || e.DateOut != "") {
		return fmt.Errorf("%w: open event %s carries close-only fields", ErrInvalidRecord, e.ID)
	}
	return nil
}

// MaxRating is the highest star rating a driver can give.
const MaxRating = 5

// EventGroup is a run of events sharing the same start date, in creation order.
type EventGroup struct {
	Date   string         `json:"date"`
	Events []ParkingEvent `json:"events"`
}
