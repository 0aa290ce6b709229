package models

// Notification is a push message addressed to a single user.
type Notification struct {
	UserID string            `json:"userId"`
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// Notification types carried in the push data payload.
const (
	NotificationBooked   = "parking_booked"
	NotificationReceipt  = "parking_receipt"
	NotificationOverstay = "parking_overstay"
)
