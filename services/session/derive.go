package session

import "findmyspot/models"

// Rules decides what "currently parked" means. The same rule drives both the
// dashboard view and the booking gate.
type Rules struct {
	// SameDayGrace keeps a session displayed as parked until the end of the
	// calendar day it was closed on.
	SameDayGrace bool
}

// DefaultRules applies the same-day grace window.
var DefaultRules = Rules{SameDayGrace: true}

// DeriveCurrentSession derives the session view with DefaultRules.
func DeriveCurrentSession(events []models.ParkingEvent, today string) models.SessionView {
	return DefaultRules.Derive(events, today)
}

// CanStartNewSession reports, with DefaultRules, whether a new session may be opened.
func CanStartNewSession(events []models.ParkingEvent, today string) bool {
	return DefaultRules.CanStartNewSession(events, today)
}

// Derive inspects only the last event (creation order) of events. today is the
// current calendar date formatted the same way event dates are written.
func (r Rules) Derive(events []models.ParkingEvent, today string) models.SessionView {
	if len(events) == 0 {
		return models.FreeView()
	}
	last := events[len(events)-1]
	if last.IsOpen() {
		return parkedView(last, true)
	}
	if r.SameDayGrace && today != "" && last.ClosingDate() == today {
		return parkedView(last, false)
	}
	return models.FreeView()
}

// CanStartNewSession is true iff the derived view is not parked.
func (r Rules) CanStartNewSession(events []models.ParkingEvent, today string) bool {
	return !r.Derive(events, today).IsParked
}

func parkedView(e models.ParkingEvent, open bool) models.SessionView {
	return models.SessionView{
		IsParked: true,
		TimeIn:   orNoValue(e.TimeIn),
		SlotNo:   orNoValue(e.SlotNo),
		EventID:  e.ID,
		Date:     e.DateIn,
		Open:     open,
	}
}

func orNoValue(s string) string {
	if s == "" {
		return models.NoValue
	}
	return s
}

// GroupByDate groups events by start date, keeping creation order within and
// across groups.
func GroupByDate(events []models.ParkingEvent) []models.EventGroup {
	var groups []models.EventGroup
	index := map[string]int{}
	for _, e := range events {
		date := orNoValue(e.DateIn)
		i, ok := index[date]
		if !ok {
			i = len(groups)
			index[date] = i
			groups = append(groups, models.EventGroup{Date: date})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}
