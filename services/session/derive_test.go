package session

import (
	"testing"

	"findmyspot/models"
)

const today = "Mar 23, 2025"

func closedOn(id, dateIn, dateOut string) models.ParkingEvent {
	return models.ParkingEvent{ID: id, TimeIn: "8:00 AM", DateIn: dateIn, TimeOut: "9:00 AM", DateOut: dateOut, SlotNo: "11"}
}

func TestDeriveEmptyIsFree(t *testing.T) {
	for _, events := range [][]models.ParkingEvent{nil, {}} {
		view := DeriveCurrentSession(events, today)
		if view.IsParked {
			t.Fatalf("expected free view for %v, got %+v", events, view)
		}
		if view.TimeIn != models.NoValue || view.SlotNo != models.NoValue {
			t.Errorf("expected placeholders, got %+v", view)
		}
	}
}

func TestDeriveLastOpenIsParked(t *testing.T) {
	events := []models.ParkingEvent{
		closedOn("a", "Mar 20, 2025", "Mar 20, 2025"),
		{ID: "b", TimeIn: "10:15 AM", DateIn: "Mar 21, 2025", SlotNo: "7"},
	}
	view := DeriveCurrentSession(events, today)
	if !view.IsParked || !view.Open {
		t.Fatalf("expected open parked view, got %+v", view)
	}
	if view.TimeIn != "10:15 AM" || view.SlotNo != "7" || view.EventID != "b" {
		t.Errorf("view does not reflect last event: %+v", view)
	}
}

func TestDeriveOnlyLastEventMatters(t *testing.T) {
	// An open event that is not last does not make the user parked.
	events := []models.ParkingEvent{
		{ID: "a", TimeIn: "7:00 AM", DateIn: "Mar 1, 2025", SlotNo: "11"},
		closedOn("b", "Mar 2, 2025", "Mar 2, 2025"),
	}
	if DeriveCurrentSession(events, today).IsParked {
		t.Fatal("expected free view when last event closed on another day")
	}
}

func TestDeriveClosedOnOtherDayIsFree(t *testing.T) {
	cases := []models.ParkingEvent{
		closedOn("a", "Mar 22, 2025", "Mar 22, 2025"),
		closedOn("b", "Mar 23, 2025", "Mar 24, 2025"),
		closedOn("c", "Mar 22, 2025", ""),
	}
	for _, e := range cases {
		if view := DeriveCurrentSession([]models.ParkingEvent{e}, today); view.IsParked {
			t.Errorf("event %s: expected free, got %+v", e.ID, view)
		}
	}
}

func TestDeriveClosedTodayKeepsGrace(t *testing.T) {
	cases := []models.ParkingEvent{
		closedOn("a", "Mar 23, 2025", "Mar 23, 2025"),
		closedOn("b", "Mar 22, 2025", "Mar 23, 2025"),
		closedOn("c", "Mar 23, 2025", ""),
	}
	for _, e := range cases {
		view := DeriveCurrentSession([]models.ParkingEvent{e}, today)
		if !view.IsParked || view.Open {
			t.Errorf("event %s: expected parked (closed) view, got %+v", e.ID, view)
		}
		if CanStartNewSession([]models.ParkingEvent{e}, today) {
			t.Errorf("event %s: booking must be gated by the same rule", e.ID)
		}
	}
}

func TestDeriveWithoutGrace(t *testing.T) {
	rules := Rules{SameDayGrace: false}
	events := []models.ParkingEvent{closedOn("a", today, today)}
	if rules.Derive(events, today).IsParked {
		t.Fatal("closed session must not count as parked without grace")
	}
	if !rules.CanStartNewSession(events, today) {
		t.Fatal("expected new session to be allowed")
	}
}

func TestDeriveMissingFieldsUsePlaceholder(t *testing.T) {
	view := DeriveCurrentSession([]models.ParkingEvent{{ID: "a", DateIn: today}}, today)
	if !view.IsParked || view.TimeIn != models.NoValue || view.SlotNo != models.NoValue {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestCanStartNewSessionMirrorsDerive(t *testing.T) {
	sequences := [][]models.ParkingEvent{
		nil,
		{{ID: "a", TimeIn: "1:00 PM", DateIn: today}},
		{closedOn("a", today, today)},
		{closedOn("a", "Jan 1, 2025", "Jan 1, 2025")},
	}
	for i, events := range sequences {
		want := !DeriveCurrentSession(events, today).IsParked
		if got := CanStartNewSession(events, today); got != want {
			t.Errorf("sequence %d: CanStartNewSession=%v, want %v", i, got, want)
		}
	}
}

func TestGroupByDate(t *testing.T) {
	events := []models.ParkingEvent{
		closedOn("a", "Mar 1, 2025", "Mar 1, 2025"),
		closedOn("b", "Mar 1, 2025", "Mar 1, 2025"),
		closedOn("c", "Mar 2, 2025", "Mar 2, 2025"),
		{ID: "d"},
	}
	groups := GroupByDate(events)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Date != "Mar 1, 2025" || len(groups[0].Events) != 2 || groups[0].Events[1].ID != "b" {
		t.Errorf("unexpected first group %+v", groups[0])
	}
	if groups[2].Date != models.NoValue {
		t.Errorf("undated events should group under %q, got %q", models.NoValue, groups[2].Date)
	}
}
