package trip

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"wayfare/internal/types"
)

const calendarProductID = "-//wayfare//trip export//EN"

// ExportCalendar renders the trip as an iCalendar document with one all-day event
// spanning the trip dates. The itinerary is listed in the event description.
func (s *Service) ExportCalendar(ctx context.Context, caller, tripID types.ID) (string, error) {
	t, err := s.requireMember(ctx, caller, tripID)
	if err != nil {
		return "", err
	}
	if t.StartDate.IsZero() {
		return "", fmt.Errorf("%w: trip has no start date", ErrBadRequest)
	}
	items, err := s.store.ListItems(ctx, tripID)
	if err != nil {
		return "", err
	}
	return renderCalendar(t, items, s.now().UTC()), nil
}

func renderCalendar(t *Trip, items []ItineraryItem, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(t.TripName)

	event := cal.AddEvent(string(t.ID) + "@wayfare")
	event.SetDtStampTime(stamp)
	event.SetCreatedTime(t.CreatedAt)
	event.SetSummary(t.TripName)
	if t.Destination != "" {
		event.SetLocation(t.Destination)
	}

	end := t.EndDate
	if end.IsZero() {
		end = t.StartDate
	}
	event.SetAllDayStartAt(t.StartDate.Time)
	// DTEND is exclusive for all-day events.
	event.SetAllDayEndAt(end.AddDate(0, 0, 1))
	event.SetDescription(describe(t, items))

	return cal.Serialize()
}

func describe(t *Trip, items []ItineraryItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From %s", t.Origin)
	if t.Destination != "" {
		fmt.Fprintf(&b, " to %s", t.Destination)
	}
	fmt.Fprintf(&b, ", %d traveler(s), budget $%.2f", t.Travelers, t.Budget)
	if len(items) == 0 {
		return b.String()
	}
	b.WriteString("\n\nItinerary:")
	var total float64
	for _, it := range items {
		fmt.Fprintf(&b, "\n- [%s] %s", it.Type, it.Title)
		if it.Subtitle != "" {
			fmt.Fprintf(&b, " (%s)", it.Subtitle)
		}
		fmt.Fprintf(&b, " $%.2f", it.Price)
		total += it.Price
	}
	fmt.Fprintf(&b, "\n\nSaved total: $%.2f", total)
	return b.String()
}
