package memory

import (
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// Demo returns a provider with a small sample agenda around now.
func Demo(now time.Time) *Provider {
	day := domain.StartOfDay(now)
	at := func(days, hour, minute int) time.Time {
		return day.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	return New(
		domain.Meeting{
			Subject:           "Daily Standup",
			Start:             at(0, 9, 0),
			End:               at(0, 9, 15),
			Organizer:         "Alice Smith",
			RequiredAttendees: "Bob Jones; Carol White",
			Location:          "Teams",
			Body:              "Yesterday, today, blockers.",
			IsRecurring:       true,
		},
		domain.Meeting{
			Subject:           "Design Review",
			Start:             at(0, 14, 0),
			End:               at(0, 15, 0),
			Organizer:         "Bob Jones",
			RequiredAttendees: "Alice Smith; Dana Lee",
			Location:          "Room 4",
			Body:              "Walk through the new onboarding flow.",
		},
		domain.Meeting{
			Subject:           "Daily Standup",
			Start:             at(1, 9, 0),
			End:               at(1, 9, 15),
			Organizer:         "Alice Smith",
			RequiredAttendees: "Bob Jones; Carol White",
			Location:          "Teams",
			IsRecurring:       true,
		},
		domain.Meeting{
			Subject:           "1:1 Carol / Alice",
			Start:             at(1, 11, 30),
			End:               at(1, 12, 0),
			Organizer:         "Carol White",
			RequiredAttendees: "Alice Smith",
			Location:          "Cafe",
		},
		domain.Meeting{
			Subject:           "Quarterly Planning",
			Start:             at(7, 10, 0),
			End:               at(7, 12, 0),
			Organizer:         "Dana Lee",
			RequiredAttendees: "Alice Smith; Bob Jones; Carol White",
			Location:          "Board Room",
			Body:              "Bring roadmap proposals.",
		},
	)
}
