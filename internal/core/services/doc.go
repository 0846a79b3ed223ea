// Package services holds the agenda's core logic: resolving periods and
// custom ranges to a DateRange, querying a calendar provider, and applying
// the subject, organizer, attendee and past-meeting filters.
//
// Settings are read and written through SettingsService, which maps dotted
// keys onto a driven ConfigStore.
package services
