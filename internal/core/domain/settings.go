package domain

import "time"

const unknownDescription = "Unknown"

// ProviderKind identifies a calendar backend.
type ProviderKind string

// Available provider kinds.
const (
	// ProviderOutlook is the desktop Outlook application via COM.
	ProviderOutlook ProviderKind = "outlook"

	// ProviderICS is an iCalendar file or URL.
	ProviderICS ProviderKind = "ics"

	// ProviderCalDAV is a CalDAV server.
	ProviderCalDAV ProviderKind = "caldav"

	// ProviderGoogle is Google Calendar.
	ProviderGoogle ProviderKind = "google"

	// ProviderMemory is an in-process calendar, used for demos and tests.
	ProviderMemory ProviderKind = "memory"
)

// IsValid returns true if the provider kind is recognised.
func (k ProviderKind) IsValid() bool {
	switch k {
	case ProviderOutlook, ProviderICS, ProviderCalDAV, ProviderGoogle, ProviderMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ProviderKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the provider.
func (k ProviderKind) Description() string {
	switch k {
	case ProviderOutlook:
		return "Microsoft Outlook (desktop)"
	case ProviderICS:
		return "iCalendar file"
	case ProviderCalDAV:
		return "CalDAV server"
	case ProviderGoogle:
		return "Google Calendar"
	case ProviderMemory:
		return "In-memory calendar"
	default:
		return unknownDescription
	}
}

// ICSSettings configures the iCalendar provider.
type ICSSettings struct {
	// Path is a local file path or an http(s) URL.
	Path string
}

// CalDAVSettings configures the CalDAV provider.
type CalDAVSettings struct {
	URL      string
	Username string
	Password string

	// Calendar is the calendar path. Empty selects the first calendar found.
	Calendar string
}

// GoogleSettings configures the Google Calendar provider.
type GoogleSettings struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

// CacheSettings configures the query result cache.
type CacheSettings struct {
	Enabled bool
	TTL     time.Duration
}

// LauncherSettings configures launcher plugin output.
type LauncherSettings struct {
	Icon      string
	ErrorIcon string
}

// Settings holds all user-configurable behaviour.
type Settings struct {
	Provider      ProviderKind
	DefaultPeriod Period
	IncludePast   bool

	Cache    CacheSettings
	ICS      ICSSettings
	CalDAV   CalDAVSettings
	Google   GoogleSettings
	Launcher LauncherSettings
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Provider:      ProviderOutlook,
		DefaultPeriod: PeriodFromNow,
		Cache: CacheSettings{
			TTL: 5 * time.Minute,
		},
		Google: GoogleSettings{
			CalendarID: "primary",
		},
		Launcher: LauncherSettings{
			Icon:      "assets/app.png",
			ErrorIcon: "assets/error.png",
		},
	}
}
