package driven

// ConfigStore persists settings under dotted keys such as
// "provider" or "caldav.url".
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns key as a string, or "" when unset or not a string.
	GetString(key string) string

	// GetInt returns key as an int, or 0.
	GetInt(key string) int

	// GetBool returns key as a bool, or false.
	GetBool(key string) bool

	// Set stores value under key and writes the file.
	Set(key string, value any) error

	// Load (re)reads the backing file.
	Load() error

	// Path returns the backing file path.
	Path() string
}
