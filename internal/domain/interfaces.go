package domain

// Catalog is the read-only index of titles.
// All methods return instantly and never block.
type Catalog interface {
	// Lookup returns the title with id, if the catalog has it
	Lookup(id string) (Movie, bool)

	// All returns every title in catalog order
	All() []Movie
}

// Store persists documents under the logical keys current-user,
// profiles and the legacy single-list watchlist.
type Store interface {
	// === Profiles ===
	// GetProfiles returns (nil, false, nil) when absent and an error when
	// the stored document cannot be decoded.
	GetProfiles() (ProfileSet, bool, error)
	SaveProfiles(profiles ProfileSet) error

	// === Account ===
	GetCurrentUser() (*User, error)
	SaveCurrentUser(user User) error
	ClearCurrentUser() error

	// === Legacy ===
	GetLegacyWatchlist() ([]string, bool)

	Close() error
}

// Notifier receives fire-and-forget user notifications.
type Notifier interface {
	Notify(message string, kind NotificationKind)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string, kind NotificationKind)

func (f NotifierFunc) Notify(message string, kind NotificationKind) { f(message, kind) }

// NoOpNotifier discards notifications (for testing/batch operations).
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(string, NotificationKind) {}
