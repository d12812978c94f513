package domain

// KVStore is durable key/value storage scoped to this client instance.
// Reads and writes are synchronous. Failures are *StorageError.
type KVStore interface {
	// Get returns the value for key, or ok=false if absent
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Remove deletes key; removing an absent key is not an error
	Remove(key string) error

	Close() error
}

// SessionObserver is notified whenever the authentication state changes.
type SessionObserver interface {
	OnSessionChange(s Session)
}

// SessionObserverFunc adapts a function to SessionObserver
type SessionObserverFunc func(s Session)

func (f SessionObserverFunc) OnSessionChange(s Session) { f(s) }
