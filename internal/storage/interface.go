// Package storage defines the small key-value port behind which all
// durable local state sits. The session store and identity resolver only
// ever see this interface, so they test without a real database.
package storage

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}
