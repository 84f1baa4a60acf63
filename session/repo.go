package session

// Repo is the durable key-value storage backing the session store, the
// process-local analogue of the browser's localStorage.
type Repo interface {
	// Get retrieves a value by key. The second return is false when the key
	// is absent; absence is not an error.
	Get(key string) (string, bool, error)

	// Set creates or replaces the value for a key
	Set(key, value string) error

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(key string) error
}
