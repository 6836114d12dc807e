package repository

import "context"

// FormStoreRepository defines the interface for the key/value form state
// store. The in-memory document stays authoritative for the session; this
// store only has to survive a reload.
type FormStoreRepository interface {
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// List returns every stored key/value pair.
	List(ctx context.Context) (map[string]string, error)
}
