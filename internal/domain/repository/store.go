package repository

import "context"

// Scope gives access to both storage scopes.
type Scope interface {
	Merchants() MerchantRepository
	Points() PointsRepository
}

// Store is the storage substrate. Reads outside a transaction observe committed state only.
type Store interface {
	Scope
	// WithinTransaction runs fn against a transactional scope. Writes made
	// through tx are committed together when fn returns nil and discarded otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Scope) error) error
	HealthCheck(ctx context.Context) error
}
