package db

import "database/sql"

// DB wraps the raw sql.DB so callers depend on this package rather than
// database/sql directly.
type DB struct {
	*sql.DB
}
