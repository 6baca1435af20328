package db

import "database/sql"

// DB wraps the shared sql handle so stores depend on one type
// instead of a raw *sql.DB.
type DB struct {
	*sql.DB
}
