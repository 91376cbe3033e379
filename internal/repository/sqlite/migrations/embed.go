// Package migrations holds the embedded schema migration files and the
// runner that applies them.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
