// Package wellflow embeds the database migrations shipped with the binary.
package wellflow

import "embed"

// Migrations holds the goose SQL migrations under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
