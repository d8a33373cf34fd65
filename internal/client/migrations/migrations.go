// Package migrations embeds the goose SQL migrations for both storage
// backends: the local SQLite database and the Postgres record service.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SQLite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
