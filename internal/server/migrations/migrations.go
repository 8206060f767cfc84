// Package migrations embeds the goose SQL migrations defining the backend
// schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
