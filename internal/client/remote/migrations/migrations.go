// Package migrations embeds the goose migrations for the shared Postgres
// schema: profiles, messages, and the insert trigger feeding the push
// channel.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
