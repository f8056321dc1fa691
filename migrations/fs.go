// Package migrations embeds the SQL schema migrations so the server runs as a
// standalone binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
