// Package migrations embeds the ordering-service schema for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
