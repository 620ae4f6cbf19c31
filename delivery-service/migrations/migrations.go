// Package migrations embeds the delivery-service schema for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
