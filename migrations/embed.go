// Package migrations хранит SQL-схему БД, которую накатывает goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
