// Package localmigrations holds the schema of the local SQLite sector store.
package localmigrations

import "embed"

//go:embed *.sql
var FS embed.FS
