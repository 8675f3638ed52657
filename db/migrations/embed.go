package migrations

import "embed"

// FS holds one migration directory per supported dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
