package migrations

import "embed"

// JournalFS holds the event journal schema history.
//
//go:embed journal/*.sql
var JournalFS embed.FS
