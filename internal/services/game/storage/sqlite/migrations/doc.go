// Package migrations embeds SQL migration scripts used by the SQLite journal.
package migrations
