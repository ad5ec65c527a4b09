package config

const (
	// DefaultDatabasePath is the local store for audit events, ratings and sessions.
	DefaultDatabasePath = "./booknet.db"

	// DefaultImportArchiveDir keeps uploaded import files.
	DefaultImportArchiveDir = "./imports"

	DefaultBackendURL = "http://localhost:3000/api"
)
