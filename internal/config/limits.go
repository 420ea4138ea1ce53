package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxEntityNameLength is the maximum length for holding, company and
	// department names. Same as folder names for consistency.
	MaxEntityNameLength = 255
)
