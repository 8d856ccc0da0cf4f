package common

import "time"

const (
	// Update check
	DefaultUpdateInterval = 6 * time.Hour
	DefaultUpdateTimeout  = 15 * time.Second

	// Font scanning
	MaxConcurrencyLimit = 8

	// File operation constants
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644

	// Event names
	EventUpdateChecking  = "update:checking"
	EventUpdateAvailable = "update:available"
	EventUpdateLatest    = "update:latest"
	EventOSTheme         = "os:theme"
	EventPrefsChanged    = "preferences:changed"
)

const (
	// Window geometry
	DefaultWindowWidth  = 1024
	DefaultWindowHeight = 768
	MinWindowWidth      = 960
	MinWindowHeight     = 640
)
