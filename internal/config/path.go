package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns ~/.config/darkmode-scheduler/settings.json (or CWD fallback).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "darkmode-scheduler", "settings.json")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "darkmode-scheduler-settings.json")
}

// IsSQLitePath reports whether path looks like a SQLite database.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
