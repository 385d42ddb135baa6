package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.genequery/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".genequery", "logs")
	}
	return filepath.Join(home, ".genequery", "logs")
}

// DefaultLogPath returns the default service log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "genequery.log")
}
