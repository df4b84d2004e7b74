// Package config resolves the on-disk locations used by bootlog.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetDataDir resolves the base directory for all bootlog storage. It checks
// BOOTLOG_DIR first, then XDG paths, and finally falls back to the user's
// home directory.
func GetDataDir() string {
	if explicit := os.Getenv("BOOTLOG_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "bootlog")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "bootlog")
}

// GetIdentityDBPath returns the absolute path to the central identity store.
func GetIdentityDBPath() string {
	return filepath.Join(GetDataDir(), "identity.db")
}

// GetDatasetsDir returns the directory that holds one store file per dataset.
func GetDatasetsDir() string {
	return filepath.Join(GetDataDir(), "datasets")
}
