package userdata

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
)

// EnvConfigPath overrides the default userdata directory when set.
const EnvConfigPath = "OTVA_CONFIG_PATH"

const appDirName = "otva"

// ensureDir guarantees the existence of a directory at the specified path.
func ensureDir(path string) string {
	lo.Must0(FS().MkdirAll(path, os.ModePerm))
	return path
}

// Dir resolves the userdata directory: OTVA_CONFIG_PATH when set, otherwise
// the platform user config directory plus the application name.
func Dir() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, appDirName))
}

// SourcesPath is the persisted source registry file.
func SourcesPath() string {
	return filepath.Join(Dir(), "sources.json")
}

// PagesPath is the persisted per-category pagination file.
func PagesPath() string {
	return filepath.Join(Dir(), "pages.json")
}

// HistoryPath is the persisted watch history file.
func HistoryPath() string {
	return filepath.Join(Dir(), "history.json")
}
