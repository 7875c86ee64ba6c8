package config

import "path/filepath"

const (
	projectConfigDir  = ".gitci"
	projectConfigFile = "release-config.yml"
	legacyConfigFile  = "release-config.json"
)

// ProjectConfigDir returns the project-level config directory under root.
func ProjectConfigDir(root string) string {
	return filepath.Join(root, projectConfigDir)
}

// ProjectConfigPath returns the path to the project-level config file:
// .gitci/release-config.yml under root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, projectConfigDir, projectConfigFile)
}

// LegacyProjectConfigPath returns the path to the legacy JSON config file.
func LegacyProjectConfigPath(root string) string {
	return filepath.Join(root, projectConfigDir, legacyConfigFile)
}
