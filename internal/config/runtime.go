package config

import (
	"os"
	"path/filepath"
)

func GetRuntimePath() string {
	return resolve(os.Getenv("YUKI_RUNTIME_PATH"))
}

func GetEnvPath() string {
	return filepath.Join(GetRuntimePath(), ".env")
}

func resolve(path string) string {
	if path == "" {
		path = ".yuki"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
