// Package configs holds the files the installer lays out in the runtime directory.
package configs

import "embed"

//go:embed OWNER.md USER.md
var FS embed.FS

// Prompts are the persona prompt files, read by name from FS.
var Prompts = []string{"OWNER.md", "USER.md"}
