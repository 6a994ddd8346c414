package sampler

import (
	"strings"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

var manifestNames = map[string]bool{
	"package.json":      true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"cargo.toml":        true,
	"go.mod":            true,
	"requirements.txt":  true,
	"pyproject.toml":    true,
	"pipfile":           true,
	"setup.py":          true,
	"foundry.toml":      true,
	"hardhat.config.js": true,
	"hardhat.config.ts": true,
	"truffle-config.js": true,
	"truffle.js":        true,
	"pom.xml":           true,
	"build.gradle":      true,
	"composer.json":     true,
	"gemfile":           true,
}

// DetectManifests returns the names of dependency manifests in a directory listing, in listing order
func DetectManifests(entries []models.DirEntry) []string {
	found := make([]string, 0)
	for _, e := range entries {
		if !e.IsDir() && manifestNames[strings.ToLower(e.Name)] {
			found = append(found, e.Name)
		}
	}
	return found
}

var changelogNames = map[string]bool{
	"changelog":     true,
	"changelog.md":  true,
	"changelog.rst": true,
	"changes":       true,
	"history.md":    true,
}

// DetectChangelogs returns the root files that look like a changelog, in listing order
func DetectChangelogs(entries []models.DirEntry) []string {
	found := make([]string, 0)
	for _, e := range entries {
		name := strings.ToLower(e.Name)
		if !e.IsDir() && (changelogNames[name] || strings.Contains(name, "changelog")) {
			found = append(found, e.Name)
		}
	}
	return found
}
