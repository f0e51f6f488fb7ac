package presets

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
)

// The file extensions a config can have, in the order they are probed.
var ConfigExtensions = []string{".json", ".yaml", ".yml"}

// Resolves the name of a preset to the path of the embedded file.
// A name without extension is probed with all config extensions.
func ResolvePresetPath(name string) (string, error) {
	presetPath := path.Join("configs", name)
	if path.Ext(presetPath) != "" {
		if _, err := fs.Stat(Presets, presetPath); err != nil {
			return "", fmt.Errorf("preset '%s' not found: %w", name, err)
		}
		return presetPath, nil
	}

	dirEntries, err := Presets.ReadDir(path.Dir(presetPath))
	if err != nil {
		return "", err
	}
	foundFile, found := SearchConfigFileFromDirEntries(path.Base(presetPath), dirEntries)
	if !found {
		return "", fmt.Errorf("preset '%s' not found", name)
	}
	return path.Join(path.Dir(presetPath), foundFile), nil
}

// Reads the content of the given preset.
func ReadPreset(name string) ([]byte, string, error) {
	presetPath, err := ResolvePresetPath(name)
	if err != nil {
		return nil, "", err
	}
	content, err := Presets.ReadFile(presetPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed reading preset '%s': %w", presetPath, err)
	}
	return content, presetPath, nil
}

// Searches the entries for a file with the given base name and one of the config extensions.
func SearchConfigFileFromDirEntries(baseName string, dirEntries []fs.DirEntry) (string, bool) {
	for _, ext := range ConfigExtensions {
		idx := slices.IndexFunc(dirEntries, func(entry fs.DirEntry) bool {
			return !entry.IsDir() && entry.Name() == baseName+ext
		})
		if idx >= 0 {
			return dirEntries[idx].Name(), true
		}
	}
	return "", false
}
