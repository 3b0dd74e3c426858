package media

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var audioExts = []string{".mp3", ".wav", ".flac", ".ogg"}

// IsSupportedExt reports whether files with this extension can be decoded.
func IsSupportedExt(ext string) bool {
	return slices.Contains(audioExts, strings.ToLower(ext))
}

// SupportedExtsList returns a human-readable list of decodable formats.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}

// ListAudio returns the names of decodable files directly inside dir,
// sorted by name.
func ListAudio(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}
