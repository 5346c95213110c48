package dtdl

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RealEstateCore/DTDL2MD/errors"
)

// DefaultExtensions are loaded when no extensions are configured.
var DefaultExtensions = []string{".json"}

// Discover expands input files and directories into a sorted, de-duplicated
// list of model files. Directories are walked recursively and filtered by
// extension (case-insensitive); explicitly named files are always included.
// Hidden directories such as .git are skipped.
func Discover(paths []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", root)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if wanted[strings.ToLower(filepath.Ext(p))] {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", root)
		}
	}

	sort.Strings(files)
	return files, nil
}
