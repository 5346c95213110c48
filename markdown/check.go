package markdown

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/RealEstateCore/DTDL2MD/errors"
)

// CheckResult holds the result of comparing a fresh run with documents on disk.
type CheckResult struct {
	// Differs lists documents whose content changed
	Differs []string `json:"differs,omitempty"`
	// Missing lists documents the run would create
	Missing []string `json:"missing,omitempty"`
	// Stale lists markdown files on disk the run would not produce
	Stale []string `json:"stale,omitempty"`
}

// UpToDate reports whether nothing differs.
func (r *CheckResult) UpToDate() bool {
	return len(r.Differs) == 0 && len(r.Missing) == 0 && len(r.Stale) == 0
}

// CompareDirectories compares the documents generated into generatedDir with
// those in existingDir. Paths in the result are slash-separated and relative.
// A missing existingDir reports every generated document as missing.
func CompareDirectories(generatedDir, existingDir string) (*CheckResult, error) {
	generated, err := listDocuments(generatedDir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", generatedDir)
	}
	existing, err := listDocuments(existingDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "list %s", existingDir)
	}

	result := &CheckResult{}
	for rel := range generated {
		if !existing[rel] {
			result.Missing = append(result.Missing, rel)
			continue
		}
		different, err := filesAreDifferent(
			filepath.Join(generatedDir, filepath.FromSlash(rel)),
			filepath.Join(existingDir, filepath.FromSlash(rel)),
		)
		if err != nil {
			return nil, err
		}
		if different {
			result.Differs = append(result.Differs, rel)
		}
	}
	for rel := range existing {
		if !generated[rel] {
			result.Stale = append(result.Stale, rel)
		}
	}

	sort.Strings(result.Differs)
	sort.Strings(result.Missing)
	sort.Strings(result.Stale)
	return result, nil
}

// listDocuments returns the relative slash paths of every .md file under dir.
func listDocuments(dir string) (map[string]bool, error) {
	if _, err := os.Stat(dir); err != nil {
		return map[string]bool{}, err
	}
	docs := make(map[string]bool)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if filepath.Ext(p) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		docs[filepath.ToSlash(rel)] = true
		return nil
	})
	return docs, err
}

// filesAreDifferent compares two files byte for byte.
func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}
	return !bytes.Equal(content1, content2), nil
}
