package dtdl

// Ontology source resolution.
// Uses hashicorp/go-getter for flexible source handling including:
//   - Local files and directories
//   - Git URLs (https, ssh, git://)
//   - GitHub/GitLab shorthand (github.com/org/ontology)
//   - Archives (zip, tar.gz) with auto-extraction

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
)

// Source is a resolved input: a local file or directory.
type Source struct {
	// LocalPath is the original path, or the fetch directory for remote inputs
	LocalPath string
	// OriginalInput is the input as given
	OriginalInput string
	// Fetched indicates the input was downloaded
	Fetched bool
	cleanup func()
}

// Cleanup removes any temporary resources created for this source.
// Safe to call multiple times.
func (s *Source) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// ResolveSource resolves an input to a local path using go-getter detection.
// Local paths are returned as absolute paths without copying. Remote sources
// are fetched into a temporary directory that Cleanup removes.
func ResolveSource(ctx context.Context, input string, log *zap.SugaredLogger) (*Source, error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	// go-getter treats "~/x" as a path relative to pwd, so expand it first
	expanded, err := expandHome(input)
	if err != nil {
		return nil, err
	}

	detected, err := getter.Detect(expanded, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to detect source type of %s", input)
	}
	log.Debugw("go-getter detected source", logger.FieldSource, input, "detected", detected)

	parsed, err := url.Parse(detected)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse detected URL %s", detected)
	}
	if isRemote(parsed) {
		return fetch(ctx, input, detected, log)
	}

	localPath := expanded
	if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(pwd, localPath)
	}
	if _, err := os.Stat(localPath); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "input %s", input),
			"pass a DTDL file, a directory of DTDL files or a remote source such as github.com/org/repo")
	}
	return &Source{LocalPath: localPath, OriginalInput: input, cleanup: func() {}}, nil
}

func expandHome(input string) (string, error) {
	if input != "~" && !strings.HasPrefix(input, "~/") {
		return input, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to expand home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(input[1:], "/")), nil
}

func isRemote(detected *url.URL) bool {
	return detected.Scheme != "" && detected.Scheme != "file"
}

// fetch downloads a remote source with go-getter.
func fetch(ctx context.Context, input, detected string, log *zap.SugaredLogger) (*Source, error) {
	tempDir, err := os.MkdirTemp("", "dtdl2md-"+sanitizeName(input)+"-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}

	log.Infow("fetching ontology", logger.FieldSource, input, "destination", tempDir)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     tempDir,
		Pwd:     tempDir,
		Mode:    getter.ClientModeDir,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrapf(err, "failed to fetch %s", input)
	}

	return &Source{
		LocalPath:     tempDir,
		OriginalInput: input,
		Fetched:       true,
		cleanup: func() {
			log.Debugw("cleaning up fetched source", logger.FieldPath, tempDir)
			os.RemoveAll(tempDir)
		},
	}, nil
}

// sanitizeName derives a short directory-safe name from a source.
func sanitizeName(input string) string {
	input = strings.TrimSuffix(strings.TrimSuffix(input, "/"), ".git")
	if i := strings.LastIndex(input, "/"); i >= 0 {
		input = input[i+1:]
	}
	name := strings.NewReplacer(":", "-", "@", "-", " ", "-", "?", "-", "&", "-", "=", "-").Replace(input)
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "source"
	}
	return name
}
