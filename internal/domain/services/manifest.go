package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces"
)

// placeholderPattern matches $1, $2, ... capture references in an upload
// pattern. Only plain numeric placeholders are supported.
var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// ManifestResolver expands the descriptor's files entries into concrete
// uploads by walking the local filesystem and matching paths against the
// entry's include/exclude regular expressions.
type ManifestResolver struct {
	log interfaces.Logger
}

// NewManifestResolver creates a manifest resolver
func NewManifestResolver(log interfaces.Logger) *ManifestResolver {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &ManifestResolver{log: log}
}

// Resolve processes every manifest entry independently and concatenates
// the resulting uploads in entry order. An entry whose local path does
// not exist is skipped with a warning; a pattern that does not compile is
// fatal.
func (r *ManifestResolver) Resolve(entries []entities.ManifestEntry) ([]entities.Upload, error) {
	var uploads []entities.Upload
	for _, entry := range entries {
		resolved, err := r.resolveEntry(entry)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, resolved...)
	}
	return uploads, nil
}

func (r *ManifestResolver) resolveEntry(entry entities.ManifestEntry) ([]entities.Upload, error) {
	include, err := regexp.Compile(entry.IncludePattern)
	if err != nil {
		return nil, fmt.Errorf("%w: include pattern %q: %v",
			entities.ErrDescriptorInvalid, entry.IncludePattern, err)
	}

	var exclude *regexp.Regexp
	if entry.ExcludePattern != "" {
		exclude, err = regexp.Compile(entry.ExcludePattern)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %v",
				entities.ErrDescriptorInvalid, entry.ExcludePattern, err)
		}
	}

	root := walkRoot(entry.IncludePattern)
	if _, err := os.Stat(root); err != nil {
		r.log.Warn("upload path does not exist, skipping manifest entry",
			interfaces.F("path", root),
			interfaces.F("includePattern", entry.IncludePattern))
		return nil, nil
	}

	var uploads []entities.Upload
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		// Match against the slash-separated form so patterns behave the
		// same on every platform.
		candidate := filepath.ToSlash(path)
		if excluded(exclude, candidate) {
			return nil
		}

		groups := include.FindStringSubmatch(candidate)
		if groups == nil {
			return nil
		}

		uploads = append(uploads, entities.Upload{
			SourcePath:   path,
			TargetPath:   expandTarget(entry.UploadPattern, groups),
			MatrixParams: entry.MatrixParams,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return uploads, nil
}

// excluded reports whether the path matches a non-empty exclude pattern.
// Checked before include matching.
func excluded(exclude *regexp.Regexp, path string) bool {
	return exclude != nil && exclude.MatchString(path)
}

// expandTarget substitutes $1, $2, ... in the upload pattern with the
// corresponding capture groups. A pattern with no placeholders is used
// verbatim; a placeholder beyond the captured groups expands to nothing.
func expandTarget(uploadPattern string, groups []string) string {
	return placeholderPattern.ReplaceAllStringFunc(uploadPattern, func(m string) string {
		i, err := strconv.Atoi(m[1:])
		if err != nil || i < 1 || i >= len(groups) {
			return ""
		}
		return groups[i]
	})
}

// walkRoot returns the literal prefix of the include pattern: the text
// before the first '(' character, or the whole pattern when it has no
// capturing groups.
func walkRoot(includePattern string) string {
	if i := strings.Index(includePattern, "("); i >= 0 {
		return includePattern[:i]
	}
	return includePattern
}
