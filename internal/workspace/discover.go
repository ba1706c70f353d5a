package workspace

import (
	"context"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals // immutable lookup table used across the package.
var skipDirs = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	".cache",
	"__pycache__",
}

// Scene definition files end in one of these suffixes.
const (
	defSuffixYAML = ".frameline.yaml"
	defSuffixYML  = ".frameline.yml"
)

// IsSceneFile reports whether a path looks like a scene definition.
func IsSceneFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, defSuffixYAML) || strings.HasSuffix(lower, defSuffixYML)
}

// Discover walks root and returns scene definition files in sorted
// order. Unreadable entries are skipped rather than failing the walk.
// The walk runs callbacks concurrently, so collection is locked.
func Discover(ctx context.Context, root string) ([]string, error) {
	var (
		mu    sync.Mutex
		found []string
	)
	conf := fastwalk.DefaultConfig
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logrus.WithError(err).WithField("path", path).Debug("skipping unreadable entry")
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			if isSkippedDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if IsSceneFile(path) {
			mu.Lock()
			found = append(found, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

func isSkippedDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
