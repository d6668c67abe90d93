// Package release supports the datasheet build: version lookup from the
// changelog and the make invocation that runs Sphinx.
package release

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/darwinbeing/fabrics/internal/build"
)

// ErrNoVersion is returned when the changelog has no [x.y.z] heading.
var ErrNoVersion = errors.New("no [version] entry in changelog")

var versionRe = regexp.MustCompile(`\[(.*?)\]`)

// Version returns the first bracketed token of the changelog, which by
// convention is the newest release heading.
func Version(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read changelog: %w", err)
	}
	m := versionRe.FindSubmatch(data)
	if m == nil {
		return "", ErrNoVersion
	}
	return string(m[1]), nil
}

// VersionFromFile opens path and calls Version.
func VersionFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open changelog: %w", err)
	}
	defer f.Close()
	v, err := Version(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// DocsInvocation runs target (html, latexpdf, ...) of the Sphinx makefile in dir.
func DocsInvocation(dir, target, version string) build.Invocation {
	inv := build.Invocation{Dir: dir, Targets: []string{target}}
	if version != "" {
		inv.Vars = []string{"VERSION=" + version}
	}
	return inv
}
