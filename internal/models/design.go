package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownDesign is returned by Lookup for names outside the design table.
var ErrUnknownDesign = errors.New("unknown design")

// Design describes where an interconnect lives in the source tree and how its
// test instances are built.
type Design struct {
	Name       string // make-level name: axi4, axi4l, apb
	Dir        string // source directory relative to the repository root
	ConfigFile string // parameter file name inside <Dir>/test
	TopFile    string
	TopModule  string
}

// TestDir is the directory holding the design's test makefile.
func (d Design) TestDir(root string) string {
	return filepath.Join(root, d.Dir, "test")
}

// ConfigPath is the parameter file the generator rewrites before each build.
func (d Design) ConfigPath(root string) string {
	return filepath.Join(d.TestDir(root), d.ConfigFile)
}

func crossbar(name, dir string) Design {
	return Design{
		Name:       name,
		Dir:        dir,
		ConfigFile: name + "_crossbar_config.yaml",
		TopFile:    name + "_crossbar.bsv",
		TopModule:  "mk" + name + "_crossbar",
	}
}

var designs = map[string]Design{
	"axi4":  crossbar("axi4", "axi4"),
	"axi4l": crossbar("axi4l", "axi4_lite"),
	"apb": {
		Name:       "apb",
		Dir:        "apb",
		ConfigFile: "apb_interconnect_config.yaml",
		TopFile:    "apb_interconnect.bsv",
		TopModule:  "mkapb_interconnect",
	},
}

// Lookup returns the design registered under name (case-insensitive).
func Lookup(name string) (Design, error) {
	d, ok := designs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Design{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownDesign, name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names returns the registered design names in sorted order.
func Names() []string {
	names := make([]string, 0, len(designs))
	for n := range designs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
