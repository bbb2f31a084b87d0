//go:build mage

// Package main contains Mage build targets for inout-renumber developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "inout-renumber"
	cmdPkg  = "./cmd/inout-renumber"
	// versionVar is the ldflags target for the CLI version string.
	versionVar = "main.version"
)

// Build compiles the CLI binary into bin/. The version comes from
// INOUT_RENUMBER_VERSION, or "dev".
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("INOUT_RENUMBER_VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version)
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Install builds and copies the binary into GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.RunV("go", "install", cmdPkg)
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs vet and then the full test suite with the race detector.
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "-race", "./...")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// skipDirs are never counted by Stats.
var skipDirs = map[string]bool{".git": true, "_examples": true, binDir: true}

// Stats prints non-blank Go lines per top-level directory, split into
// production and test code, plus the word count of Markdown docs.
func Stats() error {
	prod := map[string]int{}
	test := map[string]int{}
	docWords := 0

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		switch {
		case strings.HasSuffix(path, "_test.go"):
			n, err := countLines(path)
			test[topDir(path)] += n
			return err
		case strings.HasSuffix(path, ".go"):
			n, err := countLines(path)
			prod[topDir(path)] += n
			return err
		case strings.HasSuffix(path, ".md"):
			data, err := os.ReadFile(path)
			docWords += len(strings.Fields(string(data)))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(prod))
	for d := range prod {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	for _, d := range dirs {
		fmt.Printf("%-12s prod %5d  test %5d\n", d, prod[d], test[d])
	}
	fmt.Printf("Words (Markdown): %d\n", docWords)
	return nil
}

// topDir returns the first path element, or "." for root files.
func topDir(path string) string {
	if i := strings.IndexRune(path, filepath.Separator); i >= 0 {
		return path[:i]
	}
	return "."
}

// countLines counts lines that are not blank after trimming.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
