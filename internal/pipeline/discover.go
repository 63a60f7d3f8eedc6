package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported media file extensions (lowercase, with leading dot). Only
// directory walks filter by extension; files named on the command line are
// always attempted.
var mediaExtensions = map[string]bool{
	".3gp":  true,
	".asf":  true,
	".avi":  true,
	".flv":  true,
	".m2ts": true,
	".m4v":  true,
	".mkv":  true,
	".mov":  true,
	".mp4":  true,
	".mpeg": true,
	".mpg":  true,
	".mts":  true,
	".ogv":  true,
	".rm":   true,
	".rmvb": true,
	".ts":   true,
	".vob":  true,
	".webm": true,
	".wmv":  true,
}

// Input is one file to process. Root is the directory argument it was
// found under, or "" when the file was named directly.
type Input struct {
	Path string
	Root string
}

// Discover walks inputDir, collects files with media extensions, skips
// hidden files and directories, and returns the paths sorted
// lexicographically for deterministic processing order.
func Discover(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != inputDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if mediaExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Expand resolves the command-line arguments into inputs, keeping argument
// order. Directories are walked with [Discover]. Arguments that cannot be
// read are reported in errs and left out.
func Expand(args []string) (inputs []Input, errs []error) {
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			errs = append(errs, fmt.Errorf("input not found: %s", arg))
			continue
		}
		if !fi.IsDir() {
			inputs = append(inputs, Input{Path: arg})
			continue
		}
		files, err := Discover(arg)
		if err != nil {
			errs = append(errs, fmt.Errorf("discover %s: %w", arg, err))
			continue
		}
		for _, f := range files {
			inputs = append(inputs, Input{Path: f, Root: arg})
		}
	}
	return inputs, errs
}
