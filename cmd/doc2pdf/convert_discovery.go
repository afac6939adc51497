package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoInput is returned when nothing to convert was found.
var ErrNoInput = errors.New("no input specified")

// supportedExtensions are picked up when walking a directory. Files named
// explicitly are converted whatever their extension: unknown types are
// rendered as plain text.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".rtf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
}

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath string
	// OutputDir receives <stem>.pdf. Empty means next to the input.
	OutputDir string
}

// discoverFiles expands the command-line inputs into files to convert.
// Directories are walked recursively and their layout is mirrored under
// outputDir.
func discoverFiles(inputs []string, outputDir string) ([]FileToConvert, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var files []FileToConvert
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, FileToConvert{InputPath: input, OutputDir: outputDir})
			continue
		}

		found, err := walkDirectory(input, outputDir)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no supported documents in %s", ErrNoInput, strings.Join(inputs, ", "))
	}
	return files, nil
}

// walkDirectory collects supported documents under root. Hidden files
// and directories are skipped.
func walkDirectory(root, outputDir string) ([]FileToConvert, error) {
	var files []FileToConvert
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath: path,
			OutputDir: resolveOutputDir(path, outputDir, root),
		})
		return nil
	})
	return files, err
}

// resolveOutputDir determines where the PDF for inputPath goes. Files
// found under baseInputDir keep their relative directory below outputDir.
func resolveOutputDir(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return filepath.Dir(inputPath)
	}
	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath))
		}
	}
	return outputDir
}
