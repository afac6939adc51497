package main

import (
	"context"
	"io"
	"os"
	"time"

	doc2pdf "github.com/alnah/go-doc2pdf"
)

// Converter is the part of *doc2pdf.Converter the CLI drives.
type Converter interface {
	ConvertFile(ctx context.Context, path, destDir string) (*doc2pdf.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*doc2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and converter construction.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	NewConverter func(opts ...doc2pdf.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewConverter: func(opts ...doc2pdf.Option) (Converter, error) {
			return doc2pdf.NewConverter(opts...)
		},
	}
}
