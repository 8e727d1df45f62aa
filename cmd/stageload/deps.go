package main

import (
	"context"
	"io"
	"os"
)

// Dependencies holds injectable dependencies for testability.
type Dependencies struct {
	Stdout io.Writer
	Stderr io.Writer
	Ctx    context.Context // Parent of the signal context (nil = Background)
}

// DefaultDeps returns production dependencies.
func DefaultDeps() *Dependencies {
	return &Dependencies{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (d *Dependencies) context() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}
