//go:build mage

// Package main provides build targets for the pantry project using Mage.
//
// Usage:
//
//	mage build     Compile pantry binary to bin/
//	mage test      Run all tests
//	mage testUnit  Run only unit tests (skips live-service tests)
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install pantry to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "pantry"
	binaryDir  = "bin"
	cmdDir     = "./cmd/pantry"
)

// Build compiles the pantry binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests, including live-service tests when their backends
// are configured.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestUnit runs only unit tests, skipping tests that need a live backend.
func TestUnit() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
