//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for storeroom using Mage.
//
// Usage:
//
//	mage build      Compile the storeroom binary to bin/
//	mage install    Install storeroom to GOPATH/bin
//	mage clean      Remove build artifacts
//	mage demo       Build and run the built-in demonstration on both engines
//	mage test:all   Run all tests
//	mage test:unit  Run tests without the property-based suites
//	mage test:race  Run all tests with the race detector
//	mage lint       Run golangci-lint
//	mage stats      Print Go line counts per package
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "storeroom"
	binaryDir  = "bin"
	cmdDir     = "./cmd/storeroom"
)

// Build compiles the storeroom binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, binaryPath())
}

// Demo builds the binary and runs the demonstration against each engine.
// A throwaway config directory keeps the run away from the user's config.
func Demo() error {
	mg.Deps(Build)
	dir, err := os.MkdirTemp("", "storeroom-demo-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	for _, backend := range []string{"memory", "sqlite"} {
		if err := sh.RunV(binaryPath(), "demo", "--config-dir", dir, "--backend", backend); err != nil {
			return err
		}
	}
	return nil
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
