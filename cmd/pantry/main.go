// Package main provides the pantry CLI, an operational tool over the
// pantry record-storage library.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A .env in the working directory supplies PANTRY_* variables during
	// development; already-set environment variables win over file values.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRunE does not run when a command fails, so the
		// backend is released here before exiting.
		_ = closeService()
		os.Exit(exitUserError)
	}
}
