// Package types defines the Record model, the Service storage contract,
// and the standard error types for the pantry storage system.
package types
