// Package common defines shared constants, helpers and sentinel errors used
// across Kasa components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Input errors raised before any storage is touched.
	ErrorEmptyInput = errors.New("empty input")
)
