// Package env reads process environment values with fallbacks.
package env

import "os"

// GetOr returns the named environment variable, or fallback when it is unset
// or empty.
func GetOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
