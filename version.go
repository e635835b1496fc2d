// Package shapleygo provides the version information for shapley-go.
package shapleygo

// Version is the current version of shapley-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
