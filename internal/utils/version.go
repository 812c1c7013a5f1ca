package utils

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

/**
 * Compare an installed version against the configured one
 * @param {string} installed - Version from the installation record
 * @param {string} wanted - Version from configuration
 * @returns {bool} Returns true if both denote the same version
 * @description
 * - Versions that parse are compared semantically, so "6.0" equals "6.0.0"
 * - Anything else falls back to exact comparison of the trimmed strings
 * @example
 * SameVersion("6.0", "6.0.0")       // true
 * SameVersion("v5.2.0", "5.2.0")    // true
 * SameVersion("latest", "latest")   // true
 */
func SameVersion(installed, wanted string) bool {
	installed = strings.TrimSpace(installed)
	wanted = strings.TrimSpace(wanted)
	a, errA := goversion.NewVersion(installed)
	b, errB := goversion.NewVersion(wanted)
	if errA != nil || errB != nil {
		return installed == wanted
	}
	return a.Equal(b)
}
