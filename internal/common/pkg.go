package common

import "path"

// UnknownStr is the String() fallback for enum values outside their range.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}
