package service

import (
	"path"
	"strings"
)

// DefaultOutputSuffix is appended to a document's base name to form its analysis key.
const DefaultOutputSuffix = "_analysis.pdf"

// NormalizeKey strips prefix and the final extension from key, so that
// "bronze/report.pdf" becomes "report". Folder markers normalize to "".
func NormalizeKey(prefix, key string) string {
	if strings.HasSuffix(key, "/") {
		return ""
	}
	base := strings.TrimPrefix(key, prefix)
	return strings.TrimSuffix(base, path.Ext(base))
}

// DestinationKey builds the analysis key for base under destPrefix.
// An empty suffix falls back to DefaultOutputSuffix.
func DestinationKey(destPrefix, base, suffix string) string {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	return destPrefix + base + suffix
}
