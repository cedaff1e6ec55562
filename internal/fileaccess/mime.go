package fileaccess

import (
	"path/filepath"
	"strings"
)

// defaultMimeType is returned for extensions not in the table.
const defaultMimeType = "text/plain"

// mimeByExtension maps lowercase file extensions to MIME types. The table
// is total: lookups that miss fall back to defaultMimeType.
var mimeByExtension = map[string]string{
	".swift":    "text/x-swift",
	".m":        "text/x-objective-c",
	".mm":       "text/x-objective-c",
	".h":        "text/x-c",
	".c":        "text/x-c",
	".cpp":      "text/x-c++",
	".hpp":      "text/x-c++",
	".metal":    "text/x-metal",
	".json":     "application/json",
	".plist":    "application/x-plist",
	".xml":      "application/xml",
	".yaml":     "application/yaml",
	".yml":      "application/yaml",
	".toml":     "application/toml",
	".md":       "text/markdown",
	".txt":      "text/plain",
	".html":     "text/html",
	".css":      "text/css",
	".js":       "text/javascript",
	".sh":       "application/x-sh",
	".rb":       "application/x-ruby",
	".py":       "text/x-python",
	".strings":  "text/plain",
	".xcconfig": "text/plain",
	".entitlements": "application/x-plist",
	".storyboard":   "application/xml",
	".xib":          "application/xml",
	".pbxproj":      "text/plain",
	".modulemap":    "text/plain",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
}

// mimeTypeFor returns the MIME type for a path based on its extension.
func mimeTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := mimeByExtension[ext]; ok {
		return mt
	}
	return defaultMimeType
}
