package pathbound

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// envRefPattern matches $NAME and ${NAME} environment references. Anything
// that does not match (a lone "$", "${" without a closing brace, digits
// first) is left as literal text.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Expand rewrites raw into an absolute path: a leading "~" becomes the
// invoking user's home directory, $NAME and ${NAME} references become their
// environment values (empty when unset), and a still-relative result is
// resolved against the process working directory. Expand never fails; when
// the home directory cannot be determined the "~" is kept as-is.
func (b *Boundary) Expand(raw string) string {
	if raw == "" {
		return raw
	}

	s := raw
	if strings.HasPrefix(s, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			s = home + s[1:]
		}
	}

	s = envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.TrimPrefix(ref, "$")
		name = strings.TrimPrefix(name, "{")
		name = strings.TrimSuffix(name, "}")
		return os.Getenv(name)
	})

	if !filepath.IsAbs(s) {
		s = filepath.Join(b.ProcessDir(), s)
	}
	return s
}

// Normalize expands raw and collapses "." and ".." segments. It is
// idempotent and total: any string input, including the empty string
// (returned unchanged), yields a result without error.
func (b *Boundary) Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	return filepath.Clean(b.Expand(raw))
}
