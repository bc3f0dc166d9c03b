package directive

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	bundleArgRE     = regexp.MustCompile(`(?i)^\s*//\s*COMPILER:\s*base64_bundle\s+(\S+)`)
	noIncludeLineRE = regexp.MustCompile(`(?i)^\s*//\s*COMPILER:\s*no_include[^\n]*\n?`)
)

// applyBase64Bundle reads the file referenced by the directive's filename
// argument, base64-encodes it, and appends an eval(atob(...)) loader line.
// Everything after the directive line (typically a license or notice
// comment) is kept verbatim. A missing argument or missing referenced file
// is a fatal error for the file.
//
// A source file usually looks like:
//
//	// COMPILER: base64_bundle _runner-src.js
//	/* bundled at build time — see _runner-src.js */
func applyBase64Bundle(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("base64_bundle: %w", err)
	}

	firstLine, rest := splitFirstLine(string(raw))

	m := bundleArgRE.FindStringSubmatch(firstLine)
	if m == nil {
		return "", fmt.Errorf("base64_bundle directive in %s is missing a filename argument", path)
	}

	refPath := filepath.Join(filepath.Dir(path), m[1])
	src, err := os.ReadFile(refPath)
	if err != nil {
		return "", fmt.Errorf("base64_bundle: referenced file not found: %s", refPath)
	}

	// A bundled source often carries its own no_include marker so the raw
	// file stays out of the build; strip just that line from the bundle.
	text := noIncludeLineRE.ReplaceAllString(string(src), "")

	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	return rest + fmt.Sprintf("eval(atob(%q));\n", encoded), nil
}

// splitFirstLine separates the first line (without its newline) from the
// remainder of content.
func splitFirstLine(content string) (first, rest string) {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return content[:i], content[i+1:]
	}
	return content, ""
}
