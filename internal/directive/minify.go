package directive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// Elements whose literal contents must survive whitespace collapsing.
	protectedBlockRE = regexp.MustCompile(`(?is)<(?:pre|script|style|textarea)\b[^>]*>.*?</(?:pre|script|style|textarea)>`)
	htmlCommentRE    = regexp.MustCompile(`(?s)<!--.*?-->`)
	whitespaceRunRE  = regexp.MustCompile(`\s+`)
	spaceAfterTagRE  = regexp.MustCompile(`\s*>\s*`)
	spaceBeforeTagRE = regexp.MustCompile(`\s*<\s*`)
)

// applyHTMLMinify strips the directive line and lightly minifies the HTML:
// comments removed (conditional <!--[if comments preserved), whitespace runs
// collapsed to a single space, whitespace dropped next to angle brackets.
// The contents of pre/script/style/textarea elements pass through verbatim.
func applyHTMLMinify(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("html_minify: %w", err)
	}
	content := htmlDirectiveRE.ReplaceAllString(string(raw), "")

	// Swap protected blocks out for opaque placeholders before touching
	// any whitespace, then swap them back verbatim at the end.
	protected := map[string]string{}
	content = protectedBlockRE.ReplaceAllStringFunc(content, func(block string) string {
		key := fmt.Sprintf("\x00PROTECT_%d\x00", len(protected))
		protected[key] = block
		return key
	})

	content = htmlCommentRE.ReplaceAllStringFunc(content, func(comment string) string {
		if strings.HasPrefix(comment, "<!--[") {
			return comment // conditional comment, keep
		}
		return ""
	})

	content = whitespaceRunRE.ReplaceAllString(content, " ")
	content = spaceAfterTagRE.ReplaceAllString(content, ">")
	content = spaceBeforeTagRE.ReplaceAllString(content, "<")

	for key, block := range protected {
		content = strings.Replace(content, key, block, 1)
	}

	return strings.TrimSpace(content) + "\n", nil
}

// applyJSONMinify strips the // COMPILER comment line and compacts the
// remaining JSON. Key order and number formatting are preserved as written;
// malformed JSON is a fatal error for the file.
func applyJSONMinify(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("json_minify: %w", err)
	}
	content := lineDirectiveRE.ReplaceAllString(string(raw), "")
	content = strings.TrimLeft(content, "\n")

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(content)); err != nil {
		return "", fmt.Errorf("json_minify: invalid JSON in %s: %w", path, err)
	}
	return buf.String() + "\n", nil
}
