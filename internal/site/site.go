// Package site holds the source-tree conventions of a CTF challenge site:
// metadata sidecars (.challenge.json, .group.json), group/challenge
// discovery, name exclusion rules, and homepage generation.
package site

import (
	"regexp"
	"strings"
)

// MetaFileName is the per-challenge metadata sidecar. It never appears in
// build output or directory listings.
const MetaFileName = ".challenge.json"

// GroupFileName marks a directory as a named group of challenges.
const GroupFileName = ".group.json"

// Hidden markdown files (e.g. .solving-guide.md) are author-only
// documentation and are excluded from output and listings.
var hiddenMarkdownRE = regexp.MustCompile(`(?i)^\..+\.md$`)

// IsHiddenMarkdown reports whether name matches the hidden-markdown pattern.
func IsHiddenMarkdown(name string) bool {
	return hiddenMarkdownRE.MatchString(name)
}

// IsExcludedName reports whether a file name is never copied into build
// output: hidden markdown and the challenge metadata sidecar.
func IsExcludedName(name string) bool {
	return IsHiddenMarkdown(name) || name == MetaFileName
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML performs minimal HTML/attribute-safe escaping.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// TitleFromSlug derives a human-readable title from a directory name:
// dashes and underscores become spaces and each word is capitalized.
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
