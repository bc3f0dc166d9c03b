// Package directive implements the compiler directive engine: detection of a
// first-line directive marker, one applicator per directive kind, and the
// dispatcher shared by the batch builder and the dev server.
//
// Supported directives (placed as the very first line of a file):
//
//	HTML:  <!-- COMPILER: directory_listing -->
//	       <!-- COMPILER: html_minify -->
//	       <!-- COMPILER: challenge_page -->
//	JSON:  // COMPILER: json_minify
//	Skip:  // COMPILER: no_include            (file is excluded from output)
//	Bundle:// COMPILER: base64_bundle <file>  (base64-encodes referenced file
//	                                           and appends eval(atob(...)))
package directive

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
)

// Kind identifies one of the closed set of compiler directives.
// The zero value None means "no directive".
type Kind int

const (
	None Kind = iota
	DirectoryListing
	HTMLMinify
	JSONMinify
	NoInclude
	Base64Bundle
	ChallengePage
)

var kindNames = map[Kind]string{
	None:             "none",
	DirectoryListing: "directory_listing",
	HTMLMinify:       "html_minify",
	JSONMinify:       "json_minify",
	NoInclude:        "no_include",
	Base64Bundle:     "base64_bundle",
	ChallengePage:    "challenge_page",
}

var kindsByName = map[string]Kind{
	"directory_listing": DirectoryListing,
	"html_minify":       HTMLMinify,
	"json_minify":       JSONMinify,
	"no_include":        NoInclude,
	"base64_bundle":     Base64Bundle,
	"challenge_page":    ChallengePage,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "none"
}

var (
	htmlDirectiveRE = regexp.MustCompile(`(?i)^\s*<!--\s*COMPILER:\s*(\w+)\s*-->`)
	lineDirectiveRE = regexp.MustCompile(`(?i)^\s*//\s*COMPILER:\s*(\w+)`)
)

// maxFirstLine bounds the first-line read so detection never loads a large
// binary into memory. A first line longer than this cannot be a directive.
const maxFirstLine = 64 * 1024

// Detect returns the directive named on the first line of the file at path,
// or None. Unknown directive names and any read failure are treated as "no
// directive"; detection never aborts a tree walk.
func Detect(path string) Kind {
	f, err := os.Open(path)
	if err != nil {
		return None
	}
	defer f.Close()

	r := bufio.NewReaderSize(io.LimitReader(f, maxFirstLine), 4096)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return None
	}
	if !strings.HasSuffix(line, "\n") && len(line) >= maxFirstLine {
		// Hit the read bound without finding a line break.
		return None
	}
	return DetectLine(line)
}

// DetectLine classifies a single already-read first line.
func DetectLine(line string) Kind {
	m := htmlDirectiveRE.FindStringSubmatch(line)
	if m == nil {
		m = lineDirectiveRE.FindStringSubmatch(line)
	}
	if m == nil {
		return None
	}
	if kind, ok := kindsByName[strings.ToLower(m[1])]; ok {
		return kind
	}
	return None
}
