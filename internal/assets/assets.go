// Package assets embeds the shared page templates and static assets and
// provides the placeholder-substitution renderer used by the challenge-page
// directive and the homepage generator.
package assets

import (
	"embed"
	"strings"
	"sync"
)

//go:embed shared.css shared.js challenge.html homepage.html
var files embed.FS

var (
	sharedOnce sync.Once
	sharedCSS  string
	sharedJS   string
)

func loadShared() {
	sharedCSS = mustRead("shared.css")
	sharedJS = mustRead("shared.js")
}

func mustRead(name string) string {
	raw, err := files.ReadFile(name)
	if err != nil {
		// Embedded files are compiled in; a miss is a build defect.
		panic("assets: missing embedded file " + name)
	}
	return string(raw)
}

// SharedCSS returns the contents of shared.css. Loaded once per process and
// safe for concurrent readers.
func SharedCSS() string {
	sharedOnce.Do(loadShared)
	return sharedCSS
}

// SharedJS returns the contents of shared.js.
func SharedJS() string {
	sharedOnce.Do(loadShared)
	return sharedJS
}

// ChallengeTemplate returns the challenge page shell.
func ChallengeTemplate() string { return mustRead("challenge.html") }

// HomepageTemplate returns the homepage shell.
func HomepageTemplate() string { return mustRead("homepage.html") }

// Render substitutes {{KEY}} placeholders in tmpl from subs. It is a pure
// function: unknown placeholders are left untouched and no global template
// state exists.
func Render(tmpl string, subs map[string]string) string {
	pairs := make([]string, 0, 2*len(subs))
	for key, val := range subs {
		pairs = append(pairs, "{{"+key+"}}", val)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// ApplyShared inlines the shared CSS and JS into their reserved
// placeholders.
func ApplyShared(html string) string {
	return Render(html, map[string]string{
		"SHARED_CSS": SharedCSS(),
		"SHARED_JS":  SharedJS(),
	})
}
