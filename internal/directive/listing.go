package directive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Wyatt-Stanke/ctf/internal/site"
)

// nameColumn is the fixed column width the link text is padded to,
// matching nginx's autoindex layout.
const nameColumn = 50

type listingEntry struct {
	name    string
	isDir   bool
	modTime time.Time
	size    int64
}

// applyDirectoryListing renders an nginx-style autoindex page for the
// directory containing path. The listing file itself, hidden markdown,
// metadata sidecars, and no_include-marked files never appear in it.
// urlPrefix is the slash-terminated URL path of the directory, used in the
// title and heading.
func applyDirectoryListing(path, urlPrefix string) (string, error) {
	return RenderListing(filepath.Dir(path), filepath.Base(path), urlPrefix)
}

// RenderListing builds the autoindex page for dir. selfName, when non-empty,
// names the index file being generated so it can exclude itself. The dev
// server reuses this for directories without an index.html.
func RenderListing(dir, selfName, urlPrefix string) (string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("directory_listing: %w", err)
	}

	var entries []listingEntry
	for _, de := range dirEntries {
		name := de.Name()
		if name == selfName || site.IsExcludedName(name) {
			continue
		}
		if !de.IsDir() && Detect(filepath.Join(dir, name)) == NoInclude {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, listingEntry{
			name:    name,
			isDir:   de.IsDir(),
			modTime: info.ModTime(),
			size:    info.Size(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	lines := []string{`<a href="../">../</a>`}

	// Directories first, then files, matching typical nginx behaviour.
	for _, wantDir := range []bool{true, false} {
		for _, e := range entries {
			if e.isDir != wantDir {
				continue
			}
			displayName := e.name
			if e.isDir {
				displayName += "/"
			}
			sizeStr := "   -"
			if !e.isDir {
				sizeStr = fmt.Sprintf("%7d", e.size)
			}
			padding := 51 - len(displayName)
			if padding < 1 {
				padding = 1
			}
			lines = append(lines, fmt.Sprintf(`<a href="%s">%-*s</a>%s%s %s`,
				displayName, nameColumn, displayName,
				strings.Repeat(" ", padding),
				e.modTime.UTC().Format("02-Jan-2006 15:04"), sizeStr))
		}
	}

	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}

	return fmt.Sprintf(`<!doctype html>
<html>
  <head>
    <title>Index of %s</title>
  </head>
  <body>
    <h1>Index of %s</h1>
    <hr />
    <pre>%s
</pre>
    <hr />
    <address>nginx/1.25.3</address>
  </body>
</html>
`, urlPrefix, urlPrefix, strings.Join(lines, "\n")), nil
}
