package directive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryListing(t *testing.T) {
	tmpDir := t.TempDir()
	index := writeFile(t, tmpDir, "index.html", "<!-- COMPILER: directory_listing -->\n")
	aTxt := writeFile(t, tmpDir, "a.txt", "abc")
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub"), 0o755))
	writeFile(t, tmpDir, ".notes.md", "author only")
	writeFile(t, tmpDir, ".challenge.json", "{}")
	writeFile(t, tmpDir, "hidden.js", "// COMPILER: no_include\nsecret\n")

	// Pin the mtime so the rendered date is predictable.
	mtime := time.Date(2024, time.March, 7, 13, 45, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(aTxt, mtime, mtime))

	out, err := Apply(index, DirectoryListing, "/given/prefix/")
	require.NoError(t, err)

	t.Run("title and heading embed the URL prefix", func(t *testing.T) {
		assert.Contains(t, out, "<title>Index of /given/prefix/</title>")
		assert.Contains(t, out, "<h1>Index of /given/prefix/</h1>")
	})

	t.Run("parent link comes first", func(t *testing.T) {
		lines := strings.Split(out, "\n")
		var first string
		for _, l := range lines {
			if strings.Contains(l, "<a href=") {
				first = l
				break
			}
		}
		assert.Contains(t, first, `<a href="../">../</a>`)
	})

	t.Run("directories precede files", func(t *testing.T) {
		assert.Less(t, strings.Index(out, `href="sub/"`), strings.Index(out, `href="a.txt"`))
	})

	t.Run("sizes are right-aligned in a 7-char field", func(t *testing.T) {
		assert.Contains(t, out, "      3")
		assert.Contains(t, out, "07-Mar-2024 13:45       3")
	})

	t.Run("directories show a size placeholder", func(t *testing.T) {
		subLine := lineContaining(t, out, `href="sub/"`)
		assert.True(t, strings.HasSuffix(subLine, "   -"), "got %q", subLine)
	})

	t.Run("link text padded to the name column", func(t *testing.T) {
		assert.Contains(t, out, fmt.Sprintf(`<a href="a.txt">%-50s</a>`, "a.txt"))
	})

	t.Run("excludes itself and non-content files", func(t *testing.T) {
		assert.NotContains(t, out, "index.html")
		assert.NotContains(t, out, ".notes.md")
		assert.NotContains(t, out, ".challenge.json")
		assert.NotContains(t, out, "hidden.js")
	})

	t.Run("prefix gets slash-terminated", func(t *testing.T) {
		out2, err := Apply(index, DirectoryListing, "/given/prefix")
		require.NoError(t, err)
		assert.Contains(t, out2, "<title>Index of /given/prefix/</title>")
	})
}

func TestDirectoryListingSortsCaseInsensitively(t *testing.T) {
	tmpDir := t.TempDir()
	index := writeFile(t, tmpDir, "index.html", "<!-- COMPILER: directory_listing -->\n")
	writeFile(t, tmpDir, "Zebra.txt", "z")
	writeFile(t, tmpDir, "apple.txt", "a")
	writeFile(t, tmpDir, "Banana.txt", "b")

	out, err := Apply(index, DirectoryListing, "/")
	require.NoError(t, err)

	apple := strings.Index(out, `href="apple.txt"`)
	banana := strings.Index(out, `href="Banana.txt"`)
	zebra := strings.Index(out, `href="Zebra.txt"`)
	assert.Less(t, apple, banana)
	assert.Less(t, banana, zebra)
}

func lineContaining(t *testing.T, text, needle string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	t.Fatalf("no line containing %q", needle)
	return ""
}
