package builder

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func mkChallenge(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	write(t, src, "plain.txt", []byte("hello"))
	write(t, src, "bin.dat", []byte{0x00, 0x01, 0xfe, 0xff})
	write(t, src, ".solving-guide.md", []byte("author notes"))
	write(t, src, ".challenge.json", []byte(`{"title":"T"}`))
	write(t, src, "secret.js", []byte("// COMPILER: no_include\nvar s = 1;\n"))
	write(t, src, "data.json", []byte("// COMPILER: json_minify\n{\n  \"a\": 1\n}\n"))
	write(t, src, "files/index.html", []byte("<!-- COMPILER: directory_listing -->\n"))
	write(t, src, "files/readme.txt", []byte("read me"))
	return src
}

func TestCompile(t *testing.T) {
	src := mkChallenge(t)
	dest := filepath.Join(t.TempDir(), "out")

	var applied []string
	err := Compile(src, dest, Options{
		Progress: func(action, rel, note string) {
			applied = append(applied, action+" "+filepath.ToSlash(rel))
		},
	})
	require.NoError(t, err)

	t.Run("copy fidelity for text and binary", func(t *testing.T) {
		text, err := os.ReadFile(filepath.Join(dest, "plain.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(text))

		bin, err := os.ReadFile(filepath.Join(dest, "bin.dat"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0x01, 0xfe, 0xff}, bin)
	})

	t.Run("copy preserves mtime", func(t *testing.T) {
		srcInfo, err := os.Stat(filepath.Join(src, "plain.txt"))
		require.NoError(t, err)
		dstInfo, err := os.Stat(filepath.Join(dest, "plain.txt"))
		require.NoError(t, err)
		assert.True(t, srcInfo.ModTime().Equal(dstInfo.ModTime()))
	})

	t.Run("excluded files never reach the output", func(t *testing.T) {
		for _, rel := range []string{".solving-guide.md", ".challenge.json", "secret.js"} {
			_, err := os.Stat(filepath.Join(dest, rel))
			assert.True(t, os.IsNotExist(err), "%s should not exist", rel)
		}
	})

	t.Run("json minified in place", func(t *testing.T) {
		out, err := os.ReadFile(filepath.Join(dest, "data.json"))
		require.NoError(t, err)
		assert.Equal(t, "{\"a\":1}\n", string(out))
	})

	t.Run("listing prefix derives from the entry's parent", func(t *testing.T) {
		out, err := os.ReadFile(filepath.Join(dest, "files", "index.html"))
		require.NoError(t, err)
		assert.Contains(t, string(out), "<title>Index of /files/</title>")
		assert.Contains(t, string(out), `href="readme.txt"`)
	})

	t.Run("progress reports every entry", func(t *testing.T) {
		assert.Contains(t, applied, "copy plain.txt")
		assert.Contains(t, applied, "skip secret.js")
		assert.Contains(t, applied, "json_minify data.json")
		assert.Contains(t, applied, "directory_listing files/index.html")
	})
}

func TestCompileIsDeterministic(t *testing.T) {
	src := mkChallenge(t)
	destA := filepath.Join(t.TempDir(), "a")
	destB := filepath.Join(t.TempDir(), "b")

	require.NoError(t, Compile(src, destA, Options{}))
	require.NoError(t, Compile(src, destB, Options{}))

	if diff := cmp.Diff(snapshot(t, destA), snapshot(t, destB)); diff != "" {
		t.Errorf("builds differ (-a +b):\n%s", diff)
	}
}

func TestCompileWipesPreviousOutput(t *testing.T) {
	src := mkChallenge(t)
	dest := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	write(t, dest, "stale.txt", []byte("left over"))

	require.NoError(t, Compile(src, dest, Options{}))
	_, err := os.Stat(filepath.Join(dest, "stale.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompileAbortsOnDirectiveFailure(t *testing.T) {
	src := mkChallenge(t)
	write(t, src, "broken.json", []byte("// COMPILER: json_minify\n{oops\n"))

	err := Compile(src, filepath.Join(t.TempDir(), "out"), Options{})
	require.Error(t, err, "one fatal file fails the whole build")
	assert.Contains(t, err.Error(), "invalid JSON")
}

// snapshot maps relative paths to file contents for a whole tree.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = string(raw)
	}
	return files
}
