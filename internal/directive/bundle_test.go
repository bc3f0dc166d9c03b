package directive

import (
	"encoding/base64"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var atobRE = regexp.MustCompile(`eval\(atob\("([^"]*)"\)\);`)

func decodeBundle(t *testing.T, out string) string {
	t.Helper()
	m := atobRE.FindStringSubmatch(out)
	require.NotNil(t, m, "output has no eval(atob(...)) line: %q", out)
	decoded, err := base64.StdEncoding.DecodeString(m[1])
	require.NoError(t, err)
	return string(decoded)
}

func TestBase64Bundle(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("encodes the referenced file", func(t *testing.T) {
		writeFile(t, tmpDir, "_src.js", "console.log(\"hi\");\n")
		path := writeFile(t, tmpDir, "loader.js",
			"// COMPILER: base64_bundle _src.js\n/* bundled at build time */\n")

		out, err := Apply(path, Base64Bundle, "/")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "/* bundled at build time */\n"))
		assert.True(t, strings.HasSuffix(out, "\n"))
		assert.Equal(t, "console.log(\"hi\");\n", decodeBundle(t, out))
	})

	t.Run("strips the source's own no_include marker", func(t *testing.T) {
		writeFile(t, tmpDir, "_marked.js", "// COMPILER: no_include\nlet a = 1;\n")
		path := writeFile(t, tmpDir, "loader2.js", "// COMPILER: base64_bundle _marked.js\n")

		out, err := Apply(path, Base64Bundle, "/")
		require.NoError(t, err)
		assert.Equal(t, "let a = 1;\n", decodeBundle(t, out))
	})

	t.Run("missing argument is fatal", func(t *testing.T) {
		path := writeFile(t, tmpDir, "noarg.js", "// COMPILER: base64_bundle\nrest\n")
		_, err := Apply(path, Base64Bundle, "/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing a filename argument")
	})

	t.Run("missing referenced file is fatal", func(t *testing.T) {
		path := writeFile(t, tmpDir, "noref.js", "// COMPILER: base64_bundle _missing.js\n")
		_, err := Apply(path, Base64Bundle, "/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "referenced file not found")
	})

	t.Run("reference resolved relative to the directive file", func(t *testing.T) {
		writeFile(t, tmpDir, "nested/_inner.js", "x\n")
		path := writeFile(t, tmpDir, "nested/loader.js", "// COMPILER: base64_bundle _inner.js\n")

		out, err := Apply(path, Base64Bundle, "/")
		require.NoError(t, err)
		assert.Equal(t, "x\n", decodeBundle(t, out))
	})
}
