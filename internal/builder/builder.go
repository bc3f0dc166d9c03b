// Package builder is the batch driver: it walks a challenge source tree
// once, copies every file into the output tree, and applies compiler
// directives where found.
package builder

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Wyatt-Stanke/ctf/internal/directive"
	"github.com/Wyatt-Stanke/ctf/internal/site"
)

// ProgressFunc receives one notification per processed entry. action is
// "copy", "skip", or the applied directive name; note carries the skip
// reason when there is one. Presentation belongs to the caller.
type ProgressFunc func(action, rel, note string)

// Options configures a compile run. Both fields are optional.
type Options struct {
	Log      *zap.Logger
	Progress ProgressFunc
}

// Compile builds the static site from source into dest.
//
// dest is wiped clean before every build so the output is always a faithful
// snapshot of the source with directives applied. The walk is lexicographic
// and fully sequential; deterministic ordering is part of the contract so
// repeated builds of the same tree are byte-identical.
//
// A single file's directive failure aborts the whole build — there is no
// per-file isolation in the batch path, and dest may be left incomplete.
func Compile(source, dest string, opts Options) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string, string, string) {}
	}

	source, err := filepath.Abs(source)
	if err != nil {
		return err
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("cleaning output dir: %w", err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	log.Debug("compiling site", zap.String("source", source), zap.String("dest", dest))

	return filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == source {
			return nil
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(dstPath, 0o755)
		}

		name := d.Name()
		if site.IsHiddenMarkdown(name) {
			progress("skip", rel, "hidden markdown")
			return nil
		}
		if name == site.MetaFileName {
			progress("skip", rel, "metadata")
			return nil
		}

		kind := directive.Detect(path)
		if kind == directive.NoInclude {
			progress("skip", rel, "")
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return err
		}

		if kind == directive.None {
			// Straight byte-for-byte copy, binary-safe.
			if err := copyFile(path, dstPath); err != nil {
				return fmt.Errorf("copying %s: %w", rel, err)
			}
			progress("copy", rel, "")
			return nil
		}

		transformed, err := directive.Apply(path, kind, urlPrefix(rel))
		if err != nil {
			// Fatal for the entire build, by design.
			return err
		}
		if err := os.WriteFile(dstPath, []byte(transformed), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		progress(kind.String(), rel, "")
		return nil
	})
}

// urlPrefix converts a source-relative file path into the slash-terminated
// URL path of its containing directory.
func urlPrefix(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return "/"
	}
	return "/" + strings.TrimSuffix(dir, "/") + "/"
}

// copyFile mirrors src to dst including permissions and mtime.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
