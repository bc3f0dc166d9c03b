package directive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Wyatt-Stanke/ctf/internal/assets"
	"github.com/Wyatt-Stanke/ctf/internal/site"
)

// applyChallengePage wraps the body fragment after the directive line in the
// shared challenge page template: title, difficulty badge, flag form, and
// inlined shared CSS/JS.
//
// Metadata comes from .challenge.json in the challenge root, which is the
// parent of the file's own directory (challenges lay out their page as
// <root>/challenge/index.html). Missing or invalid metadata degrades to
// defaults derived from the directory name.
func applyChallengePage(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("challenge_page: %w", err)
	}
	_, rest := splitFirstLine(string(raw))
	body := strings.TrimSpace(rest)

	challengeRoot := filepath.Dir(filepath.Dir(path))
	meta := site.MetaOrDefault(challengeRoot)
	slug := filepath.Base(challengeRoot)

	html := assets.Render(assets.ChallengeTemplate(), map[string]string{
		"TITLE":      site.EscapeHTML(meta.Title),
		"DIFFICULTY": site.EscapeHTML(meta.Difficulty),
		"DIFF_COLOR": site.DifficultyColor(meta.Difficulty), // trusted constant
		"SLUG":       site.EscapeHTML(slug),
		"FLAG_HASH":  meta.FlagHash, // opaque hex, not escaped
		"BODY":       body,
	})
	return assets.ApplyShared(html), nil
}
