package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Wyatt-Stanke/ctf/internal/assets"
)

// GenerateHomepage writes dest/index.html listing every challenge as a card
// inside collapsible group sections, with a client-side flag form per card.
// Flag hashes are embedded as a slug -> SHA-256 map for shared.js to verify
// against. Returns the total number of challenges rendered.
func GenerateHomepage(groups []Group, dest string) (int, error) {
	var sections []string
	var hashEntries []string
	total := 0

	for _, g := range groups {
		var cards []string
		for _, cdir := range g.Challenges {
			card, hashEntry := challengeCard(cdir)
			cards = append(cards, card)
			if hashEntry != "" {
				hashEntries = append(hashEntries, hashEntry)
			}
			total++
		}

		desc := ""
		if g.Description != "" {
			desc = fmt.Sprintf("\n          <p class=\"group-description\">%s</p>", EscapeHTML(g.Description))
		}

		sections = append(sections, fmt.Sprintf(
			`        <div class="group" data-group="%s">
          <div class="group-header" onclick="_toggleGroup(this)">
            <div class="group-header-left">
              <span class="group-chevron">&#9662;</span>
              <h2 class="group-title">%s</h2>
              <span class="group-count">%d</span>
            </div>
            <span class="group-progress" data-group-progress="%s"></span>
          </div>%s
          <div class="group-body">
%s
          </div>
        </div>`,
			EscapeHTML(g.Slug), EscapeHTML(g.Name), len(g.Challenges),
			EscapeHTML(g.Slug), desc, strings.Join(cards, "\n")))
	}

	// Group membership map for shared.js progress counters.
	var groupEntries []string
	for _, g := range groups {
		var slugs []string
		for _, cdir := range g.Challenges {
			slugs = append(slugs, fmt.Sprintf("%q", filepath.Base(cdir)))
		}
		groupEntries = append(groupEntries, fmt.Sprintf("    %q: [%s]", g.Slug, strings.Join(slugs, ", ")))
	}

	html := assets.Render(assets.HomepageTemplate(), map[string]string{
		"GROUPS":    strings.Join(sections, "\n\n"),
		"HASHES":    strings.Join(hashEntries, ",\n"),
		"COUNT":     fmt.Sprintf("%d", total),
		"GROUP_MAP": strings.Join(groupEntries, ",\n"),
	})
	html = assets.ApplyShared(html)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(dest, "index.html"), []byte(html), 0o644); err != nil {
		return 0, fmt.Errorf("writing homepage: %w", err)
	}
	return total, nil
}

func challengeCard(cdir string) (card, hashEntry string) {
	meta := MetaOrDefault(cdir)
	if meta.Summary == "" {
		meta.Summary = "No description available."
	}

	slug := filepath.Base(cdir)
	color := DifficultyColor(meta.Difficulty)

	card = fmt.Sprintf(
		`          <div class="challenge-card" data-slug="%s">
            <div class="card-header">
              <span class="difficulty" style="color:%s;background:%s22">%s</span>
              <a class="card-title" href="./%s/challenge/">%s</a>
            </div>
            <p class="card-summary">%s</p>
            <div class="card-footer">
              <a class="card-link" href="./%s/challenge/" target="_blank">Open challenge &rarr;</a>
              <form class="flag-form" data-slug="%s" onsubmit="return _checkFlag(event)">
                <input type="text" class="flag-input" placeholder="flag{...}" autocomplete="off" spellcheck="false" />
                <button type="submit" class="flag-btn">Submit</button>
              </form>
              <div class="flag-result" data-result="%s"></div>
            </div>
          </div>`,
		slug, color, color, EscapeHTML(meta.Difficulty), slug, EscapeHTML(meta.Title),
		EscapeHTML(meta.Summary), slug, slug, slug)

	if meta.FlagHash != "" {
		hashEntry = fmt.Sprintf("    %q: %q", slug, meta.FlagHash)
	}
	return card, hashEntry
}
