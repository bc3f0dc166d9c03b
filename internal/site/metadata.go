package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ChallengeMeta is the optional .challenge.json sidecar of a challenge
// directory. The flag hash is a hex SHA-256 digest used for client-side
// flag verification; the compiler never verifies flags itself.
type ChallengeMeta struct {
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Summary    string `json:"summary"`
	FlagHash   string `json:"flag_hash"`
}

// LoadChallengeMeta reads dir/.challenge.json. ok is false when the file is
// absent or malformed; a missing sidecar is never an error.
func LoadChallengeMeta(dir string) (meta ChallengeMeta, ok bool) {
	raw, err := os.ReadFile(filepath.Join(dir, MetaFileName))
	if err != nil {
		return ChallengeMeta{}, false
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ChallengeMeta{}, false
	}
	return meta, true
}

// MetaOrDefault returns the challenge metadata for dir, falling back to a
// record derived from the directory name when the sidecar is missing or
// invalid. Fields left empty by a present sidecar get the same defaults.
func MetaOrDefault(dir string) ChallengeMeta {
	meta, ok := LoadChallengeMeta(dir)
	if !ok {
		meta = ChallengeMeta{}
	}
	if meta.Title == "" {
		meta.Title = TitleFromSlug(filepath.Base(dir))
	}
	if meta.Difficulty == "" {
		meta.Difficulty = "Unknown"
	}
	return meta
}

var difficultyColors = map[string]string{
	"easy":   "#22c55e",
	"medium": "#e05a33",
	"hard":   "#ef4444",
	"insane": "#a855f7",
}

// DifficultyColor maps a difficulty label to its badge color. Unknown
// difficulties get a neutral gray.
func DifficultyColor(difficulty string) string {
	if c, ok := difficultyColors[strings.ToLower(difficulty)]; ok {
		return c
	}
	return "#6b7280"
}
