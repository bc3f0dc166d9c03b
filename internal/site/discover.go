package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Group is a named collection of challenge directories, read from a
// .group.json sidecar. Standalone top-level challenges are collected into
// an implicit "Ungrouped" group.
type Group struct {
	Name        string
	Description string
	Slug        string
	Challenges  []string // absolute challenge directory paths, sorted
}

type groupMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Directories at the site root that are never challenge or group sources.
var ignoreDirs = map[string]bool{
	"dist":         true,
	"node_modules": true,
	"compiler":     true,
}

// DiscoverGroups walks the immediate children of root and returns grouped
// challenge directories in sorted order.
//
// A group directory contains a .group.json file and one or more challenge
// subdirectories (each optionally carrying .challenge.json). A top-level
// directory with .challenge.json but no surrounding group goes into the
// implicit ungrouped bucket. Malformed group metadata degrades to defaults.
func DiscoverGroups(root string) ([]Group, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading site root %s: %w", root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var groups []Group
	var ungrouped []string

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || ignoreDirs[name] || strings.HasPrefix(name, ".") {
			continue
		}
		dir := filepath.Join(root, name)

		raw, err := os.ReadFile(filepath.Join(dir, GroupFileName))
		switch {
		case err == nil:
			var meta groupMeta
			// Malformed metadata is not fatal; fall back to the dir name.
			_ = json.Unmarshal(raw, &meta)
			if meta.Name == "" {
				meta.Name = TitleFromSlug(name)
			}
			challenges, err := challengeDirs(dir)
			if err != nil {
				return nil, err
			}
			if len(challenges) > 0 {
				groups = append(groups, Group{
					Name:        meta.Name,
					Description: meta.Description,
					Slug:        name,
					Challenges:  challenges,
				})
			}
		case fileExists(filepath.Join(dir, MetaFileName)):
			ungrouped = append(ungrouped, dir)
		}
	}

	if len(ungrouped) > 0 {
		groups = append(groups, Group{
			Name:       "Ungrouped",
			Slug:       "_ungrouped",
			Challenges: ungrouped,
		})
	}
	return groups, nil
}

// AllChallenges flattens groups into a single ordered list of challenge
// directory paths.
func AllChallenges(groups []Group) []string {
	var all []string
	for _, g := range groups {
		all = append(all, g.Challenges...)
	}
	return all
}

func challengeDirs(groupDir string) ([]string, error) {
	entries, err := os.ReadDir(groupDir)
	if err != nil {
		return nil, fmt.Errorf("reading group %s: %w", groupDir, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			dirs = append(dirs, filepath.Join(groupDir, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
