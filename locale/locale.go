// Package locale resolves narration message slugs to display strings.
package locale

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table maps message slugs to localized strings.
type Table struct {
	strings map[string]string
}

// Default returns the built-in English table.
func Default() *Table {
	return &Table{strings: map[string]string{
		"unknown_command":  "I don't understand that.",
		"nothing_happens":  "Nothing happens.",
		"cannot_do_that":   "You can't do that.",
		"dry_run_notice":   "(You imagine doing it, but nothing actually changes.)",
		"goodbye":          "Goodbye.",
		"what_do_you_mean": "What do you want to do?",
	}}
}

// Load reads a YAML file of slug → string pairs, layered over the built-in
// table so packs only translate what they override.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	overrides := map[string]string{}
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("locale %s: %w", path, err)
	}
	t := Default()
	for slug, s := range overrides {
		t.strings[slug] = s
	}
	return t, nil
}

// Translate resolves a slug. Unknown slugs fall back to the slug itself, so
// untranslated pack content still reads as something.
func (t *Table) Translate(slug string) string {
	if s, ok := t.strings[slug]; ok {
		return s
	}
	return slug
}
