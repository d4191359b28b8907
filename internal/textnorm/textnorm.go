// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package textnorm cleans raw strings extracted from syllabus markup into
// canonical learning-objective form.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// startPhrases are stripped from the start of an objective when they appear
// as a whole leading word. Order matters: phrases are applied sequentially.
var startPhrases = []string{"de student", "je", "you"}

// startPhrasePatterns matches each start phrase at the beginning of a string,
// case-insensitively, followed by at least one whitespace character. The word
// boundary keeps "je" from matching inside "jerome".
var startPhrasePatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(startPhrases))
	for i, phrase := range startPhrases {
		patterns[i] = regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(phrase) + `\b\s+`)
	}
	return patterns
}()

// blockPhrases disqualify an extracted candidate when its lowercased form
// starts with one of them. These are section headings and boilerplate lead-ins
// on the syllabus pages, not objectives.
var blockPhrases = []string{
	"de student:",
	"in ",
	"general competences",
	"knowledge",
	"skills",
	"attitudes",
	"competences",
	"learning outcomes",
}

// listMarker matches one leading bullet character or numeric ordinal
// ("1." or "1)") plus any whitespace that follows it.
var listMarker = regexp.MustCompile(`^(?:[•\-*]|\d+[.)])\s*`)

// minObjectiveLen is the minimum trimmed length for a candidate to count as
// an objective. Anything shorter is a stray fragment.
const minObjectiveLen = 10

// NormalizeObjectives cleans each raw objective: trims, strips leading
// addressing phrases ("De student ...", "Je ...", "You ..."), drops one
// trailing period, and uppercases the first letter. Output order matches
// input order, and already-normalized input is a fixed point.
func NormalizeObjectives(raw []string) []string {
	cleaned := make([]string, 0, len(raw))
	for _, obj := range raw {
		cleaned = append(cleaned, normalizeObjective(obj))
	}
	return cleaned
}

func normalizeObjective(obj string) string {
	obj = strings.TrimSpace(obj)

	for _, pattern := range startPhrasePatterns {
		obj = pattern.ReplaceAllString(obj, "")
	}

	obj = strings.TrimSpace(strings.TrimSuffix(obj, "."))

	if obj == "" {
		return obj
	}
	r, size := utf8.DecodeRuneInString(obj)
	return string(unicode.ToUpper(r)) + obj[size:]
}

// CleanLabel strips one leading list-marker token (a bullet or a numeric
// ordinal) from the start of the string and returns the remainder.
func CleanLabel(text string) string {
	return listMarker.ReplaceAllString(strings.TrimSpace(text), "")
}

// IsValidObjective reports whether a trimmed candidate string qualifies as a
// learning objective: long enough and not starting with a known heading or
// boilerplate phrase.
func IsValidObjective(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minObjectiveLen {
		return false
	}
	lowered := strings.ToLower(trimmed)
	for _, phrase := range blockPhrases {
		if strings.HasPrefix(lowered, phrase) {
			return false
		}
	}
	return true
}

// Dedupe removes duplicate strings while preserving first-seen order, so the
// extraction output stays in document order.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
