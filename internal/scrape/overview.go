// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CourseRow is the raw projection of one visible overview-table row.
// Phase and Semester stay nil when their icon cannot be decoded; the row is
// still emitted as long as it carries a course code.
type CourseRow struct {
	ZCode            string
	CourseName       string
	Phase            *int
	PhaseIsMandatory bool
	Semester         *int
}

var (
	// phaseIconPattern decodes "icon-fase2-m.png": phase tier plus the
	// mandatory ("m") / optional ("o") marker.
	phaseIconPattern = regexp.MustCompile(`icon-fase(\d+)-([mo])\.png`)
	// phaseIconBare is the fallback without a mandatory marker; mandatory
	// defaults to false.
	phaseIconBare = regexp.MustCompile(`icon-fase(\d+)\.png`)
	// semesterIconPattern decodes "icon-semester-1.png".
	semesterIconPattern = regexp.MustCompile(`icon-semester-(\d+)\.png`)
)

// hiddenClasses are CSS classes that mark an overview row as not publicly
// visible. "intranet" rows are staff-only entries.
var hiddenClasses = []string{"hidden", "invisible", "intranet"}

// hiddenDataValues are data-attribute values that encode a hidden state.
var hiddenDataValues = map[string]bool{
	"false": true, "0": true, "no": true, "hidden": true,
}

// ExtractCourseRows locates the section whose h3 heading text equals
// sectionLabel (exact match after trimming, not substring, to avoid
// over-matching similarly named sections) and returns the visible course
// rows of its table. Rows without a code cell are dropped.
func ExtractCourseRows(doc *goquery.Document, sectionLabel string) []CourseRow {
	var heading *goquery.Selection
	doc.Find("h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == sectionLabel {
			heading = s
			return false
		}
		return true
	})
	if heading == nil {
		return nil
	}

	section := heading.Closest("li")
	if section.Length() == 0 {
		return nil
	}

	var rows []CourseRow
	section.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if isHidden(tr) {
			return
		}

		zCode := strings.TrimSpace(tr.Find("td.code").First().Text())
		if zCode == "" {
			return
		}

		row := CourseRow{
			ZCode:      zCode,
			CourseName: strings.TrimSpace(tr.Find("td.opleidingsonderdeel").First().Text()),
		}

		tr.Find("td.fase img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			src, ok := img.Attr("src")
			if !ok {
				return true
			}
			phase, mandatory, decoded := decodePhaseIcon(src)
			if !decoded {
				return true
			}
			row.Phase = &phase
			row.PhaseIsMandatory = mandatory
			return false
		})

		if src, ok := tr.Find("td.sem img").First().Attr("src"); ok {
			if m := semesterIconPattern.FindStringSubmatch(src); m != nil {
				if sem, err := strconv.Atoi(m[1]); err == nil {
					row.Semester = &sem
				}
			}
		}

		rows = append(rows, row)
	})
	return rows
}

// decodePhaseIcon extracts the phase tier and mandatory flag from a phase
// icon filename. The variant without an m/o marker decodes as optional.
func decodePhaseIcon(src string) (phase int, mandatory bool, ok bool) {
	if m := phaseIconPattern.FindStringSubmatch(src); m != nil {
		phase, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false, false
		}
		return phase, m[2] == "m", true
	}
	if m := phaseIconBare.FindStringSubmatch(src); m != nil {
		phase, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false, false
		}
		return phase, false, true
	}
	return 0, false, false
}

// isHidden reports whether an element is hidden from public view: inline
// style, a known hidden class, the boolean hidden attribute, aria-hidden,
// or a custom data attribute encoding a hidden/falsy visibility value.
func isHidden(s *goquery.Selection) bool {
	if style, ok := s.Attr("style"); ok {
		compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden") {
			return true
		}
	}

	for _, class := range hiddenClasses {
		if s.HasClass(class) {
			return true
		}
	}

	if _, ok := s.Attr("hidden"); ok {
		return true
	}

	if aria, ok := s.Attr("aria-hidden"); ok && strings.EqualFold(aria, "true") {
		return true
	}

	if len(s.Nodes) > 0 {
		for _, attr := range s.Nodes[0].Attr {
			if !strings.HasPrefix(attr.Key, "data-") {
				continue
			}
			if !strings.Contains(attr.Key, "hidden") && !strings.Contains(attr.Key, "visible") {
				continue
			}
			if hiddenDataValues[strings.ToLower(attr.Val)] {
				return true
			}
		}
	}

	return false
}
