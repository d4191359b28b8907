// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"studiegids/internal/textnorm"
)

// Detail holds the extracted content of one syllabus page.
type Detail struct {
	Objectives       []string
	LearningContents string
}

// contentAllowedAttrs are the only attributes kept on a learning-contents
// container when it is serialized.
var contentAllowedAttrs = map[string]bool{"id": true, "class": true}

// ExtractDetail pulls the learning objectives and the learning-contents HTML
// out of a syllabus page. A missing container degrades to an empty field;
// extraction never fails for the whole page.
func ExtractDetail(doc *goquery.Document) Detail {
	return Detail{
		Objectives:       extractObjectives(doc),
		LearningContents: extractLearningContents(doc),
	}
}

// extractObjectives collects objective candidates from the doelstellingen
// tab: every list item's text, plus every paragraph's text split at <br>
// boundaries. Candidates are filtered, deduplicated in document order, and
// normalized.
func extractObjectives(doc *goquery.Document) []string {
	container := doc.Find(`[id^="tab_doelstellingen_idp"]`).First()
	if container.Length() == 0 {
		return nil
	}

	var candidates []string

	container.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(normalizeSpaces(li.Text()))
		if textnorm.IsValidObjective(text) {
			candidates = append(candidates, text)
		}
	})

	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if len(p.Nodes) == 0 {
			return
		}
		for _, part := range strings.Split(textWithBreaks(p.Nodes[0]), "\n") {
			text := textnorm.CleanLabel(normalizeSpaces(part))
			if textnorm.IsValidObjective(text) {
				candidates = append(candidates, text)
			}
		}
	})

	return textnorm.NormalizeObjectives(textnorm.Dedupe(candidates))
}

// extractLearningContents serializes every tab_inhoud_*_content container,
// with print-only elements removed and all container attributes stripped
// except id and class. Surviving fragments are joined with a newline.
func extractLearningContents(doc *goquery.Document) string {
	var fragments []string

	doc.Find(`div[id^="tab_inhoud_"][id$="_content"]`).Each(func(_ int, div *goquery.Selection) {
		div.Find(".print_only").Remove()

		if len(div.Nodes) > 0 {
			node := div.Nodes[0]
			kept := node.Attr[:0]
			for _, attr := range node.Attr {
				if contentAllowedAttrs[attr.Key] {
					kept = append(kept, attr)
				}
			}
			node.Attr = kept
		}

		fragment, err := goquery.OuterHtml(div)
		if err != nil {
			return
		}
		if fragment = strings.TrimSpace(fragment); fragment != "" {
			fragments = append(fragments, fragment)
		}
	})

	return strings.Join(fragments, "\n")
}

// textWithBreaks renders the text content of a node, emitting a newline for
// every <br> so paragraph lines can be split apart afterwards.
func textWithBreaks(node *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteString("\n")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return sb.String()
}

// normalizeSpaces replaces non-breaking spaces with regular spaces.
func normalizeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", " ")
}
