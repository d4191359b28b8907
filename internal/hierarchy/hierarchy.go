// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy derives parent/child relations between courses from
// their parent_course references. Children are computed, never stored: the
// result is a lookup of plain course projections, not a mutation of the
// input set, so cyclic references cannot recurse at this layer.
package hierarchy

import (
	"studiegids/internal/models"
)

// Node is one course together with its derived children. The child list
// holds bare course values; consumers that recurse through children of
// children must track visited codes themselves.
type Node struct {
	models.Course
	Childs []models.Course `json:"childs"`
}

// ChildIndex maps each parent code to the courses that reference it. A
// course referencing multiple parents appears under each of them, and a
// repeated reference is kept as-is. Self-references and unknown codes are
// ignored.
func ChildIndex(courses []models.Course) map[string][]models.Course {
	known := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		known[c.ZCode] = struct{}{}
	}

	index := make(map[string][]models.Course)
	for _, c := range courses {
		for _, parent := range c.ParentCodes() {
			if parent == c.ZCode {
				continue
			}
			if _, ok := known[parent]; !ok {
				continue
			}
			index[parent] = append(index[parent], c)
		}
	}
	return index
}

// BuildTree materializes a Node per course, in input order, with children
// resolved through ChildIndex.
func BuildTree(courses []models.Course) []Node {
	index := ChildIndex(courses)

	nodes := make([]Node, 0, len(courses))
	for _, c := range courses {
		nodes = append(nodes, Node{Course: c, Childs: index[c.ZCode]})
	}
	return nodes
}
