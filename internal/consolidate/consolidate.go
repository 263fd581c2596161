// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package consolidate merges PII detections from multiple independent
// sources into one authoritative entity list. Detectors frequently report
// the same stretch of text with different spans, types, or confidence
// scores; downstream redaction requires a single non-overlapping list, so
// every cluster of overlapping spans is collapsed to exactly one winner.
package consolidate

import (
	"fmt"
	"sort"

	"transcript-scrub/internal/detector"
)

// Overlaps reports whether the half-open spans of two entities intersect.
// Spans that merely touch at a boundary (a.EndPos == b.StartPos) do not
// overlap.
func Overlaps(a, b detector.PIIEntity) bool {
	return a.StartPos < b.EndPos && b.StartPos < a.EndPos
}

// Merge combines one or more entity lists (typically one per detection
// source) for the same text into a single list that is sorted by StartPos
// ascending and free of overlaps. Within each cluster of mutually
// overlapping spans exactly one entity survives, chosen by
// detector.PIIEntity.Beats: highest confidence, then source priority, then
// span length, then stable input order. The winner is emitted with its own
// span and text; the union of a cluster's spans is tracked only to decide
// whether later spans belong to the same cluster, never re-emitted as an
// artificial merged span.
//
// Merge is idempotent: a list that is already non-overlapping comes back
// with the same spans, only reordered to ascending StartPos.
func Merge(lists ...[]detector.PIIEntity) []detector.PIIEntity {
	var all []detector.PIIEntity
	for _, list := range lists {
		all = append(all, list...)
	}
	if len(all) == 0 {
		return nil
	}

	// Longer spans starting at the same position are considered first. The
	// stable sort preserves input order across full ties, which makes the
	// first-encountered-wins rule deterministic.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].StartPos != all[j].StartPos {
			return all[i].StartPos < all[j].StartPos
		}
		return all[i].EndPos > all[j].EndPos
	})

	consolidated := make([]detector.PIIEntity, 0, len(all))
	winner := all[0]
	clusterEnd := all[0].EndPos

	for _, entity := range all[1:] {
		// Entities arrive in ascending start order, so a span belongs to
		// the current cluster exactly when it starts before the cluster's
		// union extent ends.
		if entity.StartPos < clusterEnd {
			if entity.Beats(winner) {
				winner = entity
			}
			if entity.EndPos > clusterEnd {
				clusterEnd = entity.EndPos
			}
			continue
		}

		consolidated = append(consolidated, winner)
		winner = entity
		clusterEnd = entity.EndPos
	}

	return append(consolidated, winner)
}

// VerifyNonOverlapping checks the precondition that an already-consolidated
// entity list contains no overlapping spans. It does not require the input
// to be sorted.
func VerifyNonOverlapping(entities []detector.PIIEntity) error {
	if len(entities) < 2 {
		return nil
	}

	sorted := make([]detector.PIIEntity, len(entities))
	copy(sorted, entities)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartPos < sorted[j].StartPos
	})

	for i := 1; i < len(sorted); i++ {
		if Overlaps(sorted[i-1], sorted[i]) {
			return fmt.Errorf("overlapping entities: %s and %s", sorted[i-1], sorted[i])
		}
	}
	return nil
}
