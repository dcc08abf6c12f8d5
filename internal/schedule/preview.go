package schedule

import (
	"github.com/cheerioskun/teesheet/internal/models"
)

// IndexPair identifies two rules by position, always with I < J
type IndexPair struct {
	I int `json:"i"`
	J int `json:"j"`
}

// RulePreview is the per-rule line of a preview
type RulePreview struct {
	TimeRange       string `json:"time_range"`
	IntervalMinutes int    `json:"interval_minutes"`
	Count           int    `json:"count"`
}

// PreviewSummary is derived from a rule list on every edit and never persisted
type PreviewSummary struct {
	PerRule          []RulePreview `json:"per_rule"`
	TotalCount       int           `json:"total_count"`
	HasOverlaps      bool          `json:"has_overlaps"`
	OverlappingPairs []IndexPair   `json:"overlapping_pairs"`
}

// DetectOverlaps reports every pair of rules whose wall-clock windows intersect.
//
// The check compares rules on a shared nominal day and ignores calendar
// dates. It is advisory only. Pairs come out ordered by I, then J.
func DetectOverlaps(rules []models.TimeSlotRule) []IndexPair {
	var pairs []IndexPair
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rules[i].Overlaps(rules[j]) {
				pairs = append(pairs, IndexPair{I: i, J: j})
			}
		}
	}
	return pairs
}

// Preview computes per-rule counts, the per-day total and overlap warnings
func Preview(rules []models.TimeSlotRule) PreviewSummary {
	summary := PreviewSummary{
		PerRule: make([]RulePreview, 0, len(rules)),
	}
	for _, rule := range rules {
		count := rule.Count()
		summary.PerRule = append(summary.PerRule, RulePreview{
			TimeRange:       rule.TimeRange(),
			IntervalMinutes: int(rule.IntervalMinutes),
			Count:           count,
		})
		summary.TotalCount += count
	}
	summary.OverlappingPairs = DetectOverlaps(rules)
	summary.HasOverlaps = len(summary.OverlappingPairs) > 0
	return summary
}

// Overlapping reports whether rule index takes part in any overlapping pair
func (s PreviewSummary) Overlapping(index int) bool {
	for _, pair := range s.OverlappingPairs {
		if pair.I == index || pair.J == index {
			return true
		}
	}
	return false
}

// ForDays returns the total tee times a range of days would produce
func (s PreviewSummary) ForDays(days int) int {
	if days <= 0 {
		return 0
	}
	return s.TotalCount * days
}
