package trace

import (
	"math"
	"testing"
)

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalTags != 0 || summary.Renucleations != 0 {
		t.Error("expected zero counts for nil trace")
	}
	if summary.SiteRenucleations == nil {
		t.Error("expected non-nil site map")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	nt := NewNucleationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(nt)

	// THEN all counts are zero
	if summary.TotalTags != 0 || summary.CoveredTags != 0 {
		t.Error("expected 0 tags")
	}
	if summary.Renucleations != 0 || summary.UniqueSites != 0 {
		t.Error("expected 0 renucleations")
	}
	if summary.MeanDfunSite != 0 || summary.MaxCounter != 0 {
		t.Error("expected zero statistics")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed tags and renucleations
	nt := NewNucleationTrace(TraceConfig{Level: TraceLevelDecisions})
	nt.RecordTag(TagRecord{Step: 1, Site: 0, DfunSite: -0.5, Counter: 3, Covered: true})
	nt.RecordTag(TagRecord{Step: 1, Site: 1, DfunSite: 0.1, Counter: 0})
	nt.RecordTag(TagRecord{Step: 2, Site: 0, DfunSite: -0.2, Counter: 4, Covered: true})
	nt.RecordRenucleation(RenucleationRecord{Step: 2, Site: 0, CounterBefore: 4})
	nt.RecordRenucleation(RenucleationRecord{Step: 6, Site: 0, CounterBefore: 4})
	nt.RecordRenucleation(RenucleationRecord{Step: 6, Site: 2, CounterBefore: 5})

	// WHEN summarized
	summary := Summarize(nt)

	// THEN counts match
	if summary.TotalTags != 3 {
		t.Errorf("expected 3 tags, got %d", summary.TotalTags)
	}
	if summary.CoveredTags != 2 {
		t.Errorf("expected 2 covered tags, got %d", summary.CoveredTags)
	}
	if summary.MaxCounter != 4 {
		t.Errorf("expected max counter 4, got %d", summary.MaxCounter)
	}
	if math.Abs(summary.MeanDfunSite-(-0.2)) > 1e-12 {
		t.Errorf("expected mean -0.2, got %v", summary.MeanDfunSite)
	}
	if summary.Renucleations != 3 || summary.UniqueSites != 2 {
		t.Errorf("expected 3 renucleations over 2 sites, got %d over %d", summary.Renucleations, summary.UniqueSites)
	}
	if summary.SiteRenucleations[0] != 2 {
		t.Errorf("expected site 0 re-seeded twice, got %d", summary.SiteRenucleations[0])
	}
}
