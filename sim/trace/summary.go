package trace

// TraceSummary aggregates statistics from a NucleationTrace.
type TraceSummary struct {
	TotalTags         int         `yaml:"total_tags"`
	CoveredTags       int         `yaml:"covered_tags"`
	Renucleations     int         `yaml:"renucleations"`
	MeanDfunSite      float64     `yaml:"mean_dfun_site"`
	MaxCounter        int         `yaml:"max_liquid_cover_iters"`
	UniqueSites       int         `yaml:"unique_renucleated_sites"`
	SiteRenucleations map[int]int `yaml:"site_renucleations"` // site index → number of re-seeds
}

// Summarize computes aggregate statistics from a NucleationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(nt *NucleationTrace) *TraceSummary {
	summary := &TraceSummary{
		SiteRenucleations: make(map[int]int),
	}
	if nt == nil {
		return summary
	}

	summary.TotalTags = len(nt.Tags)
	if len(nt.Tags) > 0 {
		total := 0.0
		for _, t := range nt.Tags {
			if t.Covered {
				summary.CoveredTags++
			}
			if t.Counter > summary.MaxCounter {
				summary.MaxCounter = t.Counter
			}
			total += t.DfunSite
		}
		summary.MeanDfunSite = total / float64(len(nt.Tags))
	}

	for _, r := range nt.Renucleations {
		summary.SiteRenucleations[r.Site]++
	}
	summary.Renucleations = len(nt.Renucleations)
	summary.UniqueSites = len(summary.SiteRenucleations)

	return summary
}
