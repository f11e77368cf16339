package cmd

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/bubble-sim/bubble-sim/sim/output"
)

// SitesSummary aggregates a sites.csv file written by `run --output-dir`.
type SitesSummary struct {
	Steps         int            `yaml:"steps"`
	Sites         int            `yaml:"sites"`
	Renucleations int            `yaml:"renucleations"`
	MeanDfunSite  float64        `yaml:"mean_dfun_site"`
	CoveredRatio  float64        `yaml:"covered_ratio"` // fraction of records with dfun_site < 0
	PerSite       []SiteActivity `yaml:"per_site"`
}

// SiteActivity is the re-seed history of one site.
type SiteActivity struct {
	Site          int     `yaml:"site"`
	X             float64 `yaml:"x"`
	Renucleations int     `yaml:"renucleations"`
	FirstStep     int     `yaml:"first_step,omitempty"` // first re-seed, 0 if never
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <sites.csv|sites.csv.zst>",
	Short: "Summarize per-site records from a previous run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		records, err := output.ReadSites(args[0])
		if err != nil {
			logrus.Fatalf("Failed to read %s: %v", args[0], err)
		}
		data, err := yaml.Marshal(summarizeSites(records))
		if err != nil {
			logrus.Fatalf("YAML marshal failed: %v", err)
		}
		fmt.Print(string(data))
	},
}

// summarizeSites computes aggregate statistics over site records.
func summarizeSites(records []output.SiteRecord) SitesSummary {
	var s SitesSummary
	if len(records) == 0 {
		return s
	}

	bySite := make(map[int]*SiteActivity)
	dfun := make([]float64, len(records))
	covered := 0
	for i, r := range records {
		dfun[i] = r.DfunSite
		if r.DfunSite < 0 {
			covered++
		}
		if r.Step > s.Steps {
			s.Steps = r.Step
		}
		a, ok := bySite[r.Site]
		if !ok {
			a = &SiteActivity{Site: r.Site, X: r.X}
			bySite[r.Site] = a
		}
		if r.Renucleated {
			a.Renucleations++
			s.Renucleations++
			if a.FirstStep == 0 {
				a.FirstStep = r.Step
			}
		}
	}

	s.Sites = len(bySite)
	s.MeanDfunSite = stat.Mean(dfun, nil)
	s.CoveredRatio = float64(covered) / float64(len(records))
	for _, a := range bySite {
		s.PerSite = append(s.PerSite, *a)
	}
	sort.Slice(s.PerSite, func(i, j int) bool { return s.PerSite[i].Site < s.PerSite[j].Site })
	return s
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
