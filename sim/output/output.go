// Package output writes structured run output: per-site CSV records, the
// run configuration and the end-of-run trace summary.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/bubble-sim/bubble-sim/sim"
	"github.com/bubble-sim/bubble-sim/sim/trace"
)

// SitesFile and SitesFileCompressed are the per-site record file names.
const (
	SitesFile           = "sites.csv"
	SitesFileCompressed = "sites.csv.zst"
	ConfigFile          = "config.yaml"
	SummaryFile         = "summary.yaml"
)

// SiteRecord is one CSV row: the state of one site after one step.
type SiteRecord struct {
	Step        int     `csv:"step"`
	Site        int     `csv:"site"`
	X           float64 `csv:"x"`
	DfunSite    float64 `csv:"dfun_site"`
	Counter     int     `csv:"liquid_cover_iters"`
	Renucleated bool    `csv:"renucleated"`
}

// StepRecords converts one step result into one record per site.
func StepRecords(res sim.StepResult, sites sim.Sites) []SiteRecord {
	fired := make(map[int]bool, len(res.Renucleated))
	for _, i := range res.Renucleated {
		fired[i] = true
	}
	records := make([]SiteRecord, len(res.DfunSites))
	for i, d := range res.DfunSites {
		records[i] = SiteRecord{
			Step:        res.Step,
			Site:        i,
			X:           sites.X[i],
			DfunSite:    d,
			Counter:     res.Counters[i],
			Renucleated: fired[i],
		}
	}
	return records
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir   string
	file  *os.File
	zw    *zstd.Encoder
	sites io.Writer

	headerWritten bool
}

// NewOutputManager creates the output directory and opens the site record
// file, zstd-compressed when compress is set.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string, compress bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	name := SitesFile
	if compress {
		name = SitesFileCompressed
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}

	om := &OutputManager{dir: dir, file: f, sites: f}
	if compress {
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		om.zw = zw
		om.sites = zw
	}
	return om, nil
}

// WriteSites appends one step's site records.
func (om *OutputManager) WriteSites(records []SiteRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}

	if !om.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.sites); err != nil {
			return fmt.Errorf("writing site records: %w", err)
		}
		om.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.sites); err != nil {
			return fmt.Errorf("writing site records: %w", err)
		}
	}
	return nil
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(b *sim.RunBundle) error {
	if om == nil || b == nil {
		return nil
	}
	return b.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteSummary saves the trace summary as YAML.
func (om *OutputManager) WriteSummary(summary *trace.TraceSummary) error {
	if om == nil || summary == nil {
		return nil
	}
	return writeYAML(filepath.Join(om.dir, SummaryFile), summary)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the site record file. Safe to call twice.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.zw != nil {
		if err := om.zw.Close(); err != nil {
			firstErr = err
		}
		om.zw = nil
	}
	if om.file != nil {
		if err := om.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		om.file = nil
	}
	return firstErr
}

// ReadSites reads site records back from a sites.csv or sites.csv.zst file.
func ReadSites(path string) ([]SiteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".zst" {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var records []SiteRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading site records: %w", err)
	}
	return records, nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
