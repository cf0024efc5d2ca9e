package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabprof/internal/profile"
)

// Format names an output rendering.
type Format string

const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

// ParseFormat accepts markdown|md, json, yaml|yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (use markdown|json|yaml)", s)
}

// Ext is the file extension used when saving a rendering.
func (f Format) Ext() string {
	switch f {
	case JSON:
		return ".json"
	case YAML:
		return ".yaml"
	}
	return ".md"
}

// Document wraps a profile with the metadata of one profiling run.
type Document struct {
	ID          string           `json:"id" yaml:"id"`
	Source      string           `json:"source" yaml:"source"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Profile     *profile.Profile `json:"profile" yaml:"profile"`
	Warnings    []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// New stamps a profile with a fresh id and the current time.
func New(source string, p *profile.Profile, warnings []string) *Document {
	return &Document{
		ID:          uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Profile:     p,
		Warnings:    warnings,
	}
}

// Render encodes the document in the given format.
func (d *Document) Render(f Format) ([]byte, error) {
	switch f {
	case Markdown:
		return []byte(d.Markdown()), nil
	case JSON:
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(b, '\n'), nil
	case YAML:
		b, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown output format %q", f)
}

// maxPairs caps the correlation pairs listed in Markdown.
const maxPairs = 10

// Markdown renders a compact, human-readable summary.
func (d *Document) Markdown() string {
	var b strings.Builder
	p := d.Profile
	if p == nil {
		p = &profile.Profile{}
	}
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Source))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.RowCount))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", p.ColumnCount))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Columns {
		missPct := 0.0
		if p.RowCount > 0 {
			missPct = float64(c.MissingCount) * 100.0 / float64(p.RowCount)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (%s; missing %d, %.1f%%; distinct %d)",
			safeName(c.Name), c.Kind, c.DeclaredType, c.MissingCount, missPct, c.DistinctCount))
		switch s := c.Stats.(type) {
		case profile.NumericalStats:
			b.WriteString(fmt.Sprintf(" — min %s, max %s, mean %s, std %s, skew %s", s.Min, s.Max, s.Mean, s.Std, s.Skew))
		case profile.CategoricalStats:
			if s.Top != nil {
				b.WriteString(fmt.Sprintf(" — top: %s(%d)", safeVal(fmt.Sprint(s.Top)), s.FreqTop))
			}
		case profile.DatetimeStats:
			if s.Min != nil && s.Max != nil {
				b.WriteString(fmt.Sprintf(" — range %s .. %s", *s.Min, *s.Max))
			}
		}
		if len(c.SampleValues) > 0 {
			b.WriteString("; e.g., ")
			for i, v := range c.SampleValues {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(fmt.Sprint(v)))
			}
		}
		b.WriteString("\n")
	}

	numeric := make([]string, 0, len(p.Correlations))
	for _, c := range p.Columns {
		if c.Kind == profile.Numerical {
			numeric = append(numeric, c.Name)
		}
	}
	if len(numeric) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		undefined := 0
		for i := 0; i < len(numeric); i++ {
			for j := i + 1; j < len(numeric); j++ {
				r, ok := p.Correlations.Get(numeric[i], numeric[j])
				if !ok || !r.Defined {
					undefined++
					continue
				}
				pairs = append(pairs, pr{A: numeric[i], B: numeric[j], R: r.Value})
			}
		}
		sort.SliceStable(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > maxPairs {
			pairs = pairs[:maxPairs]
		}
		for _, pp := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pp.A, pp.B, pp.R))
		}
		if undefined > 0 {
			b.WriteString(fmt.Sprintf("- %d pair(s) undefined (constant column or fewer than 2 shared rows)\n", undefined))
		}
	}
	if len(d.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range d.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	if r := []rune(s); len(r) > 80 {
		s = string(r[:77]) + "..."
	}
	return s
}
