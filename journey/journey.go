// Package journey loads the reel content: named phases, each an ordered list
// of moments, flattened into gallery items.
package journey

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trgs-studio/nightreel/gallery"
)

//go:embed sample.yaml
var sampleYAML []byte

// ErrEmpty is returned for content without any items.
var ErrEmpty = errors.New("journey: no items")

// Moment is one entry of a phase.
type Moment struct {
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
	Image   string `yaml:"image"`
	Alt     string `yaml:"alt,omitempty"`
	// Placeholder marks moments whose image is not available yet.
	Placeholder bool `yaml:"placeholder,omitempty"`
}

// Phase is a named run of moments.
type Phase struct {
	Name  string   `yaml:"name"`
	Items []Moment `yaml:"items"`
}

// Journey is the whole reel.
type Journey struct {
	Phases []Phase `yaml:"phases"`
}

// Load reads a journey document. Relative image paths resolve against the
// document's directory. An empty path loads the built-in sample.
func Load(path string) (*Journey, error) {
	if path == "" {
		return Parse(sampleYAML, "")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading journey: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes a journey document, resolving relative image paths against
// base when it is not empty.
func Parse(data []byte, base string) (*Journey, error) {
	j := &Journey{}
	if err := yaml.Unmarshal(data, j); err != nil {
		return nil, fmt.Errorf("parsing journey: %w", err)
	}
	if j.Len() == 0 {
		return nil, ErrEmpty
	}
	for pi := range j.Phases {
		p := &j.Phases[pi]
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("journey: phase %d has no name", pi)
		}
		for mi := range p.Items {
			m := &p.Items[mi]
			if m.Placeholder {
				m.Image = ""
				continue
			}
			if base != "" && m.Image != "" && !isURL(m.Image) && !filepath.IsAbs(m.Image) {
				m.Image = filepath.Join(base, m.Image)
			}
		}
	}
	return j, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "file://")
}

// Len returns the total number of moments.
func (j *Journey) Len() int {
	n := 0
	for _, p := range j.Phases {
		n += len(p.Items)
	}
	return n
}

// Flatten returns every moment in order as gallery items. The caption is the
// tile text; the alt text falls back to the title.
func (j *Journey) Flatten() []gallery.Item {
	out := make([]gallery.Item, 0, j.Len())
	for _, p := range j.Phases {
		for _, m := range p.Items {
			alt := m.Alt
			if alt == "" {
				alt = m.Title
			}
			out = append(out, gallery.Item{Image: m.Image, Text: m.Caption, Alt: alt})
		}
	}
	return out
}

// PhaseAt returns the phase containing the flattened index idx. Indices past
// the end map to the last phase; ok is false only for negative indices or an
// empty journey.
func (j *Journey) PhaseAt(idx int) (Phase, bool) {
	if idx < 0 || len(j.Phases) == 0 {
		return Phase{}, false
	}
	count := 0
	for _, p := range j.Phases {
		count += len(p.Items)
		if idx < count {
			return p, true
		}
	}
	return j.Phases[len(j.Phases)-1], true
}

// Outline lists every moment as "phase - title: caption", the text
// equivalent of the reel.
func (j *Journey) Outline() []string {
	out := make([]string, 0, j.Len())
	for _, p := range j.Phases {
		for _, m := range p.Items {
			out = append(out, fmt.Sprintf("%s - %s: %s", p.Name, m.Title, m.Caption))
		}
	}
	return out
}
