// Package corpus loads and evaluates corpora of sample routines.
//
// A sample pairs the code of a routine with the graph it builds and its
// recorded costs. A corpus file is YAML with a list of samples:
//
//	samples:
//	  - name: crown_6
//	    dsl_cost: 6
//	    naive_cost: 4
//	    adjacency_matrix:
//	      - [0, 1, 1, 0, 1, 1]
//	      ...
//	    code: |
//	      def crown_6():
//	          ...
//
// Since JSON is YAML, a directory of one-sample JSON files can be loaded with
// LoadDir as well.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sample is one entry of a corpus.
type Sample struct {
	Name            string  `yaml:"name"`
	AdjacencyMatrix [][]int `yaml:"adjacency_matrix,omitempty"`
	// Recorded cost of the routine. Nil if the routine is expected to be
	// rejected by the parser.
	DSLCost          *int    `yaml:"dsl_cost"`
	NaiveCost        int     `yaml:"naive_cost,omitempty"`
	CompressionRatio float64 `yaml:"compression_ratio,omitempty"`
	Code             string  `yaml:"code"`
}

// Corpus is an ordered list of samples with unique names.
type Corpus struct {
	Samples []Sample `yaml:"samples"`
}

// Layout of a corpus file: either a list of samples or a single sample.
type file struct {
	Samples []Sample `yaml:"samples"`
	Sample  `yaml:",inline"`
}

// ErrNoSamples is returned by LoadDir when the directory has no samples.
var ErrNoSamples = errors.New("no samples found")

// Load reads a corpus from r. An empty input is an empty corpus.
func Load(r io.Reader) (*Corpus, error) {
	samples, err := decode(r)
	if err != nil {
		return nil, err
	}
	c := &Corpus{}
	return c, c.add(samples...)
}

// LoadFile reads a corpus from the named file.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDir reads every *.json, *.yaml and *.yml file in dir, in name order,
// into one corpus.
func LoadDir(dir string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	c := &Corpus{}
	for _, name := range names {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		samples, err := decode(f)
		f.Close()
		if err == nil {
			err = c.add(samples...)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if len(c.Samples) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSamples)
	}
	return c, nil
}

func decode(r io.Reader) ([]Sample, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	if f.Samples != nil {
		if f.Sample.Name != "" || f.Sample.Code != "" {
			return nil, errors.New("file has both a samples list and sample fields")
		}
		return f.Samples, nil
	}
	if f.Sample.Name == "" && f.Sample.Code == "" {
		return nil, nil
	}
	return []Sample{f.Sample}, nil
}

func (c *Corpus) add(samples ...Sample) error {
	for _, s := range samples {
		if s.Name == "" {
			return fmt.Errorf("sample #%d has no name", len(c.Samples))
		}
		if c.Lookup(s.Name) != nil {
			return fmt.Errorf("duplicate sample %q", s.Name)
		}
		c.Samples = append(c.Samples, s)
	}
	return nil
}

// Lookup returns the sample with the given name, or nil.
func (c *Corpus) Lookup(name string) *Sample {
	for i := range c.Samples {
		if c.Samples[i].Name == name {
			return &c.Samples[i]
		}
	}
	return nil
}

// Write writes the corpus to w as YAML.
func (c *Corpus) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
