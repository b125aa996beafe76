// Package catalog holds the enumerated metric and dimension sets a
// deployment exposes: which GA4 metrics exist, how each one aggregates,
// the named dataset bundles the dashboard queries, and the funnel stage
// definitions. The catalog is explicit call-time configuration, not
// ambient state; handlers and commands receive it and pass the relevant
// specs into the engine.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"gopkg.in/yaml.v3"
)

// Dataset is a named dimension/metric bundle queried as one report.
type Dataset struct {
	Name       string   `yaml:"name"`
	Dimensions []string `yaml:"dimensions"`
	Metrics    []string `yaml:"metrics"`
}

type metricEntry struct {
	Name         string `yaml:"name"`
	Aggregation  string `yaml:"aggregation"`
	WeightMetric string `yaml:"weight_metric"`
}

type stageEntry struct {
	Name   string `yaml:"name"`
	Metric string `yaml:"metric"`
}

type funnelEntry struct {
	Name   string       `yaml:"name"`
	Stages []stageEntry `yaml:"stages"`
}

type file struct {
	Metrics    []metricEntry `yaml:"metrics"`
	Dimensions []string      `yaml:"dimensions"`
	Datasets   []Dataset     `yaml:"datasets"`
	Funnels    []funnelEntry `yaml:"funnels"`
}

// Catalog is immutable after construction.
type Catalog struct {
	metrics    map[string]domain.MetricSpec
	order      []string
	dimensions []string
	datasets   map[string]Dataset
	funnels    map[string][]domain.StageDef
}

// Load reads a catalog from a YAML file. An empty path returns the
// compiled-in defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return build(f)
}

func build(f file) (*Catalog, error) {
	c := &Catalog{
		metrics:    make(map[string]domain.MetricSpec, len(f.Metrics)),
		dimensions: f.Dimensions,
		datasets:   make(map[string]Dataset, len(f.Datasets)),
		funnels:    make(map[string][]domain.StageDef, len(f.Funnels)),
	}

	for _, m := range f.Metrics {
		agg := domain.Aggregation(m.Aggregation)
		if agg != domain.AggregationAdditive && agg != domain.AggregationPreAggregated {
			return nil, fmt.Errorf("metric %q: unknown aggregation %q", m.Name, m.Aggregation)
		}
		if _, dup := c.metrics[m.Name]; dup {
			return nil, fmt.Errorf("metric %q declared twice", m.Name)
		}
		c.metrics[m.Name] = domain.MetricSpec{
			Name:         m.Name,
			Aggregation:  agg,
			WeightMetric: m.WeightMetric,
		}
		c.order = append(c.order, m.Name)
	}

	for _, ds := range f.Datasets {
		if len(ds.Metrics) == 0 {
			return nil, fmt.Errorf("dataset %q has no metrics", ds.Name)
		}
		for _, m := range ds.Metrics {
			if _, ok := c.metrics[m]; !ok {
				return nil, fmt.Errorf("dataset %q references unknown metric %q", ds.Name, m)
			}
		}
		c.datasets[ds.Name] = ds
	}

	for _, fn := range f.Funnels {
		stages := make([]domain.StageDef, 0, len(fn.Stages))
		for _, s := range fn.Stages {
			stages = append(stages, domain.StageDef{Name: s.Name, Metric: s.Metric})
		}
		c.funnels[fn.Name] = stages
	}

	return c, nil
}

// Spec returns the classification for one metric.
func (c *Catalog) Spec(metric string) (domain.MetricSpec, error) {
	spec, ok := c.metrics[metric]
	if !ok {
		return domain.MetricSpec{}, fmt.Errorf("metric %q is not in the catalog", metric)
	}
	return spec, nil
}

// Specs resolves a metric list into classification specs, preserving
// order.
func (c *Catalog) Specs(metrics []string) ([]domain.MetricSpec, error) {
	specs := make([]domain.MetricSpec, 0, len(metrics))
	for _, m := range metrics {
		spec, err := c.Spec(m)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Metrics lists all catalog metrics in declaration order.
func (c *Catalog) Metrics() []domain.MetricSpec {
	out := make([]domain.MetricSpec, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.metrics[name])
	}
	return out
}

func (c *Catalog) Dimensions() []string {
	out := make([]string, len(c.dimensions))
	copy(out, c.dimensions)
	return out
}

// Dataset returns a named dimension/metric bundle.
func (c *Catalog) Dataset(name string) (Dataset, error) {
	ds, ok := c.datasets[name]
	if !ok {
		return Dataset{}, fmt.Errorf("dataset %q is not in the catalog", name)
	}
	return ds, nil
}

// Datasets lists all datasets sorted by name.
func (c *Catalog) Datasets() []Dataset {
	out := make([]Dataset, 0, len(c.datasets))
	for _, ds := range c.datasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Funnel returns the stage definitions for a named funnel.
func (c *Catalog) Funnel(name string) ([]domain.StageDef, error) {
	stages, ok := c.funnels[name]
	if !ok {
		return nil, fmt.Errorf("funnel %q is not in the catalog", name)
	}
	out := make([]domain.StageDef, len(stages))
	copy(out, stages)
	return out, nil
}
