// Package config provides the configuration system for tsweave pipelines.
// A pipeline configuration names a tabular source, an ordered list of
// transform stages, and a sink. Configurations load from YAML or JSON with
// environment variable substitution.
package config

import (
	"github.com/tsweave/tsweave/pkg/errors"
)

// PipelineConfig describes one batch transformation run.
type PipelineConfig struct {
	// Name identifies the pipeline in logs and metrics
	Name string `yaml:"name" json:"name"`

	// Source describes where the input frame comes from
	Source SourceConfig `yaml:"source" json:"source"`

	// Transforms are applied in order; each stage's output feeds the next
	Transforms []TransformConfig `yaml:"transforms" json:"transforms"`

	// Sink describes where the transformed frame goes
	Sink SinkConfig `yaml:"sink" json:"sink"`
}

// SourceConfig describes the CSV input.
type SourceConfig struct {
	// Path of the input CSV file
	Path string `yaml:"path" json:"path"`
	// TimeColumn names the column holding row timestamps; empty means a
	// synthetic range index
	TimeColumn string `yaml:"time_column" json:"time_column"`
	// TimeLayout is the Go time layout for parsing TimeColumn; defaults
	// to RFC 3339
	TimeLayout string `yaml:"time_layout" json:"time_layout"`
}

// SinkConfig describes the output.
type SinkConfig struct {
	// Path of the output file
	Path string `yaml:"path" json:"path"`
	// Format is "csv" (default) or "arrow"
	Format string `yaml:"format" json:"format"`
	// Compression is "none" (default), "gzip", or "zstd"; CSV only
	Compression string `yaml:"compression" json:"compression"`
}

// TransformConfig describes one transform stage. Kind selects the
// composition wrapper: "columnwise" broadcasts a single transformer over
// target columns, "ensemble" routes column groups to distinct
// transformers, and an empty kind applies the named transformer directly
// to the whole frame.
type TransformConfig struct {
	// Name labels the stage in logs and metrics
	Name string `yaml:"name" json:"name"`
	// Kind is "", "columnwise", or "ensemble"
	Kind string `yaml:"kind" json:"kind"`
	// Type names a registered transformer; the template for columnwise
	// and single-template ensemble stages
	Type string `yaml:"type" json:"type"`
	// Params are passed to the transformer factory
	Params map[string]interface{} `yaml:"params" json:"params"`
	// Columns are the columnwise target columns; empty means all
	Columns []string `yaml:"columns" json:"columns"`
	// Groups configure an ensemble stage
	Groups []GroupConfig `yaml:"groups" json:"groups"`
	// AllowOverlap permits a column in more than one ensemble group
	AllowOverlap bool `yaml:"allow_overlap" json:"allow_overlap"`
}

// GroupConfig describes one ensemble group.
type GroupConfig struct {
	// Name identifies the group; must be unique within the stage
	Name string `yaml:"name" json:"name"`
	// Type names a registered transformer, or the routing policies
	// "drop" / "passthrough"
	Type string `yaml:"type" json:"type"`
	// Params are passed to the transformer factory
	Params map[string]interface{} `yaml:"params" json:"params"`
	// Columns selects the group's columns by name
	Columns []string `yaml:"columns" json:"columns"`
	// Positions selects the group's columns by position; mutually
	// exclusive with Columns
	Positions []int `yaml:"positions" json:"positions"`
}

// Validate checks structural requirements of the configuration.
func (c *PipelineConfig) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "pipeline name is required")
	}
	if c.Source.Path == "" {
		return errors.New(errors.ErrorTypeConfig, "source path is required")
	}
	if c.Sink.Path == "" {
		return errors.New(errors.ErrorTypeConfig, "sink path is required")
	}
	switch c.Sink.Format {
	case "", "csv", "arrow":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown sink format %q", c.Sink.Format)
	}
	switch c.Sink.Compression {
	case "", "none", "gzip", "zstd":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown compression %q", c.Sink.Compression)
	}
	if c.Sink.Format == "arrow" && c.Sink.Compression != "" && c.Sink.Compression != "none" {
		return errors.New(errors.ErrorTypeConfig, "arrow sink does not take external compression")
	}
	if len(c.Transforms) == 0 {
		return errors.New(errors.ErrorTypeConfig, "at least one transform stage is required")
	}
	for i := range c.Transforms {
		if err := c.Transforms[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks one transform stage.
func (t *TransformConfig) Validate() error {
	if t.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "transform stage name is required")
	}
	switch t.Kind {
	case "", "columnwise":
		if t.Type == "" {
			return errors.Newf(errors.ErrorTypeConfig, "stage %q requires a transformer type", t.Name)
		}
		if len(t.Groups) > 0 {
			return errors.Newf(errors.ErrorTypeConfig, "stage %q: groups are only valid for ensemble stages", t.Name)
		}
	case "ensemble":
		if t.Type == "" && len(t.Groups) == 0 {
			return errors.Newf(errors.ErrorTypeConfig, "ensemble stage %q requires a template type or groups", t.Name)
		}
		for i := range t.Groups {
			g := &t.Groups[i]
			if g.Name == "" {
				return errors.Newf(errors.ErrorTypeConfig, "stage %q: group name is required", t.Name)
			}
			if g.Type == "" {
				return errors.Newf(errors.ErrorTypeConfig, "group %q requires a transformer type", g.Name)
			}
			if len(g.Columns) > 0 && len(g.Positions) > 0 {
				return errors.Newf(errors.ErrorTypeConfig, "group %q: columns and positions are mutually exclusive", g.Name)
			}
			if len(g.Columns) == 0 && len(g.Positions) == 0 {
				return errors.Newf(errors.ErrorTypeConfig, "group %q selects no columns", g.Name)
			}
		}
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown stage kind %q", t.Kind)
	}
	return nil
}
