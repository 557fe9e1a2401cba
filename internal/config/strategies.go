package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"paper-digest/internal/usecase/summarize"
)

// ErrUnknownStrategy is returned when the overrides file names a strategy that is not registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// StrategyOverride adjusts one registered strategy. Unset fields keep the built-in value.
type StrategyOverride struct {
	Timeout  *time.Duration `yaml:"timeout"`
	Priority *int           `yaml:"priority"`
	Enabled  *bool          `yaml:"enabled"`
}

// StrategyOverrides is the content of STRATEGIES_FILE:
//
//	strategies:
//	  remote:
//	    timeout: 8s
//	    priority: 0
//	  statistical:
//	    enabled: false
type StrategyOverrides struct {
	Strategies map[string]StrategyOverride `yaml:"strategies"`
}

// LoadStrategies reads overrides from path. An empty path yields no overrides.
// The path comes from STRATEGIES_FILE, set by the operator.
func LoadStrategies(path string) (*StrategyOverrides, error) {
	if path == "" {
		return &StrategyOverrides{}, nil
	}

	// #nosec G304 -- path is operator configuration, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategies file: %w", err)
	}
	return ParseStrategies(data)
}

// ParseStrategies decodes overrides from YAML. Unknown keys are rejected.
func ParseStrategies(data []byte) (*StrategyOverrides, error) {
	var overrides StrategyOverrides

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse strategies file: %w", err)
	}

	if err := overrides.validate(); err != nil {
		return nil, fmt.Errorf("strategies file validation failed: %w", err)
	}
	return &overrides, nil
}

func (o *StrategyOverrides) validate() error {
	var errs []error
	for _, id := range o.ids() {
		if t := o.Strategies[id].Timeout; t != nil && *t <= 0 {
			errs = append(errs, fmt.Errorf("%s: timeout must be positive", id))
		}
	}
	return errors.Join(errs...)
}

// Apply returns descriptors with the overrides applied and disabled strategies
// removed. Every overridden id must be one of the descriptors.
func (o *StrategyOverrides) Apply(descriptors []summarize.StrategyDescriptor) ([]summarize.StrategyDescriptor, error) {
	known := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		known[d.ID] = true
	}
	for _, id := range o.ids() {
		if !known[id] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, id)
		}
	}

	out := make([]summarize.StrategyDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		ov, ok := o.Strategies[d.ID]
		if !ok {
			out = append(out, d)
			continue
		}
		if ov.Enabled != nil && !*ov.Enabled {
			continue
		}
		if ov.Timeout != nil {
			d.Timeout = *ov.Timeout
		}
		if ov.Priority != nil {
			d.Priority = *ov.Priority
		}
		out = append(out, d)
	}
	return out, nil
}

// ids returns the overridden strategy ids in a stable order.
func (o *StrategyOverrides) ids() []string {
	ids := make([]string, 0, len(o.Strategies))
	for id := range o.Strategies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
