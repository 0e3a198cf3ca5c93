package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/envreport/internal/standards"
)

// DefaultVerdict is used when the constants file has no "verdict" conclusion.
const DefaultVerdict = "This analysis revealed that the observed monitoring parameter(s) consistently adhered to the national standards across all monitored locations at the project site."

// Constants is the report constants file.
type Constants struct {
	ConsultancyName string              `json:"consultancy_name"`
	OutputDir       string              `json:"output_dir"`
	StructureFile   string              `json:"structure_file"`
	Conclusions     map[string]string   `json:"conclusions"`
	Standards       standards.Standards `json:"standards,omitempty"`
}

// LoadConstants reads and validates a constants file. A relative
// structure_file is resolved against the constants file's directory when it
// does not exist relative to the working directory.
func LoadConstants(path string) (*Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read constants: %w", ErrConfig, err)
	}
	var c Constants
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: parse constants %s: %w", ErrConfig, path, err)
	}
	if c.StructureFile == "" {
		return nil, fmt.Errorf("%w: constants %s: structure_file is required", ErrConfig, path)
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if !filepath.IsAbs(c.StructureFile) {
		if _, err := os.Stat(c.StructureFile); err != nil {
			c.StructureFile = filepath.Join(filepath.Dir(path), c.StructureFile)
		}
	}

	// Conclusion keys are matched against lower-cased parameters.
	lowered := make(map[string]string, len(c.Conclusions))
	for k, v := range c.Conclusions {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}
	c.Conclusions = lowered
	return &c, nil
}

// Conclusion returns the conclusion text for a parameter.
func (c *Constants) Conclusion(parameter string) (string, bool) {
	if c == nil {
		return "", false
	}
	text, ok := c.Conclusions[strings.ToLower(strings.TrimSpace(parameter))]
	if !ok || strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// Verdict returns the closing verdict paragraph for the conclusion section.
func (c *Constants) Verdict() string {
	if text, ok := c.Conclusion("verdict"); ok {
		return text
	}
	return DefaultVerdict
}

// Limits returns the built-in standards merged with any overrides.
func (c *Constants) Limits() standards.Standards {
	if c == nil {
		return standards.Defaults()
	}
	return standards.Defaults().Merge(c.Standards)
}
