// Package normalize implements the string-cleaning pipeline that turns
// raw vendor, product, and version text into the canonical modified
// columns the matching stage scores on.
package normalize

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed data/patterns.yaml
var embeddedPatterns []byte

// Config is the cleaning corpus: phrase-deletion rules for vendor
// strings, vendor-detection regexes for product fields, and the
// function-keyword list. All regexes are applied case-insensitively.
type Config struct {
	PhraseDeletions  []*regexp.Regexp
	VendorPatterns   []VendorPattern
	FunctionKeywords []string
}

// VendorPattern maps one canonical vendor name to the regex patterns
// that recognize its product naming conventions. Patterns are kept in
// corpus order so detection is deterministic.
type VendorPattern struct {
	Vendor   string
	Patterns []*regexp.Regexp
}

// LoadEmbeddedPatterns parses the corpus compiled into the binary.
func LoadEmbeddedPatterns() (*Config, error) {
	return ParsePatterns(embeddedPatterns)
}

// LoadPatternsFile parses a corpus override from disk.
func LoadPatternsFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns file: %w", err)
	}
	cfg, err := ParsePatterns(data)
	if err != nil {
		return nil, fmt.Errorf("parsing patterns file %s: %w", path, err)
	}
	return cfg, nil
}

// ParsePatterns parses and compiles a YAML cleaning corpus.
func ParsePatterns(data []byte) (*Config, error) {
	var raw struct {
		PhraseDeletions  []string  `yaml:"phrase_deletions"`
		VendorPatterns   yaml.Node `yaml:"vendor_patterns"`
		FunctionKeywords []string  `yaml:"function_keywords"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing patterns: %w", err)
	}

	cfg := &Config{FunctionKeywords: raw.FunctionKeywords}
	for _, pat := range raw.PhraseDeletions {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("compiling phrase rule %q: %w", pat, err)
		}
		cfg.PhraseDeletions = append(cfg.PhraseDeletions, re)
	}

	// Walk the mapping node directly so vendors keep corpus order.
	if raw.VendorPatterns.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(raw.VendorPatterns.Content); i += 2 {
			keyNode := raw.VendorPatterns.Content[i]
			valNode := raw.VendorPatterns.Content[i+1]
			vp := VendorPattern{Vendor: keyNode.Value}
			var pats []string
			if err := valNode.Decode(&pats); err != nil {
				return nil, fmt.Errorf("decoding patterns for vendor %q: %w", keyNode.Value, err)
			}
			for _, pat := range pats {
				re, err := regexp.Compile("(?i)" + pat)
				if err != nil {
					return nil, fmt.Errorf("compiling vendor pattern %q for %q: %w", pat, keyNode.Value, err)
				}
				vp.Patterns = append(vp.Patterns, re)
			}
			cfg.VendorPatterns = append(cfg.VendorPatterns, vp)
		}
	}
	return cfg, nil
}
