// pkg/config/types.go
package config

import "github.com/csafmatch/csafmatch/pkg/match"

// Config is the root configuration structure for the csafmatch
// application. It aggregates all other specific configuration structs.
type Config struct {
	Log       LogConfig       `description:"Logging configuration" koanf:"log"`
	Workspace WorkspaceConfig `description:"Workspace configuration" koanf:"workspace"`
	Match     MatchConfig     `description:"Matching configuration" koanf:"match"`
	Corpus    CorpusConfig    `description:"Cleaning corpus configuration" koanf:"corpus"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format"`
	File   string `description:"Log file path (optional)" koanf:"file"`
}

// WorkspaceConfig holds the run workspace settings.
type WorkspaceConfig struct {
	Dir      string `description:"Workspace root directory" koanf:"dir"`
	Disabled bool   `description:"Disable workspace artifacts (audit logs, result exports)" koanf:"disabled"`
}

// MatchConfig holds the decision thresholds and product token-group
// weights for the matching engine.
type MatchConfig struct {
	Thresholds    match.Thresholds     `description:"Decision thresholds, each in [0,100]" koanf:"thresholds"`
	NameWeights   match.ProductWeights `description:"Token-group weights for product names" koanf:"name_weights"`
	FamilyWeights match.ProductWeights `description:"Token-group weights for product families" koanf:"family_weights"`
}

// CorpusConfig points at the external cleaning corpus files. Empty
// paths fall back to the corpora compiled into the binary.
type CorpusConfig struct {
	Synonyms string `description:"Synonym dictionary YAML (empty: embedded default)" koanf:"synonyms"`
	Patterns string `description:"Vendor patterns and keywords YAML (empty: embedded default)" koanf:"patterns"`
}
