// pkg/config/config.go
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/csafmatch/csafmatch/pkg/match"
)

// Global Koanf instance, initialized once at startup.
var (
	k    *koanf.Koanf
	once sync.Once
)

// InitGlobalConfig initializes the global Koanf instance. This should
// be called early in the application lifecycle, before Load.
func InitGlobalConfig() {
	once.Do(func() {
		k = koanf.New(".")
	})
}

// Manager handles loading, validating, and accessing application
// configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	validate      *validator.Validate
	mu            sync.RWMutex // protects currentConfig during runtime updates
}

// NewManager creates a new Manager. It initializes the global Koanf
// instance if not already done.
func NewManager() *Manager {
	InitGlobalConfig()
	return &Manager{
		koanfInstance: k,
		validate:      validator.New(),
	}
}

// DefaultConfig returns a Config populated with hardcoded default
// values. These serve as the baseline if no other sources override them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Workspace: WorkspaceConfig{
			Dir:      "", // resolved to ~/.csafmatch by the workspace package
			Disabled: false,
		},
		Match: MatchConfig{
			Thresholds:    match.DefaultThresholds(),
			NameWeights:   match.DefaultNameWeights,
			FamilyWeights: match.DefaultFamilyWeights,
		},
		Corpus: CorpusConfig{},
	}
}

// Load merges all configuration sources in priority order and
// validates the result.
func (m *Manager) Load(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := make([]ConfigSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	for _, src := range ordered {
		if err := src.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("loading config source %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	if err := m.validate.Struct(newCfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	m.currentConfig = newCfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// DefaultConfigAsMap flattens DefaultConfig for koanf's confmap
// provider, so every key is known before higher-priority sources load.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		"workspace.dir":      def.Workspace.Dir,
		"workspace.disabled": def.Workspace.Disabled,

		"match.thresholds.vendor":  def.Match.Thresholds.Vendor,
		"match.thresholds.family":  def.Match.Thresholds.Family,
		"match.thresholds.name":    def.Match.Thresholds.Name,
		"match.thresholds.keyword": def.Match.Thresholds.Keyword,
		"match.thresholds.version": def.Match.Thresholds.Version,

		"match.name_weights.alphabetic": def.Match.NameWeights.Alphabetic,
		"match.name_weights.numeric":    def.Match.NameWeights.Numeric,
		"match.name_weights.mixed":      def.Match.NameWeights.Mixed,

		"match.family_weights.alphabetic": def.Match.FamilyWeights.Alphabetic,
		"match.family_weights.numeric":    def.Match.FamilyWeights.Numeric,
		"match.family_weights.mixed":      def.Match.FamilyWeights.Mixed,

		"corpus.synonyms": def.Corpus.Synonyms,
		"corpus.patterns": def.Corpus.Patterns,
	}
}

// BindFlags defines command-line flags corresponding to configuration
// settings. These allow overriding config file and environment values.
func BindFlags(flags *pflag.FlagSet) {
	def := DefaultConfig()

	flags.Int("match.thresholds.vendor", def.Match.Thresholds.Vendor, "Vendor score threshold [0,100]")
	flags.Int("match.thresholds.family", def.Match.Thresholds.Family, "Product family score threshold [0,100]")
	flags.Int("match.thresholds.name", def.Match.Thresholds.Name, "Product name score threshold [0,100]")
	flags.Int("match.thresholds.keyword", def.Match.Thresholds.Keyword, "Keyword score threshold [0,100]")
	flags.Int("match.thresholds.version", def.Match.Thresholds.Version, "Version score threshold [0,100]")

	flags.String("corpus.synonyms", def.Corpus.Synonyms, "Synonym dictionary YAML (empty: embedded default)")
	flags.String("corpus.patterns", def.Corpus.Patterns, "Vendor patterns YAML (empty: embedded default)")

	var flagvar bool
	flags.BoolVar(&flagvar, "debug", false, "Enable debug logging")
}
