// Package am loads the wtu configuration: which tasks the pipeline runs,
// where their index backends live and how the batch driver schedules work.
package am

// Config represents the wtu configuration
type Config struct {
	Database          DatabaseConfig          `mapstructure:"database" toml:"database"`
	Pipeline          PipelineConfig          `mapstructure:"pipeline" toml:"pipeline"`
	EntityLinking     EntityLinkingConfig     `mapstructure:"entity_linking" toml:"entity_linking"`
	LiteralLinking    LiteralLinkingConfig    `mapstructure:"literal_linking" toml:"literal_linking"`
	LanguageDetection LanguageDetectionConfig `mapstructure:"language_detection" toml:"language_detection"`
	ClassLinking      ClassLinkingConfig      `mapstructure:"class_linking" toml:"class_linking"`
	PropertyLinking   PropertyLinkingConfig   `mapstructure:"property_linking" toml:"property_linking"`
	Pulse             PulseConfig             `mapstructure:"pulse" toml:"pulse"`
}

// DatabaseConfig configures the SQLite database holding the sqlite index
// backends and the record store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// PipelineConfig configures the task sequence run on every table
type PipelineConfig struct {
	Tasks  []string `mapstructure:"tasks" toml:"tasks"`   // task names in execution order
	Source string   `mapstructure:"source" toml:"source"` // source label written on every annotation
}

// IndexConfig locates one lookup backend
type IndexConfig struct {
	Backend   string `mapstructure:"backend" toml:"backend"`       // csv or sqlite
	IndexPath string `mapstructure:"index_path" toml:"index_path"` // csv backends only
	Delimiter string `mapstructure:"delimiter" toml:"delimiter"`   // single character, default tab
}

// EntityLinkingConfig configures mention lookup and ranking
type EntityLinkingConfig struct {
	IndexConfig `mapstructure:",squash"`
	TopN        int     `mapstructure:"top_n" toml:"top_n"`
	Fuzzy       bool    `mapstructure:"fuzzy" toml:"fuzzy"`               // fall back to similar mentions on a miss
	FuzzyCutoff float64 `mapstructure:"fuzzy_cutoff" toml:"fuzzy_cutoff"` // minimum similarity for the fallback
}

// LiteralLinkingConfig configures property value matching
type LiteralLinkingConfig struct {
	IndexConfig      `mapstructure:",squash"`
	NumericThreshold float64 `mapstructure:"numeric_threshold" toml:"numeric_threshold"`
	StringThreshold  float64 `mapstructure:"string_threshold" toml:"string_threshold"`
}

// LanguageDetectionConfig configures the stopword language detector
type LanguageDetectionConfig struct {
	TopN          int      `mapstructure:"top_n" toml:"top_n"`
	MinConfidence float64  `mapstructure:"min_confidence" toml:"min_confidence"` // 0 = never abort on confidence
	Languages     []string `mapstructure:"languages" toml:"languages"`           // empty = accept any language
}

// ClassLinkingConfig configures header-to-class lookup
type ClassLinkingConfig struct {
	IndexConfig `mapstructure:",squash"`
}

// PropertyLinkingConfig configures column property aggregation
type PropertyLinkingConfig struct {
	MinSupport int `mapstructure:"min_support" toml:"min_support"`
}

// PulseConfig configures the batch worker pool
type PulseConfig struct {
	Workers     int `mapstructure:"workers" toml:"workers"`           // 0 = one per CPU
	MaxFailures int `mapstructure:"max_failures" toml:"max_failures"` // 0 = never stop the batch
}

// DelimiterRune returns the configured delimiter, tab when unset.
func (c IndexConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return '\t'
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
