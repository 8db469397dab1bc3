package am

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/wtu/table"
)

// Default values shared by SetDefaults and the zero-value accessors.
const (
	DefaultDatabasePath     = "wtu.db"
	DefaultSource           = "preprocessing"
	DefaultBackend          = "csv"
	DefaultTopN             = 3
	DefaultFuzzyCutoff      = 0.8
	DefaultNumericThreshold = 0.5
	DefaultStringThreshold  = 0.5
)

// DefaultTasks is the pipeline run when none is configured.
var DefaultTasks = []string{
	table.TaskLiteralNormalization,
	table.TaskEntityLinking,
	table.TaskLiteralLinking,
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("pipeline.tasks", DefaultTasks)
	v.SetDefault("pipeline.source", DefaultSource)

	v.SetDefault("entity_linking.backend", DefaultBackend)
	v.SetDefault("entity_linking.index_path", "mentions.tsv")
	v.SetDefault("entity_linking.delimiter", "\t")
	v.SetDefault("entity_linking.top_n", DefaultTopN)
	v.SetDefault("entity_linking.fuzzy", false)
	v.SetDefault("entity_linking.fuzzy_cutoff", DefaultFuzzyCutoff)

	v.SetDefault("literal_linking.backend", DefaultBackend)
	v.SetDefault("literal_linking.index_path", "properties.tsv")
	v.SetDefault("literal_linking.delimiter", "\t")
	v.SetDefault("literal_linking.numeric_threshold", DefaultNumericThreshold)
	v.SetDefault("literal_linking.string_threshold", DefaultStringThreshold)

	v.SetDefault("language_detection.top_n", DefaultTopN)
	v.SetDefault("language_detection.min_confidence", 0.0)
	v.SetDefault("language_detection.languages", []string{})

	v.SetDefault("class_linking.backend", DefaultBackend)
	v.SetDefault("class_linking.index_path", "classes.tsv")
	v.SetDefault("class_linking.delimiter", "\t")

	v.SetDefault("property_linking.min_support", 1)

	v.SetDefault("pulse.workers", 1)
	v.SetDefault("pulse.max_failures", 0)
}

// BindEnvVars explicitly binds the settings most often overridden per run
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "WTU_DATABASE_PATH")
	v.BindEnv("pulse.workers", "WTU_WORKERS")
	v.BindEnv("entity_linking.index_path", "WTU_MENTION_INDEX")
	v.BindEnv("literal_linking.index_path", "WTU_PROPERTY_INDEX")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// GetSource returns the annotation source label
func (c *Config) GetSource() string {
	if c.Pipeline.Source == "" {
		return DefaultSource
	}
	return c.Pipeline.Source
}

// GetTasks returns the configured task sequence
func (c *Config) GetTasks() []string {
	if len(c.Pipeline.Tasks) == 0 {
		return DefaultTasks
	}
	return c.Pipeline.Tasks
}

// HasTask reports whether the pipeline runs the named task
func (c *Config) HasTask(name string) bool {
	for _, t := range c.GetTasks() {
		if t == name {
			return true
		}
	}
	return false
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Tasks: [%s], Pulse: {Workers: %d}}",
		c.Database.Path, strings.Join(c.GetTasks(), " "), c.Pulse.Workers)
}

func newDefaultViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}
