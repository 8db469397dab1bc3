package am

import (
	"unicode/utf8"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/table"
)

// KnownTasks lists the task names the pipeline can run.
var KnownTasks = []string{
	table.TaskLiteralNormalization,
	table.TaskEntityLinking,
	table.TaskLiteralLinking,
	table.TaskLanguageDetection,
	table.TaskClassLinking,
	table.TaskPropertyLinking,
}

// KnownBackends lists the index backend identifiers.
var KnownBackends = []string{"csv", "sqlite"}

// Validate checks that the configuration is valid. Zero means zero: a zero
// threshold accepts every match and zero workers means one per CPU.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, name := range c.Pipeline.Tasks {
		if !contains(KnownTasks, name) {
			return errors.WithHintf(errors.Newf("pipeline.tasks: unknown task %q", name),
				"known tasks: %v", KnownTasks)
		}
		if seen[name] {
			return errors.Newf("pipeline.tasks: task %q listed twice", name)
		}
		seen[name] = true
	}

	if c.HasTask(table.TaskEntityLinking) {
		if err := c.EntityLinking.IndexConfig.validate("entity_linking"); err != nil {
			return err
		}
	}
	if c.EntityLinking.TopN < 1 {
		return errors.Newf("entity_linking.top_n must be >= 1, got %d", c.EntityLinking.TopN)
	}
	if err := unitInterval("entity_linking.fuzzy_cutoff", c.EntityLinking.FuzzyCutoff); err != nil {
		return err
	}

	if c.HasTask(table.TaskLiteralLinking) {
		if err := c.LiteralLinking.IndexConfig.validate("literal_linking"); err != nil {
			return err
		}
	}
	if err := unitInterval("literal_linking.numeric_threshold", c.LiteralLinking.NumericThreshold); err != nil {
		return err
	}
	if err := unitInterval("literal_linking.string_threshold", c.LiteralLinking.StringThreshold); err != nil {
		return err
	}

	if c.LanguageDetection.TopN < 1 {
		return errors.Newf("language_detection.top_n must be >= 1, got %d", c.LanguageDetection.TopN)
	}
	if err := unitInterval("language_detection.min_confidence", c.LanguageDetection.MinConfidence); err != nil {
		return err
	}

	if c.HasTask(table.TaskClassLinking) {
		if err := c.ClassLinking.IndexConfig.validate("class_linking"); err != nil {
			return err
		}
	}

	if c.PropertyLinking.MinSupport < 0 {
		return errors.Newf("property_linking.min_support must be >= 0, got %d", c.PropertyLinking.MinSupport)
	}

	if c.Pulse.Workers < 0 {
		return errors.Newf("pulse.workers must be >= 0, got %d", c.Pulse.Workers)
	}
	if c.Pulse.MaxFailures < 0 {
		return errors.Newf("pulse.max_failures must be >= 0, got %d", c.Pulse.MaxFailures)
	}

	return nil
}

func (c IndexConfig) validate(section string) error {
	if !contains(KnownBackends, c.Backend) {
		return errors.WithHintf(errors.Newf("%s.backend: unknown backend %q", section, c.Backend),
			"known backends: %v", KnownBackends)
	}
	if c.Backend == "csv" && c.IndexPath == "" {
		return errors.Newf("%s.index_path cannot be empty for the csv backend", section)
	}
	if c.Delimiter != "" && utf8.RuneCountInString(c.Delimiter) != 1 {
		return errors.Newf("%s.delimiter must be a single character, got %q", section, c.Delimiter)
	}
	return nil
}

func unitInterval(key string, v float64) error {
	if v < 0 || v > 1 {
		return errors.Newf("%s must be within [0, 1], got %g", key, v)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
