package task

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/teranos/wtu/am"
	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/index"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
	"github.com/teranos/wtu/task/classlinking"
	"github.com/teranos/wtu/task/entitylinking"
	"github.com/teranos/wtu/task/langdetect"
	"github.com/teranos/wtu/task/literallinking"
	"github.com/teranos/wtu/task/normalize"
	"github.com/teranos/wtu/task/propertylinking"
)

// Deps are the shared resources a pipeline is built from.
type Deps struct {
	// DB backs the sqlite index backends. Only required when one is
	// configured.
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

// NeedsDatabase reports whether any task of cfg reads a sqlite backend.
func NeedsDatabase(cfg *am.Config) bool {
	return (cfg.HasTask(table.TaskEntityLinking) && cfg.EntityLinking.Backend == "sqlite") ||
		(cfg.HasTask(table.TaskLiteralLinking) && cfg.LiteralLinking.Backend == "sqlite") ||
		(cfg.HasTask(table.TaskClassLinking) && cfg.ClassLinking.Backend == "sqlite")
}

// Build validates cfg, opens the configured backends once and returns the
// pipeline. Backend failures are ErrBackendUnavailable and surface here,
// before any table is processed.
func Build(cfg *am.Config, deps Deps) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	log := logger.OrNop(deps.Logger)
	source := cfg.GetSource()

	var tasks []Task
	for _, name := range cfg.GetTasks() {
		t, err := build(name, cfg, source, deps, log)
		if err != nil {
			return nil, errors.Wrapf(err, "configure %s", name)
		}
		tasks = append(tasks, t)
	}

	p := NewPipeline(log, tasks...)
	log.Named("pipeline").Infow("Pipeline ready",
		"tasks", p.Tasks(),
		logger.FieldCount, len(tasks),
	)
	return p, nil
}

func indexOptions(c am.IndexConfig, deps Deps, log *zap.SugaredLogger) index.Options {
	return index.Options{
		Path:      c.IndexPath,
		Delimiter: c.DelimiterRune(),
		DB:        deps.DB,
		Logger:    log.Named("index"),
	}
}

func build(name string, cfg *am.Config, source string, deps Deps, log *zap.SugaredLogger) (Task, error) {
	switch name {
	case table.TaskLiteralNormalization:
		return normalize.New(normalize.Options{Source: source, Logger: log}), nil

	case table.TaskEntityLinking:
		c := cfg.EntityLinking
		ix, err := index.Mentions.Open(c.Backend, indexOptions(c.IndexConfig, deps, log))
		if err != nil {
			return nil, err
		}
		return entitylinking.New(entitylinking.Options{
			Source:      source,
			Index:       ix,
			TopN:        c.TopN,
			Fuzzy:       c.Fuzzy,
			FuzzyCutoff: c.FuzzyCutoff,
			Logger:      log,
		})

	case table.TaskLiteralLinking:
		c := cfg.LiteralLinking
		ix, err := index.Properties.Open(c.Backend, indexOptions(c.IndexConfig, deps, log))
		if err != nil {
			return nil, err
		}
		return literallinking.New(literallinking.Options{
			Source:           source,
			Index:            ix,
			NumericThreshold: &c.NumericThreshold,
			StringThreshold:  &c.StringThreshold,
			Logger:           log,
		})

	case table.TaskLanguageDetection:
		c := cfg.LanguageDetection
		return langdetect.New(langdetect.Options{
			Source:        source,
			TopN:          c.TopN,
			MinConfidence: c.MinConfidence,
			Languages:     c.Languages,
			Logger:        log,
		}), nil

	case table.TaskClassLinking:
		c := cfg.ClassLinking
		ix, err := index.Classes.Open(c.Backend, indexOptions(c.IndexConfig, deps, log))
		if err != nil {
			return nil, err
		}
		return classlinking.New(classlinking.Options{Source: source, Index: ix, Logger: log})

	case table.TaskPropertyLinking:
		return propertylinking.New(propertylinking.Options{
			Source:     source,
			MinSupport: cfg.PropertyLinking.MinSupport,
			Logger:     log,
		}), nil
	}
	return nil, errors.Newf("unknown task %q", name)
}
