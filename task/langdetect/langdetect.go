// Package langdetect implements the LanguageDetection task: the words of a
// table are compared against per-language stopword lists and the best
// scoring languages are attached to the table region.
//
// The task can also act as a gate. With a minimum confidence or a language
// allow-list configured, a table whose best language misses either aborts
// the pipeline.
package langdetect

import (
	"bufio"
	"bytes"
	"embed"
	"path"
	"regexp"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
)

//go:embed stopwords/*.txt
var stopwordFS embed.FS

// DefaultTopN is the number of languages kept per table.
const DefaultTopN = 3

// DefaultStopwords returns the embedded stopword lists keyed by language
// name.
func DefaultStopwords() map[string][]string {
	entries, err := stopwordFS.ReadDir("stopwords")
	if err != nil {
		panic(err)
	}
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		data, err := stopwordFS.ReadFile(path.Join("stopwords", e.Name()))
		if err != nil {
			panic(err)
		}
		var words []string
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if w := strings.TrimSpace(sc.Text()); w != "" {
				words = append(words, w)
			}
		}
		out[strings.TrimSuffix(e.Name(), ".txt")] = words
	}
	return out
}

// Options configures the task.
type Options struct {
	Source string
	TopN   int
	// MinConfidence aborts tables whose best language scores lower. 0
	// disables the check.
	MinConfidence float64
	// Languages aborts tables whose best language is not listed. Empty
	// disables the check.
	Languages []string
	// Stopwords replaces the embedded lists when set.
	Stopwords map[string][]string
	Logger    *zap.SugaredLogger
}

// Task is the LanguageDetection task.
type Task struct {
	source        string
	topN          int
	minConfidence float64
	languages     []string
	stopwords     map[string]map[string]struct{}
	names         []string
	logger        *zap.SugaredLogger
}

// New creates the task.
func New(opts Options) *Task {
	lists := opts.Stopwords
	if lists == nil {
		lists = DefaultStopwords()
	}
	t := &Task{
		source:        opts.Source,
		topN:          opts.TopN,
		minConfidence: opts.MinConfidence,
		languages:     opts.Languages,
		stopwords:     make(map[string]map[string]struct{}, len(lists)),
		logger:        logger.OrNop(opts.Logger).Named("langdetect"),
	}
	if t.topN <= 0 {
		t.topN = DefaultTopN
	}
	for lang, words := range lists {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = struct{}{}
		}
		t.stopwords[lang] = set
		t.names = append(t.names, lang)
	}
	sort.Strings(t.names)
	return t
}

// Name returns the task name.
func (t *Task) Name() string { return table.TaskLanguageDetection }

// Score is one detected language with its normalized score.
type Score struct {
	Language string
	Score    float64
}

// tokens splits text into runs of word characters and runs of punctuation.
var tokens = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s]+`)

// Detect scores the languages of text. Only the top-N languages with at
// least one stopword hit are returned, best first; their scores sum to 1.
func (t *Task) Detect(text string) []Score {
	caser := cases.Lower(language.Und)
	words := make(map[string]struct{})
	for _, tok := range tokens.FindAllString(text, -1) {
		words[caser.String(tok)] = struct{}{}
	}

	type hit struct {
		lang  string
		count int
	}
	var hits []hit
	for _, lang := range t.names {
		n := 0
		for w := range words {
			if _, ok := t.stopwords[lang][w]; ok {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, hit{lang, n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })
	if len(hits) > t.topN {
		hits = hits[:t.topN]
	}

	total := 0
	for _, h := range hits {
		total += h.count
	}
	scores := make([]Score, 0, len(hits))
	for _, h := range hits {
		scores = append(scores, Score{Language: h.lang, Score: float64(h.count) / float64(total)})
	}
	return scores
}

// Run annotates the table region with the detected languages and applies
// the confidence gate.
func (t *Task) Run(tbl *table.Table) (bool, error) {
	var sb strings.Builder
	for _, c := range tbl.Cells() {
		sb.WriteString(c.Content())
		sb.WriteByte(' ')
	}

	scores := t.Detect(sb.String())
	for _, s := range scores {
		tbl.Annotate(table.TableRegion(), table.Annotation{
			Source: t.source,
			Task:   table.TaskLanguageDetection,
			Type:   table.TypeLanguage,
			Body:   &table.Language{Language: s.Language, Score: s.Score},
		})
	}

	best := Score{}
	if len(scores) > 0 {
		best = scores[0]
	}
	if t.minConfidence > 0 && best.Score < t.minConfidence {
		t.logger.Debugw("Language confidence below minimum",
			"language", best.Language,
			"score", best.Score,
			"min_confidence", t.minConfidence,
		)
		return false, nil
	}
	if len(t.languages) > 0 && !slices.Contains(t.languages, best.Language) {
		t.logger.Debugw("Language not accepted",
			"language", best.Language,
			"languages", t.languages,
		)
		return false, nil
	}
	return true, nil
}
