// Package sym defines the glyphs wtu prints in command help, run summaries
// and log lines. They are stable across the CLI and documentation.
package sym

// Command glyphs.
const (
	AM       = "≡" // am: configuration
	IX       = "⨳" // index: import knowledge-base indexes
	Annotate = "⋈" // annotate: run the pipeline over table records
	DB       = "⊔" // db: record store
)

// Task glyphs, one per annotation task.
const (
	Normalize   = "∷" // LiteralNormalization
	Entity      = "⌬" // EntityLinking
	Literal     = "⟶" // LiteralLinking
	Language    = "⊨" // LanguageDetection
	Class       = "∈" // ClassLinking
	Property    = "≔" // PropertyLinking
	UnknownTask = "·"
)

// System symbols.
const (
	Pulse      = "꩜" // batch execution
	PulseOpen  = "✿" // pool startup
	PulseClose = "❀" // pool shutdown
)

// entry binds a glyph to its command or task name.
type entry struct {
	glyph       string
	name        string
	description string
}

var commands = []entry{
	{AM, "am", "Configuration"},
	{IX, "index", "Import knowledge-base indexes"},
	{Annotate, "annotate", "Annotate table records"},
	{DB, "db", "Record store"},
}

var tasks = []entry{
	{Normalize, "LiteralNormalization", "Typed readings of cell literals"},
	{Entity, "EntityLinking", "Candidate entities per cell"},
	{Literal, "LiteralLinking", "Entity properties matching row literals"},
	{Language, "LanguageDetection", "Stopword-based table language"},
	{Class, "ClassLinking", "Header cells to ontology classes"},
	{Property, "PropertyLinking", "Best supported property per column"},
}

// CommandToSymbol maps command names to their glyphs.
var CommandToSymbol = map[string]string{}

// SymbolToCommand maps glyphs to their command names.
var SymbolToCommand = map[string]string{}

// CommandDescriptions provides a one-line label per command.
var CommandDescriptions = map[string]string{}

var taskGlyphs = map[string]string{}

func init() {
	for _, e := range commands {
		CommandToSymbol[e.name] = e.glyph
		SymbolToCommand[e.glyph] = e.name
		CommandDescriptions[e.name] = e.description
	}
	for _, e := range tasks {
		taskGlyphs[e.name] = e.glyph
	}
}

// Task returns the glyph of an annotation task, or UnknownTask.
func Task(name string) string {
	if g, ok := taskGlyphs[name]; ok {
		return g
	}
	return UnknownTask
}

// TaskDescription returns the one-line label of a task.
func TaskDescription(name string) string {
	for _, e := range tasks {
		if e.name == name {
			return e.description
		}
	}
	return ""
}
