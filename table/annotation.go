package table

import (
	"encoding/json"

	"github.com/teranos/wtu/attrs"
	"github.com/teranos/wtu/errors"
)

// Task names carried in the annotation envelope.
const (
	TaskLiteralNormalization = "LiteralNormalization"
	TaskEntityLinking        = "EntityLinking"
	TaskLiteralLinking       = "LiteralLinking"
	TaskLanguageDetection    = "LanguageDetection"
	TaskClassLinking         = "ClassLinking"
	TaskPropertyLinking      = "PropertyLinking"
)

// Annotation types carried in the annotation envelope.
const (
	TypePlain        = "plain"
	TypeNumeric      = "numeric"
	TypeDate         = "date"
	TypeValueAndUnit = "value_and_unit"
	TypeResource     = "resource"
	TypeProperty     = "property"
	TypeLanguage     = "language"
	TypeClass        = "class"
)

// Reference keys used in PropertyMatch.References.
const (
	RefEntityLinking        = "EL"
	RefLiteralNormalization = "LN"
)

// Envelope keys shared by every annotation.
const (
	keySource = "source"
	keyTask   = "task"
	keyType   = "type"
)

// Annotation is one record in a region's annotation list: a common envelope
// plus a task-specific body.
type Annotation struct {
	Source string
	Task   string
	Type   string
	Body   Body
}

// Body is the closed set of annotation payloads. Attribute sets that match
// no known (task, type) pair decode to *Other.
type Body interface {
	annotationBody()
}

// Plain keeps the original cell string next to typed hypotheses.
type Plain struct {
	Value string `attr:"value"`
}

// Numeric is one numeric interpretation of a cell.
type Numeric struct {
	Number            float64 `attr:"number"`
	DecimalSeparator  string  `attr:"decimal_separator,omitempty"`
	GroupingSeparator string  `attr:"grouping_separator,omitempty"`
}

// Date is one date interpretation of a cell. Month and DayOfMonth are nil
// when the matching notation does not carry them.
type Date struct {
	Year       int    `attr:"year"`
	Month      *int   `attr:"month,nullable"`
	DayOfMonth *int   `attr:"day_of_month,nullable"`
	Notation   string `attr:"notation"`
}

// ValueAndUnit is one quantity interpretation of a cell.
type ValueAndUnit struct {
	Value           float64 `attr:"value"`
	ValueNormalized float64 `attr:"value_normalized"`
	UnitName        string  `attr:"unit_name"`
	DataType        string  `attr:"data_type,omitempty"`
	QuantityName    string  `attr:"quantity_name"`
}

// Resource is a ranked entity candidate for a cell.
type Resource struct {
	ResourceURI  string  `attr:"resource_uri"`
	Frequency    float64 `attr:"frequency"`
	RawFrequency int     `attr:"raw_frequency,omitempty"`
	Mention      string  `attr:"mention,omitempty"`
	Fuzzy        bool    `attr:"fuzzy,omitempty"`
}

// PropertyMatch is evidence that a cell holds a property value of an entity
// linked elsewhere in the same row.
type PropertyMatch struct {
	PropertyURI    string            `attr:"property_uri"`
	References     map[string]string `attr:"references"`
	Family         string            `attr:"match_family"`
	Transformation string            `attr:"transformation"`
	Metric         string            `attr:"metric"`
	Similarity     float64           `attr:"similarity"`
	PropertyValue  string            `attr:"property_value"`
	LiteralType    string            `attr:"literal_type,omitempty"`
}

// Language is a table-level language hypothesis.
type Language struct {
	Language string  `attr:"language"`
	Score    float64 `attr:"score"`
}

// Class links a header cell to a knowledge-base class.
type Class struct {
	ClassURI string `attr:"class_uri"`
}

// ColumnProperty is the property a column most likely holds.
type ColumnProperty struct {
	PropertyURI string  `attr:"property_uri"`
	Support     int     `attr:"support"`
	Cells       int     `attr:"cells"`
	Score       float64 `attr:"score"`
}

// Other preserves attribute sets this package does not model, e.g. gold
// annotations carried through from the input.
type Other struct {
	Fields map[string]any
}

func (*Plain) annotationBody()          {}
func (*Numeric) annotationBody()        {}
func (*Date) annotationBody()           {}
func (*ValueAndUnit) annotationBody()   {}
func (*Resource) annotationBody()       {}
func (*PropertyMatch) annotationBody()  {}
func (*Language) annotationBody()       {}
func (*Class) annotationBody()          {}
func (*ColumnProperty) annotationBody() {}
func (*Other) annotationBody()          {}

// newBody returns an empty body for a known (task, type) pair, or nil.
func newBody(task, typ string) Body {
	switch task {
	case TaskLiteralNormalization:
		switch typ {
		case TypePlain:
			return &Plain{}
		case TypeNumeric:
			return &Numeric{}
		case TypeDate:
			return &Date{}
		case TypeValueAndUnit:
			return &ValueAndUnit{}
		}
	case TaskEntityLinking:
		if typ == TypeResource {
			return &Resource{}
		}
	case TaskLiteralLinking:
		if typ == TypeProperty {
			return &PropertyMatch{}
		}
	case TaskLanguageDetection:
		if typ == TypeLanguage {
			return &Language{}
		}
	case TaskClassLinking:
		if typ == TypeClass {
			return &Class{}
		}
	case TaskPropertyLinking:
		if typ == TypeProperty {
			return &ColumnProperty{}
		}
	}
	return nil
}

// Fields flattens the annotation into its open attribute set.
func (a Annotation) Fields() map[string]any {
	var m map[string]any
	switch body := a.Body.(type) {
	case nil:
		m = make(map[string]any)
	case *Other:
		m = make(map[string]any, len(body.Fields)+3)
		for k, v := range body.Fields {
			m[k] = v
		}
	default:
		m = attrs.From(body)
		if m == nil {
			m = make(map[string]any)
		}
	}

	m[keySource] = a.Source
	m[keyTask] = a.Task
	if a.Type != "" {
		m[keyType] = a.Type
	}
	return m
}

// FromFields builds an annotation from an open attribute set. The envelope
// keys source and task are mandatory.
func FromFields(m map[string]any) (Annotation, error) {
	source, _ := m[keySource].(string)
	task, _ := m[keyTask].(string)
	typ, _ := m[keyType].(string)
	if source == "" || task == "" {
		return Annotation{}, errors.Newf("annotation without source/task: source=%q task=%q", source, task)
	}

	a := Annotation{Source: source, Task: task, Type: typ}
	if body := newBody(task, typ); body != nil {
		attrs.Scan(m, body)
		a.Body = body
		return a, nil
	}

	fields := make(map[string]any, len(m))
	for k, v := range m {
		switch k {
		case keySource, keyTask, keyType:
		default:
			fields[k] = v
		}
	}
	a.Body = &Other{Fields: fields}
	return a, nil
}

// MarshalJSON writes the flattened attribute set.
func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Fields())
}

// UnmarshalJSON reads a flattened attribute set.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	decoded, err := FromFields(m)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// Filter selects annotations by envelope. Empty fields match anything.
type Filter struct {
	Source string
	Task   string
	Type   string
}

// Matches reports whether a passes the filter.
func (f Filter) Matches(a Annotation) bool {
	return (f.Source == "" || a.Source == f.Source) &&
		(f.Task == "" || a.Task == f.Task) &&
		(f.Type == "" || a.Type == f.Type)
}

// Indexed is an annotation together with its position in its region.
type Indexed struct {
	Index int
	Annotation
}
