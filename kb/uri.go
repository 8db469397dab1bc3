// Package kb holds knowledge-base URI handling shared by the index backends
// and the linking tasks.
package kb

import (
	"sort"
	"strings"

	"github.com/teranos/wtu/errors"
)

// Prefixes maps the short prefixes used in index files and annotations to
// their namespace.
var Prefixes = map[string]string{
	"dbpedia": "http://dbpedia.org/page/",
	"dbr":     "http://dbpedia.org/resource/",
	"dbo":     "http://dbpedia.org/ontology/",
	"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
	"xsd":     "http://www.w3.org/2001/XMLSchema#",
	"dt":      "http://dbpedia.org/datatype/",
}

// longestFirst orders namespaces so that a namespace that is a prefix of
// another never shadows it.
var longestFirst = func() []string {
	keys := make([]string, 0, len(Prefixes))
	for k := range Prefixes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(Prefixes[keys[i]]) != len(Prefixes[keys[j]]) {
			return len(Prefixes[keys[i]]) > len(Prefixes[keys[j]])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// URI is a knowledge-base URI split into a known prefix and a local name.
type URI struct {
	Prefix string
	Suffix string
}

// ParseURI parses long (http://...) and short (dbr:Paris) forms. A bare name
// without a known prefix takes fallbackPrefix; pass "" to reject such names.
func ParseURI(uri, fallbackPrefix string) (URI, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		for _, prefix := range longestFirst {
			if suffix, ok := strings.CutPrefix(uri, Prefixes[prefix]); ok {
				return URI{Prefix: prefix, Suffix: suffix}, nil
			}
		}
		return URI{}, errors.Newf("unknown namespace in %q", uri)
	}

	if prefix, suffix, ok := strings.Cut(uri, ":"); ok {
		if _, known := Prefixes[prefix]; known {
			return URI{Prefix: prefix, Suffix: suffix}, nil
		}
	}

	if fallbackPrefix == "" {
		return URI{}, errors.Newf("ambiguous URI %q", uri)
	}
	if _, known := Prefixes[fallbackPrefix]; !known {
		return URI{}, errors.Newf("unknown prefix %q", fallbackPrefix)
	}
	return URI{Prefix: fallbackPrefix, Suffix: uri}, nil
}

// ShortURI is ParseURI(...).Short() that falls back to the input unchanged
// when it cannot be parsed.
func ShortURI(uri, fallbackPrefix string) string {
	u, err := ParseURI(uri, fallbackPrefix)
	if err != nil {
		return uri
	}
	return u.Short()
}

// Short returns the prefixed form, e.g. dbr:Paris.
func (u URI) Short() string {
	return u.Prefix + ":" + u.Suffix
}

// Long returns the expanded form, e.g. http://dbpedia.org/resource/Paris.
func (u URI) Long() string {
	return Prefixes[u.Prefix] + u.Suffix
}

func (u URI) String() string {
	return u.Short()
}
