package model

import (
	"sort"
	"strings"

	"github.com/aptitude-lab/modelscore/internal/diag"
)

const (
	// Separator separates models in a raw model string.
	Separator = "|"
	// SubSeparator separates a main model from its submodel.
	SubSeparator = ","
)

type tagEntry[T any] struct {
	prefix string
	value  T
}

// Tag tables are ordered longest name first so that "M10" is not swallowed
// by "M1".
var (
	mainTags []tagEntry[MainModel]
	subTags  []tagEntry[SubModel]
)

func init() {
	for _, m := range append([]MainModel{NoModel}, MainModels()...) {
		mainTags = append(mainTags, tagEntry[MainModel]{prefix: strings.ToUpper(string(m)), value: m})
	}
	for _, s := range append([]SubModel{NoSubmodel}, SubModels()...) {
		subTags = append(subTags, tagEntry[SubModel]{prefix: strings.ToUpper(string(s)), value: s})
	}
	sortTags(mainTags)
	sortTags(subTags)
}

func sortTags[T any](tags []tagEntry[T]) {
	sort.SliceStable(tags, func(i, j int) bool {
		return len(tags[i].prefix) > len(tags[j].prefix)
	})
}

func lookup[T any](tags []tagEntry[T], token string, fallback T) T {
	token = strings.ToUpper(strings.TrimSpace(token))
	for _, t := range tags {
		if strings.HasPrefix(token, t.prefix) {
			return t.value
		}
	}
	return fallback
}

// ParseMain resolves a token to the main model whose name it starts with,
// ignoring case. Unknown tokens resolve to NoModel. The longest matching
// name wins rather than the first in declaration order, so "M10" is M10 and
// not M1.
func ParseMain(token string) MainModel {
	return lookup(mainTags, token, NoModel)
}

// ParseSub resolves a token to the submodel whose name it starts with,
// ignoring case. Unknown tokens resolve to NoSubmodel.
func ParseSub(token string) SubModel {
	return lookup(subTags, token, NoSubmodel)
}

// Parse reads a model string of the form "M1|M2,S1|...". Segments with more
// than two fields are reported to sink and skipped. A blank string yields no
// models.
func Parse(raw string, sink diag.Sink) []Model {
	sink = diag.OrDiscard(sink)
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var result []Model
	for _, segment := range splitFields(raw, Separator) {
		fields := splitFields(segment, SubSeparator)
		switch len(fields) {
		case 1:
			result = append(result, New(ParseMain(fields[0]), NoSubmodel))
		case 2:
			result = append(result, New(ParseMain(fields[0]), ParseSub(fields[1])))
		case 0:
			sink.Warnf("empty model in %q", raw)
		default:
			sink.Warnf("invalid model/submodel format %q in %q", segment, raw)
		}
	}
	return result
}

// splitFields splits s around sep and drops trailing blank fields, so "M1|"
// holds a single model.
func splitFields(s, sep string) []string {
	fields := strings.Split(s, sep)
	for len(fields) > 0 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
