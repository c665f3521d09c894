// Package model defines the closed set of mental models an answer can be
// classified under and parses author-supplied model strings.
package model

import "fmt"

// MainModel identifies a mental model.
type MainModel string

const (
	NoModel MainModel = "NoModel"
	M1      MainModel = "M1"
	M2      MainModel = "M2"
	M3      MainModel = "M3"
	M4      MainModel = "M4"
	M5      MainModel = "M5"
	M6      MainModel = "M6"
	M7      MainModel = "M7"
	M8      MainModel = "M8"
	M9      MainModel = "M9"
	M10     MainModel = "M10"
	M11     MainModel = "M11"
)

// SubModel refines a main model.
type SubModel string

const (
	NoSubmodel SubModel = "NoSubmodel"
	S1         SubModel = "S1"
	S2         SubModel = "S2"
	S3         SubModel = "S3"
)

// MainModels returns every real main model in display order. NoModel is
// not included.
func MainModels() []MainModel {
	return []MainModel{M1, M2, M3, M4, M5, M6, M7, M8, M9, M10, M11}
}

// SubModels returns every real submodel in display order. NoSubmodel is not
// included.
func SubModels() []SubModel {
	return []SubModel{S1, S2, S3}
}

// Model pairs a main model with a submodel. A NoSubmodel submodel means the
// model applies to any submodel variant.
type Model struct {
	Main MainModel
	Sub  SubModel
}

// New returns a Model.
func New(main MainModel, sub SubModel) Model {
	return Model{Main: main, Sub: sub}
}

// AnySub reports whether the model leaves the submodel unspecified.
func (m Model) AnySub() bool { return m.Sub == NoSubmodel }

func (m Model) String() string {
	if m.AnySub() {
		return string(m.Main)
	}
	return fmt.Sprintf("%s+%s", m.Main, m.Sub)
}
