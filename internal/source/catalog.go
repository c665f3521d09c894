// Package source reads quiz catalogs and student responses from files:
// JSON or YAML catalog documents, and CSV exports of the question and
// results sheets.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/aptitude-lab/modelscore/internal/answer"
	"github.com/aptitude-lab/modelscore/internal/catalog"
	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/aptitude-lab/modelscore/internal/model"
)

// SupportedMajor is the catalog document major version this build reads.
const SupportedMajor = "v1"

var validate = validator.New()

// CatalogDocument is the on-disk catalog format.
type CatalogDocument struct {
	Version   string        `json:"version" yaml:"version" validate:"required"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Questions []QuestionDoc `json:"questions" yaml:"questions" validate:"dive"`
}

// QuestionDoc is one question with its reference entries.
type QuestionDoc struct {
	ID      int        `json:"id" yaml:"id" validate:"gt=0"`
	Entries []EntryDoc `json:"entries" yaml:"entries"`
}

// EntryDoc pairs a raw reference answer with its raw model string.
type EntryDoc struct {
	Answer string `json:"answer" yaml:"answer"`
	Models string `json:"models" yaml:"models"`
}

// DecodeCatalog reads a catalog document. format is "json" or "yaml".
func DecodeCatalog(r io.Reader, format string) (*CatalogDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc CatalogDocument
	switch format {
	case "json":
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if err := validateDocument(parsed); err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	case "yaml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		// The schema validator reads JSON values; convert the raw
		// document before any key is dropped by the typed decode.
		asJSON, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("convert YAML catalog: %w", err)
		}
		var parsed any
		if err := json.Unmarshal(asJSON, &parsed); err != nil {
			return nil, fmt.Errorf("convert YAML catalog: %w", err)
		}
		if err := validateDocument(parsed); err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkVersion(v string) error {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("catalog version %q is not a semantic version", v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("catalog version %s not supported (want %s.x)", v, SupportedMajor)
	}
	return nil
}

// Build turns the document into a catalog. Entries with a blank answer or
// model string are skipped. Malformed reference answers are dropped and
// returned together as one joined error; the rest of the catalog is still
// built.
func (d *CatalogDocument) Build(sink diag.Sink, opts ...catalog.Option) (*catalog.Catalog, error) {
	cat := catalog.New(d.Name)
	var errs []error
	for _, qs := range d.Questions {
		q, err := buildQuestion(qs.ID, qs.Entries, sink, opts...)
		if err != nil {
			errs = append(errs, err)
		}
		cat.Add(q, sink)
	}
	return cat, errors.Join(errs...)
}

func buildQuestion(id int, docs []EntryDoc, sink diag.Sink, opts ...catalog.Option) (*catalog.Question, error) {
	var entries []catalog.Entry
	var errs []error
	for _, e := range docs {
		if strings.TrimSpace(e.Answer) == "" || strings.TrimSpace(e.Models) == "" {
			continue
		}
		a, err := answer.Parse(e.Answer, id, sink)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, catalog.Entry{Answer: a, Models: model.Parse(e.Models, sink)})
	}
	return catalog.NewQuestion(id, entries, sink, opts...), errors.Join(errs...)
}

// LoadCatalog reads one or more catalog files into a single catalog named
// name. The format is chosen by extension: .json, .yaml/.yml, or .csv for a
// single question sheet.
func LoadCatalog(name string, paths []string, sink diag.Sink, opts ...catalog.Option) (*catalog.Catalog, error) {
	cat := catalog.New(name)
	var errs []error
	for _, p := range paths {
		qs, err := loadFile(p, sink, opts...)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				return nil, err
			}
			errs = append(errs, err)
		}
		for _, q := range qs {
			cat.Add(q, sink)
		}
	}
	return cat, errors.Join(errs...)
}

func loadFile(path string, sink diag.Sink, opts ...catalog.Option) ([]*catalog.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadDocument(path, f, "json", sink, opts...)
	case ".yaml", ".yml":
		return loadDocument(path, f, "yaml", sink, opts...)
	case ".csv":
		q, err := ReadQuestionSheet(f, sink, opts...)
		if q == nil {
			return nil, &FormatError{Path: path, Err: err}
		}
		return []*catalog.Question{q}, err
	default:
		return nil, &FormatError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}
}

func loadDocument(path string, r io.Reader, format string, sink diag.Sink, opts ...catalog.Option) ([]*catalog.Question, error) {
	doc, err := DecodeCatalog(r, format)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	cat, err := doc.Build(sink, opts...)
	return cat.Questions(), err
}
