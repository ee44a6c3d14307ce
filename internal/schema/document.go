package schema

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/Iron-Ham/bcnf/internal/errors"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk description of one relation, its dependencies
// and an optional sample instance. JSON documents decode through the same
// YAML decoder.
type Document struct {
	// Name labels the relation in output (optional)
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Attributes is the heading of the relation
	Attributes []string `yaml:"attributes" json:"attributes"`
	// Dependencies lists the functional dependencies in evaluation order
	Dependencies []DependencySpec `yaml:"dependencies" json:"dependencies"`
	// Rows is a sample instance used by the lossless-join check (optional)
	Rows []map[string]string `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// DependencySpec is the document form of an FD.
type DependencySpec struct {
	LHS []string `yaml:"lhs" json:"lhs"`
	RHS []string `yaml:"rhs" json:"rhs"`
}

// LoadDocument reads and validates a document from path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("file", path).WithCause(err)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument decodes and validates a YAML or JSON document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.NewValidationError("failed to decode document").WithCause(err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that the document describes a non-empty relation and
// that every dependency and row only mentions declared attributes. Empty
// dependency sides are left to the normalizer's input validation.
func (d *Document) Validate() error {
	if len(d.Attributes) == 0 {
		return errors.NewValidationError("relation must declare attributes").
			WithField("attributes").
			WithCause(errors.ErrEmptyRelation)
	}

	declared := NewAttributes(d.Attributes...)
	for i, dep := range d.Dependencies {
		for _, name := range slices.Concat(dep.LHS, dep.RHS) {
			if !declared.Has(Attribute(name)) {
				return errors.NewValidationError("dependency references an undeclared attribute").
					WithField(fmt.Sprintf("dependencies[%d]", i)).
					WithCause(errors.NewNotFoundError("attribute", name))
			}
		}
	}

	for i, row := range d.Rows {
		for name := range row {
			if !declared.Has(Attribute(name)) {
				return errors.NewValidationError("row references an undeclared attribute").
					WithField(fmt.Sprintf("rows[%d]", i)).
					WithCause(errors.NewNotFoundError("attribute", name))
			}
		}
	}
	return nil
}

// Relation returns the relation the document describes.
func (d *Document) Relation() Relation {
	return NewRelation(d.Attributes...)
}

// FDs returns the document's dependencies in order.
func (d *Document) FDs() []FD {
	deps := make([]FD, len(d.Dependencies))
	for i, ds := range d.Dependencies {
		deps[i] = NewFD(ds.LHS, ds.RHS)
	}
	return deps
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}
