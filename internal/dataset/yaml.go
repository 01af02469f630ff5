package dataset

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/induct/internal/model"
)

// rawDataset mirrors the file layout:
//
//	name: party
//	attributes: {Pizza: [Yes, No], Soda: [Yes, No]}
//	seed:
//	  - {Pizza: Yes, Soda: {not: Yes}}
//	examples:
//	  - {Pizza: Yes, Soda: No, GOAL: true}
type rawDataset struct {
	Name       string                 `yaml:"name"`
	Attributes map[string][]string    `yaml:"attributes"`
	Seed       []map[string]yaml.Node `yaml:"seed"`
	Examples   []map[string]yaml.Node `yaml:"examples"`
	Test       []map[string]yaml.Node `yaml:"test"`
}

// YAMLLoader reads the YAML dataset layout
type YAMLLoader struct{}

// NewYAMLLoader creates a YAML loader
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Name returns the format name
func (l *YAMLLoader) Name() string {
	return "yaml"
}

// CanHandle matches .yaml and .yml files
func (l *YAMLLoader) CanHandle(path string) bool {
	return hasExt(path, ".yaml", ".yml")
}

// Load parses a YAML document
func (l *YAMLLoader) Load(r io.Reader, name string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(data, name)
}

// JSONLoader reads the same layout written as JSON. JSON documents are valid
// YAML, so it shares the YAML parser.
type JSONLoader struct {
	YAMLLoader
}

// NewJSONLoader creates a JSON loader
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Name returns the format name
func (l *JSONLoader) Name() string {
	return "json"
}

// CanHandle matches .json files
func (l *JSONLoader) CanHandle(path string) bool {
	return hasExt(path, ".json")
}

// Parse decodes a YAML or JSON dataset document
func Parse(data []byte, name string) (*Dataset, error) {
	var raw rawDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	ds := &Dataset{Name: raw.Name}
	if ds.Name == "" {
		ds.Name = name
	}

	if len(raw.Attributes) > 0 {
		vocab, err := model.NewVocabulary(raw.Attributes)
		if err != nil {
			return nil, fmt.Errorf("attributes: %w", err)
		}
		ds.Declared = vocab
	}

	seed, err := parseSeed(raw.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	ds.Seed = seed

	if ds.Examples, err = parseExamples(raw.Examples); err != nil {
		return nil, fmt.Errorf("examples: %w", err)
	}
	if ds.Test, err = parseExamples(raw.Test); err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}
	return ds, nil
}

func parseExamples(raw []map[string]yaml.Node) ([]model.Example, error) {
	out := make([]model.Example, 0, len(raw))
	for i, entry := range raw {
		attrs := make(map[string]string, len(entry))
		goal, hasGoal := false, false
		for key, node := range entry {
			if node.Kind != yaml.ScalarNode || node.ShortTag() == "!!null" {
				return nil, &model.MalformedExampleError{Index: i, Attribute: key, Reason: "value must be a non-null scalar"}
			}
			if key == model.GoalKey {
				if err := node.Decode(&goal); err != nil {
					return nil, &model.MalformedExampleError{Index: i, Attribute: key, Reason: fmt.Sprintf("%s must be a boolean, got %q", model.GoalKey, node.Value)}
				}
				hasGoal = true
				continue
			}
			attrs[key] = node.Value
		}
		if !hasGoal {
			return nil, &model.MalformedExampleError{Index: i, Attribute: model.GoalKey, Reason: "missing " + model.GoalKey, Err: model.ErrMissingGoal}
		}
		out = append(out, model.Example{Attributes: attrs, Goal: goal})
	}
	return out, nil
}

func parseSeed(raw []map[string]yaml.Node) (model.Hypothesis, error) {
	var h model.Hypothesis
	for i, entry := range raw {
		lits := make([]model.Literal, 0, len(entry))
		for attr, node := range entry {
			lit, err := parseLiteral(attr, node)
			if err != nil {
				return nil, fmt.Errorf("disjunct %d: %w", i, err)
			}
			lits = append(lits, lit)
		}
		c, err := model.NewConjunction(lits...)
		if err != nil {
			return nil, fmt.Errorf("disjunct %d: %w", i, err)
		}
		h = append(h, c)
	}
	return h, nil
}

// parseLiteral accepts a scalar value or a {not: value} mapping
func parseLiteral(attr string, node yaml.Node) (model.Literal, error) {
	if attr == model.GoalKey {
		return model.Literal{}, fmt.Errorf("%w: %s cannot appear in a hypothesis", model.ErrMalformedExample, model.GoalKey)
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return model.Is(attr, node.Value), nil
	case yaml.MappingNode:
		var neg struct {
			Not *yaml.Node `yaml:"not"`
		}
		if err := node.Decode(&neg); err != nil {
			return model.Literal{}, fmt.Errorf("attribute %q: %w", attr, err)
		}
		if neg.Not == nil || neg.Not.Kind != yaml.ScalarNode || len(node.Content) != 2 {
			return model.Literal{}, fmt.Errorf("%w: attribute %q: expected a value or {not: value}", model.ErrMalformedExample, attr)
		}
		return model.Not(attr, neg.Not.Value), nil
	default:
		return model.Literal{}, fmt.Errorf("%w: attribute %q: expected a value or {not: value}", model.ErrMalformedExample, attr)
	}
}
