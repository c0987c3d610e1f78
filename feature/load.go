package feature

import (
	"encoding/csv"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Column names of a feature metadata table.
const (
	ColName         = "name"
	ColVariableType = "variable_type"
	ColStrategy     = "feature_strategy"
	ColStrategyArgs = "strategy_args"
)

// ReadCSV reads a feature metadata table. The header must contain name and
// feature_strategy; variable_type and strategy_args are optional.
func ReadCSV(r io.Reader) (Specs, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feature table")
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "feature table has no header")
	}

	pos := make(map[string]int, len(records[0]))
	for j, col := range records[0] {
		pos[strings.ToLower(strings.TrimSpace(col))] = j
	}
	for _, required := range []string{ColName, ColStrategy} {
		if _, ok := pos[required]; !ok {
			return nil, errors.Wrapf(errors.ErrMissingColumn, "feature table column %q", required)
		}
	}

	cell := func(record []string, col string) string {
		j, ok := pos[col]
		if !ok || j >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[j])
	}

	specs := make(Specs, 0, len(records)-1)
	for i, record := range records[1:] {
		strategy, err := ParseStrategy(cell(record, ColStrategy))
		if err != nil {
			return nil, errors.Wrapf(err, "feature table row %d", i+1)
		}
		specs = append(specs, Spec{
			Name:         cell(record, ColName),
			VariableType: cell(record, ColVariableType),
			Strategy:     strategy,
			Args:         cell(record, ColStrategyArgs),
		})
	}
	if err := specs.Validate(); err != nil {
		return nil, err
	}
	return specs, nil
}

type yamlDocument struct {
	Features Specs `yaml:"features"`
}

// ReadYAML reads feature specs from YAML. The document is either a list of
// specs or a mapping with a features list.
//
//	features:
//	  - name: color
//	    feature_strategy: one-hot
//	  - name: comment
//	    feature_strategy: count_vectorizing
//	    strategy_args: "ngram_range=1;2|tuple|int"
func ReadYAML(r io.Reader) (Specs, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrEmptyData, "feature document is empty")
		}
		return nil, errors.Wrap(err, "failed to parse feature document")
	}

	var specs Specs
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&specs); err != nil {
			return nil, errors.Wrap(err, "failed to decode feature list")
		}
	case yaml.MappingNode:
		var doc yamlDocument
		if err := root.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode feature document")
		}
		specs = doc.Features
	default:
		return nil, errors.NewValidationError("features", "expected a list or a mapping", root.Tag)
	}

	if err := specs.Validate(); err != nil {
		return nil, err
	}
	return specs, nil
}
