package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/scanner"
)

// LoadPatterns reads a YAML mapping of pattern name to regular expression.
// Document order is kept. An empty path yields the built-in patterns; a
// named file that does not exist is an error matching fs.ErrNotExist.
func LoadPatterns(path string) ([]domain.PatternSpec, error) {
	if path == "" {
		return scanner.DefaultPatterns(), nil
	}
	pairs, err := readOrderedMap(path)
	if err != nil {
		return nil, err
	}

	specs := make([]domain.PatternSpec, 0, len(pairs))
	for _, p := range pairs {
		specs = append(specs, domain.PatternSpec{Name: p.key, Expr: p.value})
	}
	return specs, nil
}

// LoadLabels reads a YAML mapping of regular expression to label. Document
// order is kept. An empty path yields the built-in labels; a named file
// that does not exist is an error matching fs.ErrNotExist.
func LoadLabels(path string) ([]domain.LabelSpec, error) {
	if path == "" {
		return scanner.DefaultLabels(), nil
	}
	pairs, err := readOrderedMap(path)
	if err != nil {
		return nil, err
	}

	specs := make([]domain.LabelSpec, 0, len(pairs))
	for _, p := range pairs {
		specs = append(specs, domain.LabelSpec{Expr: p.key, Label: p.value})
	}
	return specs, nil
}

type pair struct {
	key, value string
}

func readOrderedMap(path string) ([]pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", domain.ErrInvalidPattern, path, err)
	}

	// An empty document has no content node.
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: expected a mapping at line %d",
			domain.ErrInvalidPattern, path, root.Line)
	}

	pairs := make([]pair, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s: entry at line %d is not a scalar pair",
				domain.ErrInvalidPattern, path, k.Line)
		}
		pairs = append(pairs, pair{key: k.Value, value: v.Value})
	}
	return pairs, nil
}
