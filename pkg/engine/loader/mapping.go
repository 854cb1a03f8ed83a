package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a persisted mapping.
type Format string

const (
	FormatPickle Format = "pickle"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

// FormatOf picks the mapping format from a path or URI extension.
func FormatOf(p string) (Format, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".pkl", ".pickle":
		return FormatPickle, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
}

// Similar is one stored neighbour of a drug.
type Similar struct {
	Drug  string
	Score float64
}

// SimilarityTable maps a canonical drug id to its similar drugs.
type SimilarityTable map[string][]Similar

// TargetTable maps a canonical drug id to its historical targets. A key
// stored with no value maps to nil.
type TargetTable map[string][]string

// AliasTable is a flat id to id translation.
type AliasTable map[string]string

// ParseSimilarityTable decodes drug -> [(similar drug, score), ...].
func ParseSimilarityTable(data []byte, f Format) (SimilarityTable, error) {
	root, err := decodeMapping(data, f)
	if err != nil {
		return nil, err
	}

	table := make(SimilarityTable, len(root))
	for drug, v := range root {
		items, err := asList(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", drug, err)
		}
		sims := make([]Similar, 0, len(items))
		for i, item := range items {
			s, err := asSimilar(item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", drug, i, err)
			}
			sims = append(sims, s)
		}
		table[drug] = sims
	}
	return table, nil
}

// ParseTargetTable decodes drug -> [target, ...].
func ParseTargetTable(data []byte, f Format) (TargetTable, error) {
	root, err := decodeMapping(data, f)
	if err != nil {
		return nil, err
	}

	table := make(TargetTable, len(root))
	for drug, v := range root {
		items, err := asList(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", drug, err)
		}
		if items == nil {
			table[drug] = nil
			continue
		}
		targets := make([]string, 0, len(items))
		for i, item := range items {
			t, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: %w: target %v is not a string", drug, i, ErrMalformedMapping, item)
			}
			targets = append(targets, t)
		}
		table[drug] = targets
	}
	return table, nil
}

// ParseAliasTable decodes a flat id -> id dictionary.
func ParseAliasTable(data []byte, f Format) (AliasTable, error) {
	root, err := decodeMapping(data, f)
	if err != nil {
		return nil, err
	}

	table := make(AliasTable, len(root))
	for k, v := range root {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: alias %v is not a string", k, ErrMalformedMapping, v)
		}
		table[k] = s
	}
	return table, nil
}

// decodeMapping returns the top level dictionary with pickle containers
// converted to plain maps and slices.
func decodeMapping(data []byte, f Format) (map[string]any, error) {
	var root any
	switch f {
	case FormatPickle:
		u := pickle.NewUnpickler(bytes.NewReader(data))
		u.FindClass = findNumpyClass
		v, err := u.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to unpickle: %w", err)
		}
		root, err = fromPickle(v)
		if err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}

	m, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, want a dictionary", ErrMalformedMapping, root)
	}
	return m, nil
}

func fromPickle(v any) (any, error) {
	switch x := v.(type) {
	case *types.Dict:
		m := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %v is not a string", ErrMalformedMapping, k)
			}
			val, _ := x.Get(k)
			conv, err := fromPickle(val)
			if err != nil {
				return nil, err
			}
			m[ks] = conv
		}
		return m, nil
	case *types.List:
		return fromPickleSeq(x.Len(), x.Get)
	case *types.Tuple:
		return fromPickleSeq(x.Len(), x.Get)
	}
	return v, nil
}

func fromPickleSeq(n int, get func(int) interface{}) ([]any, error) {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		conv, err := fromPickle(get(i))
		if err != nil {
			return nil, err
		}
		out[i] = conv
	}
	return out, nil
}

// asList accepts a sequence or nil.
func asList(v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	}
	return nil, fmt.Errorf("%w: %T is not a list", ErrMalformedMapping, v)
}

// asSimilar accepts (drug, score) pairs and {drug, score} objects.
func asSimilar(v any) (Similar, error) {
	var drug, score any
	switch x := v.(type) {
	case []any:
		if len(x) != 2 {
			return Similar{}, fmt.Errorf("%w: pair has %d items", ErrMalformedMapping, len(x))
		}
		drug, score = x[0], x[1]
	case map[string]any:
		drug, score = x["drug"], x["score"]
	default:
		return Similar{}, fmt.Errorf("%w: %T is not a (drug, score) pair", ErrMalformedMapping, v)
	}

	d, ok := drug.(string)
	if !ok {
		return Similar{}, fmt.Errorf("%w: drug %v is not a string", ErrMalformedMapping, drug)
	}
	s, err := asFloat(score)
	if err != nil {
		return Similar{}, fmt.Errorf("%s: %w", d, err)
	}
	return Similar{Drug: d, Score: s}, nil
}

func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrMalformedScore, v)
}
