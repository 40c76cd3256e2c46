package page

import (
	"context"
	"fmt"
	"sort"
)

// Props is the prop mapping of a page. Keys are unique by construction.
type Props map[string]any

// Clone returns a copy of p. Nested JSON-shaped values (maps keyed by
// string, Props and []any) are copied too; any other value, including
// Func and Lazy props, is shared. A nil Props clones to nil.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case Props:
		return v.Clone()
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Keys returns the prop keys in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present.
func (p Props) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Selection is a partial reload directive already matched against the
// component being rendered.
type Selection struct {
	// Only lists the requested keys. A nil Only keeps every key; an empty,
	// non-nil Only keeps none (besides always-include keys).
	Only []string

	// Except lists keys to drop after Only is applied.
	Except []string
}

// Filter returns the props selected by sel. A nil sel is a full visit and
// yields a copy of p. Otherwise the result holds the keys of p named by
// sel.Only (all non-lazy keys when Only is nil) minus sel.Except, plus every key of
// always that is present in p. p is never mutated.
func (p Props) Filter(sel *Selection, always []string) Props {
	if sel == nil {
		out := p.Clone()
		if out == nil {
			out = Props{}
		}
		return out
	}

	out := make(Props)
	if sel.Only == nil {
		for k, v := range p {
			// Lazy props are only sent when named.
			if _, lazy := v.(LazyProp); !lazy {
				out[k] = v
			}
		}
	} else {
		for _, k := range sel.Only {
			if v, ok := p[k]; ok {
				out[k] = v
			}
		}
	}
	for _, k := range sel.Except {
		delete(out, k)
	}
	for _, k := range always {
		if v, ok := p[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Evaluator computes a prop value at response time.
type Evaluator func(ctx context.Context) (any, error)

// FuncProp is a prop computed after filtering, on every response that keeps it.
type FuncProp struct {
	eval Evaluator
}

// Func wraps fn as a deferred prop.
func Func(fn Evaluator) FuncProp {
	return FuncProp{eval: fn}
}

// LazyProp is a prop omitted from full visits. It is only evaluated when a
// partial reload asks for it by name.
type LazyProp struct {
	eval Evaluator
}

// Lazy wraps fn as a lazy prop.
func Lazy(fn Evaluator) LazyProp {
	return LazyProp{eval: fn}
}

// Resolve evaluates deferred props. Lazy props are dropped unless partial is
// true, in which case the caller has already filtered them down to the ones
// the client asked for. The input is not mutated.
func Resolve(ctx context.Context, props Props, partial bool) (Props, error) {
	out := make(Props, len(props))
	for k, v := range props {
		switch prop := v.(type) {
		case LazyProp:
			if !partial {
				continue
			}
			val, err := evaluate(ctx, k, prop.eval)
			if err != nil {
				return nil, err
			}
			out[k] = val
		case FuncProp:
			val, err := evaluate(ctx, k, prop.eval)
			if err != nil {
				return nil, err
			}
			out[k] = val
		default:
			out[k] = v
		}
	}
	return out, nil
}

func evaluate(ctx context.Context, key string, fn Evaluator) (any, error) {
	if fn == nil {
		return nil, nil
	}
	v, err := fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("page: prop %q: %w", key, err)
	}
	return v, nil
}
