package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/itchyny/gojq"
)

// jqTimeout bounds evaluation of a --jq expression.
const jqTimeout = 5 * time.Second

// writeJSON prints v as indented JSON. With a non-empty jq expression, each
// result of the filter is printed instead; string results are printed raw.
func writeJSON(ctx context.Context, w io.Writer, v any, expr string) error {
	if expr == "" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	results, err := applyJQ(ctx, expr, v)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, r := range results {
		if s, ok := r.(string); ok {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// applyJQ evaluates expr against v. v is round-tripped through JSON first
// because gojq only accepts plain maps, slices and scalars.
func applyJQ(ctx context.Context, expr string, v any) ([]any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("jq parse error: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compile error: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, jqTimeout)
	defer cancel()

	var results []any
	iter := code.RunWithContext(ctx, input)
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := r.(error); isErr {
			return nil, fmt.Errorf("jq error: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}
