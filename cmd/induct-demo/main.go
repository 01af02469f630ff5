// Demo program: runs both learners over the built-in datasets through the
// public API and guesses GOAL for each held-out combination.
package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/induct/pkg/induct"
)

func main() {
	fmt.Println("=== induct demo ===")
	fmt.Println()

	for _, name := range induct.Builtins() {
		fmt.Printf("Dataset: %s\n", name)
		fmt.Println(strings.Repeat("-", 60))

		examples, seed, err := induct.Builtin(name)
		if err != nil {
			fmt.Printf("  load error: %v\n\n", err)
			continue
		}

		h, err := induct.CurrentBestLearning(examples, seed)
		if err != nil {
			fmt.Printf("  ✗ current-best: %v\n", err)
		} else {
			if len(seed) > 0 {
				fmt.Printf("  seed:          %s\n", seed)
			}
			fmt.Printf("  ✓ current-best: %s\n", h)
		}

		vs, err := induct.VersionSpaceLearning(examples)
		switch {
		case errors.Is(err, induct.ErrSpaceTooLarge):
			fmt.Printf("  ⚠️  version-space skipped: %v\n", err)
		case err != nil:
			fmt.Printf("  ✗ version-space: %v\n", err)
		case vs.Empty():
			fmt.Println("  ✓ version-space: empty (no hypothesis fits every example)")
		default:
			fmt.Printf("  ✓ version-space: %d hypotheses\n", vs.Len())
		}

		for _, q := range unseen(examples) {
			line := fmt.Sprintf("  guess %s:", strings.TrimSuffix(q.String(), " => false"))
			if h != nil {
				line += fmt.Sprintf(" current-best=%t", induct.GuessExampleValue(q, h))
			}
			if err == nil {
				yes, no := vs.Agreement(q)
				line += fmt.Sprintf(" version-space=%t (%d/%d)", induct.GuessExampleValue(q, vs), yes, yes+no)
			}
			fmt.Println(line)
		}
		fmt.Println()
	}

	fmt.Println("=== Demo Complete ===")
	fmt.Println("\nNote: version-space learning enumerates every hypothesis and only")
	fmt.Println("fits small vocabularies; use `induct space <dataset>` to check the size.")
}

// unseen lists the attribute combinations of the vocabulary that no training
// example covers, in lexical order.
func unseen(examples []induct.Example) []induct.Example {
	values := map[string]map[string]bool{}
	seen := map[string]bool{}
	for _, e := range examples {
		for attr, val := range e.Attributes {
			if values[attr] == nil {
				values[attr] = map[string]bool{}
			}
			values[attr][val] = true
		}
		seen[key(e)] = true
	}

	var attrs []string
	if len(examples) > 0 {
		attrs = examples[0].AttributeNames()
	}
	var out []induct.Example
	var walk func(i int, cur map[string]string)
	walk = func(i int, cur map[string]string) {
		if i == len(attrs) {
			e := induct.NewExample(cur, false)
			if !seen[key(e)] {
				out = append(out, e)
			}
			return
		}
		for _, val := range sortedKeys(values[attrs[i]]) {
			cur[attrs[i]] = val
			walk(i+1, cur)
		}
		delete(cur, attrs[i])
	}
	walk(0, map[string]string{})
	return out
}

func key(e induct.Example) string {
	var b strings.Builder
	for _, attr := range e.AttributeNames() {
		fmt.Fprintf(&b, "%s=%s;", attr, e.Attributes[attr])
	}
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
