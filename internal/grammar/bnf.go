package grammar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseBNF reads rules in the textual grammar format
//
//	NonTerminal ::= symbol symbol ... | symbol ...
//
// Alternatives are separated by '|', symbols by whitespace. Lines without a
// '::=' separator are skipped. The first rule's left-hand side becomes the
// start symbol.
func ParseBNF(r io.Reader) (*Grammar, error) {
	rules := map[string][]Production{}
	start := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		name, alternatives, ok := splitRule(line)
		if !ok {
			continue
		}
		if start == "" {
			start = name
		}
		rules[name] = append(rules[name], alternatives...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	if start == "" {
		return nil, fmt.Errorf("no grammar rules found")
	}
	return New(start, rules)
}

// LoadBNF parses a grammar file from disk.
func LoadBNF(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ParseBNF(f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar %s: %w", path, err)
	}
	return g, nil
}

func splitRule(line string) (string, []Production, bool) {
	parts := strings.SplitN(line, "::=", 2)
	if len(parts) != 2 {
		return "", nil, false
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return "", nil, false
	}

	var alternatives []Production
	for _, alt := range strings.Split(parts[1], "|") {
		symbols := strings.Fields(alt)
		if len(symbols) == 0 {
			continue
		}
		alternatives = append(alternatives, Production(symbols))
	}
	if len(alternatives) == 0 {
		return "", nil, false
	}
	return name, alternatives, true
}
