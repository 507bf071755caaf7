package discovery

import (
	"fmt"
	"os"
	"regexp"
)

// testCommandPattern matches the run directives at the top of a test case
// file, e.g. "test verifier" or "test legalizer".
var testCommandPattern = regexp.MustCompile(`(?m)^\s*test\s+([\w-]+)`)

// Parser parses test files to extract the test commands they request
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestCommands returns the test commands declared in a test file, in
// declaration order and without duplicates.
func (p *Parser) FindTestCommands(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return ParseTestCommands(string(content)), nil
}

// ParseTestCommands extracts test commands from file content.
func ParseTestCommands(content string) []string {
	seen := make(map[string]bool)
	var commands []string
	for _, match := range testCommandPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		commands = append(commands, name)
	}
	return commands
}
