package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError locates a problem in a categories file
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// readCategoriesFile reads a categories file. Missing and unreadable files
// are reported as ValidationErrors so the CLI prints them like any other
// problem with the file.
func readCategoriesFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, &ValidationError{FilePath: filePath, Message: "categories file does not exist"}
	case errors.Is(err, fs.ErrPermission):
		return nil, &ValidationError{FilePath: filePath, Message: "categories file is not readable: permission denied"}
	default:
		return nil, &ValidationError{FilePath: filePath, Message: err.Error()}
	}
}

// checkCategoriesSyntax parses data as YAML and requires a mapping at the
// root. An empty document declares no categories.
func checkCategoriesSyntax(data []byte, filePath string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		line, column := yamlPosition(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  "invalid YAML: " + yamlReason(err.Error()),
		}
	}

	if len(node.Content) > 0 && node.Content[0].Kind != yaml.MappingNode {
		root := node.Content[0]
		return &ValidationError{
			FilePath: filePath,
			Line:     root.Line,
			Column:   root.Column,
			Message:  "expected a mapping with a top-level 'categories' list",
		}
	}
	return nil
}

// yamlPosition reads the line and column from a yaml.v3 error such as
// "yaml: line 5: could not find expected ':'". A missing column is 1 and
// a missing line is 0.
func yamlPosition(errMsg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// yamlReason strips the "yaml: line N:" prefix
func yamlReason(errMsg string) string {
	if !strings.HasPrefix(errMsg, "yaml:") {
		return errMsg
	}
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		return errMsg[idx+2:]
	}
	return strings.TrimSpace(strings.TrimPrefix(errMsg, "yaml:"))
}
