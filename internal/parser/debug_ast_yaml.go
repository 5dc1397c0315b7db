package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"lox/internal/ast"
)

func RenderASTAsYAML(node ast.Node) (string, error) {
	buf := new(bytes.Buffer)
	encoder := yaml.NewEncoder(buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(WalkAST(node)); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.String(), nil
}
