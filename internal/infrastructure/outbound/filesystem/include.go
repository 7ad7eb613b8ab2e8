package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	includeTag      = "!include"
	maxIncludeDepth = 10
)

// includer splices !include references into a configuration tree. YAML files
// replace the tagged node with their document; any other file becomes a
// string scalar. References resolve relative to the including file, or to
// the configuration directory with @root/, and may not leave it.
type includer struct {
	rootDir string
}

func newIncluder(rootDir string) *includer {
	return &includer{rootDir: rootDir}
}

func (in *includer) expand(node *yaml.Node, dir string) error {
	return in.walk(node, dir, nil)
}

// stack holds the files currently being expanded, outermost first.
func (in *includer) walk(node *yaml.Node, dir string, stack []string) error {
	if node == nil {
		return nil
	}
	if node.Tag == includeTag {
		return in.splice(node, dir, stack)
	}
	for _, child := range node.Content {
		if err := in.walk(child, dir, stack); err != nil {
			return err
		}
	}
	return nil
}

func (in *includer) splice(node *yaml.Node, dir string, stack []string) error {
	ref := strings.TrimSpace(node.Value)
	if ref == "" {
		return configErrorAt(node, "!include requires a file name")
	}
	if len(stack) >= maxIncludeDepth {
		return configErrorAt(node, fmt.Sprintf("!include nesting exceeds %d levels", maxIncludeDepth))
	}

	path, err := in.locate(ref, dir)
	if err != nil {
		return configErrorAt(node, fmt.Sprintf("!include %q: %v", ref, err))
	}
	for _, open := range stack {
		if open == path {
			return configErrorAt(node, fmt.Sprintf("!include %q forms a cycle", ref))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return configErrorAt(node, fmt.Sprintf("!include %q: %v", ref, err))
	}

	if !isYAMLFile(path) {
		*node = yaml.Node{
			Kind:   yaml.ScalarNode,
			Tag:    "!!str",
			Value:  string(data),
			Line:   node.Line,
			Column: node.Column,
		}
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return configErrorAt(node, fmt.Sprintf("!include %q: %v", ref, err))
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return configErrorAt(node, fmt.Sprintf("!include %q: file is empty", ref))
	}
	if err := in.walk(doc.Content[0], filepath.Dir(path), append(stack, path)); err != nil {
		return err
	}
	*node = *doc.Content[0]
	return nil
}

// locate resolves ref to a cleaned path inside rootDir.
func (in *includer) locate(ref, dir string) (string, error) {
	var path string
	switch {
	case filepath.IsAbs(ref):
		return "", fmt.Errorf("absolute paths are not allowed")
	case strings.HasPrefix(ref, "@root/"):
		path = filepath.Join(in.rootDir, strings.TrimPrefix(ref, "@root/"))
	case strings.HasPrefix(ref, "@here/"):
		path = filepath.Join(dir, strings.TrimPrefix(ref, "@here/"))
	default:
		path = filepath.Join(dir, ref)
	}

	if !within(in.rootDir, path) {
		return "", fmt.Errorf("path escapes %s", in.rootDir)
	}
	return path, nil
}

// within reports whether path stays under root once symlinks are resolved.
func within(root, path string) bool {
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
