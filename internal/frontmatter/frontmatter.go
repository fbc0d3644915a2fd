package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingFrontmatter = errors.New("missing frontmatter array")
	ErrIncorrectFormat    = errors.New("incorrect format")
)

const delimiter = "---"

// Entry is one tracked product
type Entry struct {
	Name     string
	Keywords []string
	// Sites keeps the order of the file
	Sites []SiteProduct
}

// SiteProduct is the product id of an entry on one site
type SiteProduct struct {
	Site      string
	ProductID string
}

// LoadFile reads the product list from the front matter of a Markdown file
func LoadFile(path string) ([]Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(content)
}

// Parse decodes and validates the YAML front matter of content.
// The front matter must be a list of mappings, each with a string name,
// a list of keywords, and site: productId pairs.
func Parse(content []byte) ([]Entry, error) {
	raw, ok := extract(content)
	if !ok {
		return nil, ErrMissingFrontmatter
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrMissingFrontmatter
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, ErrMissingFrontmatter
	}

	entries := make([]Entry, 0, len(root.Content))
	for i, item := range root.Content {
		entry, err := decodeEntry(item)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrIncorrectFormat, i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// extract returns the text between the opening and closing delimiters
func extract(content []byte) ([]byte, bool) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	lines := bytes.Split(content, []byte("\n"))
	if len(lines) == 0 || string(bytes.TrimRight(lines[0], " \t")) != delimiter {
		return nil, false
	}

	for i := 1; i < len(lines); i++ {
		if string(bytes.TrimRight(lines[i], " \t")) == delimiter {
			return bytes.Join(lines[1:i], []byte("\n")), true
		}
	}
	return nil, false
}

func decodeEntry(node *yaml.Node) (Entry, error) {
	if node.Kind != yaml.MappingNode {
		return Entry{}, errors.New("entry is not a mapping")
	}

	var entry Entry
	hasName, hasKeywords := false, false

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]

		switch key {
		case "name":
			if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
				return Entry{}, errors.New("name must be a string")
			}
			entry.Name = value.Value
			hasName = true

		case "keywords":
			if value.Kind != yaml.SequenceNode {
				return Entry{}, errors.New("keywords must be a list")
			}
			entry.Keywords = make([]string, 0, len(value.Content))
			for _, k := range value.Content {
				if !isPlainValue(k) {
					return Entry{}, fmt.Errorf("keyword %q must be a string", k.Value)
				}
				entry.Keywords = append(entry.Keywords, k.Value)
			}
			hasKeywords = true

		default:
			if !isPlainValue(value) {
				return Entry{}, fmt.Errorf("product id of %s must be a number or a string", key)
			}
			entry.Sites = append(entry.Sites, SiteProduct{Site: key, ProductID: value.Value})
		}
	}

	if !hasName {
		return Entry{}, errors.New("missing name")
	}
	if !hasKeywords {
		return Entry{}, errors.New("missing keywords")
	}
	return entry, nil
}

func isPlainValue(node *yaml.Node) bool {
	if node.Kind != yaml.ScalarNode {
		return false
	}
	switch node.ShortTag() {
	case "!!str", "!!int", "!!float":
		return true
	}
	return false
}
