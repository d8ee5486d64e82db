package parser

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontMatterRe = regexp.MustCompile(`(?ms)^---\s*\n(.*?)\n---\s*\n?`)

// splitFrontMatter separates a leading YAML front matter block from the
// Markdown body. Content without front matter is returned unchanged.
func splitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}

// parseFrontMatterTags extracts the `tags:` list from a front matter block.
// Invalid YAML degrades to no tags rather than an error.
func parseFrontMatterTags(fm []byte) []string {
	if len(fm) == 0 {
		return nil
	}

	var data yaml.Node
	if err := yaml.Unmarshal(fm, &data); err != nil {
		return nil
	}
	if data.Kind != yaml.DocumentNode || len(data.Content) == 0 {
		return nil
	}
	mapping := data.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != "tags" {
			continue
		}
		return flattenTagValue(mapping.Content[i+1])
	}
	return nil
}

func flattenTagValue(node *yaml.Node) []string {
	var raw []string
	switch node.Kind {
	case yaml.SequenceNode:
		for _, child := range node.Content {
			raw = append(raw, child.Value)
		}
	case yaml.ScalarNode:
		// Scalar form: `tags: a, b c`.
		raw = strings.FieldsFunc(node.Value, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
	}

	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
