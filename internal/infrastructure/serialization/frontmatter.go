package serialization

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	yamlDelimiter = "---"
	titlePrefix   = "#"
)

// ErrNoTitle is returned when a task document has no "# title" heading
var ErrNoTitle = errors.New("no title found. Add a line starting with '# ' followed by the task title")

// FrontmatterDocument represents a document with YAML frontmatter
type FrontmatterDocument struct {
	Frontmatter map[string]interface{}
	Content     string

	// scalars keeps top-level scalar values as written, before YAML
	// resolves them to dates or numbers
	scalars map[string]string
}

// ParseFrontmatter parses a markdown file with YAML frontmatter
func ParseFrontmatter(data []byte) (*FrontmatterDocument, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	doc := &FrontmatterDocument{
		Frontmatter: make(map[string]interface{}),
	}

	if !scanner.Scan() {
		return doc, nil
	}

	if strings.TrimSpace(scanner.Text()) != yamlDelimiter {
		doc.Content = strings.TrimSpace(string(data))
		return doc, nil
	}

	var frontmatterLines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == yamlDelimiter {
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}

	if len(frontmatterLines) > 0 {
		frontmatterYAML := strings.Join(frontmatterLines, "\n")
		if err := yaml.Unmarshal([]byte(frontmatterYAML), &doc.Frontmatter); err != nil {
			return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
		}
		if doc.Frontmatter == nil {
			doc.Frontmatter = make(map[string]interface{})
		}
		doc.scalars = rawScalars([]byte(frontmatterYAML))
	}

	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	doc.Content = strings.TrimSpace(strings.Join(contentLines, "\n"))

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}

	return doc, nil
}

// SerializeFrontmatter serializes a document with YAML frontmatter
func SerializeFrontmatter(frontmatter map[string]interface{}, content string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(yamlDelimiter)
	buf.WriteString("\n")

	if len(frontmatter) > 0 {
		yamlData, err := yaml.Marshal(frontmatter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
		}
		buf.Write(yamlData)
	}

	buf.WriteString(yamlDelimiter)
	buf.WriteString("\n")

	if content != "" {
		buf.WriteString(content)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// GetString safely gets a string value from frontmatter. A parsed
// scalar is returned exactly as written, so "deadline: 2026-03-01"
// reads back as "2026-03-01" rather than a formatted time.Time.
func (d *FrontmatterDocument) GetString(key string) string {
	val, ok := d.Frontmatter[key]
	if !ok || val == nil {
		return ""
	}
	if raw, ok := d.scalars[key]; ok {
		return raw
	}
	switch v := val.(type) {
	case string:
		return v
	case time.Time:
		if v.Location() == time.UTC && v.Equal(v.Truncate(24*time.Hour)) {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	}
	return fmt.Sprint(val)
}

func rawScalars(data []byte) map[string]string {
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil
	}
	out := make(map[string]string, len(nodes))
	for key, node := range nodes {
		if node.Kind == yaml.ScalarNode && node.ShortTag() != "!!null" {
			out[key] = node.Value
		}
	}
	return out
}

// TaskDocument is the editable markdown form of a task: the deadline in
// frontmatter, a "# title" heading and the description as the body.
type TaskDocument struct {
	Title       string
	Description string
	Deadline    string
}

// MarshalTask renders a task document for editing. The deadline key is
// always present so it can be filled in.
func MarshalTask(doc TaskDocument) ([]byte, error) {
	content := titlePrefix + " " + doc.Title
	if doc.Description != "" {
		content += "\n\n" + doc.Description
	}
	return SerializeFrontmatter(map[string]interface{}{"deadline": doc.Deadline}, content)
}

// ParseTask reads a document produced by MarshalTask after editing. The
// first heading is the title and everything after it is the description.
func ParseTask(data []byte) (TaskDocument, error) {
	fm, err := ParseFrontmatter(data)
	if err != nil {
		return TaskDocument{}, err
	}

	var (
		title      string
		foundTitle bool
		body       []string
	)
	for _, line := range strings.Split(fm.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !foundTitle {
			if strings.HasPrefix(trimmed, titlePrefix) {
				title = strings.TrimSpace(strings.TrimLeft(trimmed, titlePrefix))
				foundTitle = true
			}
			continue
		}
		body = append(body, line)
	}

	if !foundTitle || title == "" {
		return TaskDocument{}, ErrNoTitle
	}

	return TaskDocument{
		Title:       title,
		Description: strings.TrimSpace(strings.Join(body, "\n")),
		Deadline:    strings.TrimSpace(fm.GetString("deadline")),
	}, nil
}

// TitleLine returns the 1-based line of the first heading in data, or 0
func TitleLine(data []byte) int {
	for i, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), titlePrefix) {
			return i + 1
		}
	}
	return 0
}
