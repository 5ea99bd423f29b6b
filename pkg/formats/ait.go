package formats

import (
	"fmt"
	"os"
	"strings"
)

// TextRecord is a named UI string referenced by mission scripts. Records live
// in the game's Text/<language>/ directory rather than the level directory.
type TextRecord struct {
	Name    string
	Content string
}

// AIT is a parsed mission text file.
type AIT struct {
	Records []TextRecord
}

// NewAIT returns an empty text file.
func NewAIT() *AIT {
	return &AIT{}
}

// AddText adds (or replaces) a named text record.
func (a *AIT) AddText(name, content string) {
	for i := range a.Records {
		if a.Records[i].Name == name {
			a.Records[i].Content = content
			return
		}
	}
	a.Records = append(a.Records, TextRecord{Name: name, Content: content})
}

// ParseAIT parses an .ait file from raw bytes.
func ParseAIT(data []byte) (*AIT, error) {
	a := &AIT{}
	lineInSection := -1
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "[Section]" {
			lineInSection = 0
			continue
		}
		switch lineInSection {
		case 0:
			a.Records = append(a.Records, TextRecord{Name: line})
			lineInSection = 1
		case 1:
			if len(a.Records) > 0 {
				a.Records[len(a.Records)-1].Content = line
			}
			lineInSection = -1
		}
	}
	return a, nil
}

// ParseAITFile parses an .ait file from disk.
func ParseAITFile(path string) (*AIT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AIT file: %w", err)
	}
	return ParseAIT(data)
}

// Encode renders the mission text file.
func (a *AIT) Encode() []byte {
	var b strings.Builder
	for _, rec := range a.Records {
		b.WriteString("[Section]\n")
		b.WriteString(rec.Name)
		b.WriteByte('\n')
		b.WriteString(rec.Content)
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}
