package formats

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AreaRecord is a named rectangular region referenced by mission scripts.
// The bounding box is (left, top, right, bottom) in world units.
type AreaRecord struct {
	Name        string
	BoundingBox [4]int
}

// AIL is a parsed area/location file.
type AIL struct {
	Areas []AreaRecord
}

// NewAIL returns an empty area file.
func NewAIL() *AIL {
	return &AIL{}
}

// AddArea adds (or replaces) a named area.
func (a *AIL) AddArea(name string, boundingBox [4]int) {
	for i := range a.Areas {
		if a.Areas[i].Name == name {
			a.Areas[i].BoundingBox = boundingBox
			return
		}
	}
	a.Areas = append(a.Areas, AreaRecord{Name: name, BoundingBox: boundingBox})
}

// ParseAIL parses an .ail file from raw bytes.
func ParseAIL(data []byte) (*AIL, error) {
	a := &AIL{}
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
			a.Areas = append(a.Areas, AreaRecord{Name: line})
			lineInSection = 1
		case 1:
			parts := strings.Split(line, ",")
			if len(parts) == 4 && len(a.Areas) > 0 {
				var box [4]int
				ok := true
				for i, part := range parts {
					v, err := strconv.Atoi(strings.TrimSpace(part))
					if err != nil {
						ok = false
						break
					}
					box[i] = v
				}
				if ok {
					a.Areas[len(a.Areas)-1].BoundingBox = box
				}
			}
			lineInSection = -1
		}
	}
	return a, nil
}

// ParseAILFile parses an .ail file from disk.
func ParseAILFile(path string) (*AIL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AIL file: %w", err)
	}
	return ParseAIL(data)
}

// Encode renders the area file.
func (a *AIL) Encode() []byte {
	var b strings.Builder
	for _, area := range a.Areas {
		b.WriteString("[Section]\n")
		b.WriteString(area.Name)
		b.WriteByte('\n')
		box := area.BoundingBox
		fmt.Fprintf(&b, "%d,%d,%d,%d\n\n", box[0], box[1], box[2], box[3])
	}
	return []byte(b.String())
}
