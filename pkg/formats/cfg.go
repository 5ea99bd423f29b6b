package formats

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// CFG format errors.
var ErrUnknownCFGSection = errors.New("unknown CFG section")

// CFGRecord is one [Section] of a .cfg file. Records keep their file order
// because the engine is sensitive to section ordering.
type CFGRecord struct {
	Section string
	Lines   []string
}

// CFG is a parsed level configuration file.
type CFG struct {
	Records []CFGRecord
}

// ParseCFG parses a .cfg file from raw bytes. Comments introduced by ';' are
// stripped; blank lines are ignored.
func ParseCFG(data []byte) (*CFG, error) {
	cfg := &CFG{}
	var current *CFGRecord

	for _, line := range strings.Split(string(data), "\n") {
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			cfg.Records = append(cfg.Records, CFGRecord{Section: strings.Trim(line, "[]")})
			current = &cfg.Records[len(cfg.Records)-1]
		} else if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}
	return cfg, nil
}

// ParseCFGFile parses a .cfg file from disk.
func ParseCFGFile(path string) (*CFG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading CFG file: %w", err)
	}
	return ParseCFG(data)
}

// Get returns the lines of the named section.
func (c *CFG) Get(section string) ([]string, error) {
	for i := range c.Records {
		if c.Records[i].Section == section {
			return c.Records[i].Lines, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCFGSection, section)
}

// Set replaces the named section's lines, appending a new section if it does
// not exist. Comment lines in the value are dropped.
func (c *CFG) Set(section string, lines ...string) {
	var clean []string
	for _, l := range lines {
		for _, sub := range strings.Split(l, "\n") {
			if strings.HasPrefix(strings.TrimSpace(sub), ";") {
				continue
			}
			clean = append(clean, sub)
		}
	}
	for i := range c.Records {
		if c.Records[i].Section == section {
			c.Records[i].Lines = clean
			return
		}
	}
	c.Records = append(c.Records, CFGRecord{Section: section, Lines: clean})
}

// Encode renders the config file. Output is deterministic: a fixed generator
// header comment, then each section in insertion order.
func (c *CFG) Encode() []byte {
	var b strings.Builder
	b.WriteString(";Generated by hwforge mapgen\n")
	for _, rec := range c.Records {
		fmt.Fprintf(&b, "[%s]\n", rec.Section)
		for _, line := range rec.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
