package formats

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ARS format errors.
var (
	ErrInvalidARSTrigger = errors.New("invalid ARS trigger")
	ErrUnknownARSRecord  = errors.New("unknown ARS record")
)

const arsHeader = "AIRS"

var arsTriggerHeaderPattern = regexp.MustCompile(
	`"([^"]+)" *: *(AIS_[A-Z]+) *:? *(\d+)? *:? *([^{\s]+)`)

// ARSCondition is one condition inside a trigger record.
type ARSCondition struct {
	Type   string
	Values []string
}

// ARSAction is one action inside a trigger record.
type ARSAction struct {
	Type   string
	Values []string
}

// ARSRecord is a single script trigger.
type ARSRecord struct {
	Name       string
	PlayerType string
	PlayerID   int
	IsAnd      bool
	Conditions []ARSCondition
	Actions    []ARSAction
}

// ARS is a parsed mission script file.
type ARS struct {
	Records []*ARSRecord
}

// NewARS returns an empty script container.
func NewARS() *ARS {
	return &ARS{}
}

// ParseARS parses an .ars file from raw bytes.
func ParseARS(data []byte) (*ARS, error) {
	a := &ARS{}
	if err := a.Merge(data); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseARSFile parses an .ars file from disk.
func ParseARSFile(path string) (*ARS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ARS file: %w", err)
	}
	return ParseARS(data)
}

// Merge parses additional trigger data and appends its records, used for the
// mission-type and zone-specific script fragments.
func (a *ARS) Merge(data []byte) error {
	chunks := strings.Split(string(data), "Trigger: ")
	for _, chunk := range chunks[1:] {
		rec, err := parseARSTrigger(chunk)
		if err != nil {
			return err
		}
		a.Records = append(a.Records, rec)
	}
	return nil
}

func parseARSTrigger(chunk string) (*ARSRecord, error) {
	header, body, found := strings.Cut(chunk, "{")
	if !found {
		return nil, fmt.Errorf("%w: missing body", ErrInvalidARSTrigger)
	}
	m := arsTriggerHeaderPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("%w: bad header %q", ErrInvalidARSTrigger, strings.TrimSpace(header))
	}
	playerID := 0
	if m[3] != "" {
		playerID, _ = strconv.Atoi(m[3])
	}
	rec := &ARSRecord{
		Name:       m[1],
		PlayerType: m[2],
		PlayerID:   playerID,
		IsAnd:      m[4] == "BOOL_AND",
	}

	body = strings.ReplaceAll(body, "}", "")
	for _, part := range splitKeepDelims(body, "Condition:", "Action:") {
		lines := nonEmptyLines(part)
		if len(lines) == 0 {
			continue
		}
		kind, rest, _ := strings.Cut(lines[0], ":")
		switch strings.TrimSpace(kind) {
		case "Condition":
			rec.Conditions = append(rec.Conditions, ARSCondition{
				Type:   strings.TrimSpace(rest),
				Values: lines[1:],
			})
		case "Action":
			rec.Actions = append(rec.Actions, ARSAction{
				Type:   strings.TrimSpace(rest),
				Values: lines[1:],
			})
		}
	}
	return rec, nil
}

// splitKeepDelims splits s before each occurrence of any delimiter, keeping
// the delimiter with the following chunk.
func splitKeepDelims(s string, delims ...string) []string {
	var marks []int
	for _, d := range delims {
		for i := 0; ; {
			j := strings.Index(s[i:], d)
			if j < 0 {
				break
			}
			marks = append(marks, i+j)
			i += j + len(d)
		}
	}
	if len(marks) == 0 {
		return []string{s}
	}
	// insertion sort keeps this dependency-free for tiny inputs
	for i := 1; i < len(marks); i++ {
		for j := i; j > 0 && marks[j] < marks[j-1]; j-- {
			marks[j], marks[j-1] = marks[j-1], marks[j]
		}
	}
	out := make([]string, 0, len(marks)+1)
	prev := 0
	for _, m := range marks {
		if m > prev {
			out = append(out, s[prev:m])
		}
		prev = m
	}
	out = append(out, s[prev:])
	return out
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Record returns the trigger with the given name.
func (a *ARS) Record(name string) (*ARSRecord, error) {
	for _, rec := range a.Records {
		if rec.Name == name {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownARSRecord, name)
}

// AddAction appends an action to the named trigger.
func (a *ARS) AddAction(recordName, actionType string, values ...string) error {
	rec, err := a.Record(recordName)
	if err != nil {
		return err
	}
	rec.Actions = append(rec.Actions, ARSAction{Type: actionType, Values: values})
	return nil
}

// Actions returns the (type, values) pairs of the named trigger's actions.
func (a *ARS) Actions(recordName string) []ARSAction {
	rec, err := a.Record(recordName)
	if err != nil {
		return nil
	}
	return rec.Actions
}

// Encode renders the script file with its AIRS header.
func (a *ARS) Encode() []byte {
	var b strings.Builder
	b.WriteString(arsHeader + "\n")
	for _, rec := range a.Records {
		header := rec.PlayerType
		if rec.PlayerType == "AIS_SPECIFICPLAYER" {
			header = fmt.Sprintf("%s : %d", rec.PlayerType, rec.PlayerID)
		}
		boolType := "BOOL_OR"
		if rec.IsAnd {
			boolType = "BOOL_AND"
		}
		fmt.Fprintf(&b, "Trigger: %q : %s : %s\n{\n", rec.Name, header, boolType)
		for _, c := range rec.Conditions {
			fmt.Fprintf(&b, "Condition: %s\n", c.Type)
			for _, v := range c.Values {
				fmt.Fprintf(&b, "  %s\n", v)
			}
		}
		for _, act := range rec.Actions {
			fmt.Fprintf(&b, "Action: %s\n", act.Type)
			for _, v := range act.Values {
				fmt.Fprintf(&b, "  %s\n", v)
			}
		}
		b.WriteString("}\n\n")
	}
	return []byte(b.String())
}
