package formats

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PAT format errors.
var ErrUnknownPatrolRoute = errors.New("unknown patrol route")

// PatrolPoint is one waypoint in engine world units.
type PatrolPoint struct {
	X, Y, Z float64
}

// PatrolRoute is a named sequence of waypoints.
type PatrolRoute struct {
	Title  string
	Points []PatrolPoint
}

// PAT is a parsed patrol route file.
type PAT struct {
	Routes []PatrolRoute
}

// NewPAT returns an empty patrol file.
func NewPAT() *PAT {
	return &PAT{}
}

// AddRoute adds (or replaces) a route. Waypoints are given in grid units and
// converted to world units here, mirroring the grid-to-OB3 scaling.
func (p *PAT) AddRoute(title string, gridPoints [][3]float64) {
	route := PatrolRoute{Title: title, Points: make([]PatrolPoint, 0, len(gridPoints))}
	for _, gp := range gridPoints {
		route.Points = append(route.Points, PatrolPoint{
			X: gp[0] * 10 * MapScaler,
			Y: gp[1] * MapScaler,
			Z: gp[2] * 10 * MapScaler,
		})
	}
	for i := range p.Routes {
		if p.Routes[i].Title == title {
			p.Routes[i] = route
			return
		}
	}
	p.Routes = append(p.Routes, route)
}

// Route returns the route with the given title.
func (p *PAT) Route(title string) (*PatrolRoute, error) {
	for i := range p.Routes {
		if p.Routes[i].Title == title {
			return &p.Routes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPatrolRoute, title)
}

// ParsePAT parses a .pat file from raw bytes.
func ParsePAT(data []byte) (*PAT, error) {
	p := &PAT{}
	var current *PatrolRoute
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			p.Routes = append(p.Routes, PatrolRoute{Title: strings.Trim(line, "[]")})
			current = &p.Routes[len(p.Routes)-1]
			continue
		}
		if current == nil || !strings.Contains(line, ",") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			continue
		}
		var coords [3]float64
		ok := true
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				ok = false
				break
			}
			coords[i] = v
		}
		if ok {
			current.Points = append(current.Points, PatrolPoint{coords[0], coords[1], coords[2]})
		}
	}
	return p, nil
}

// ParsePATFile parses a .pat file from disk.
func ParsePATFile(path string) (*PAT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PAT file: %w", err)
	}
	return ParsePAT(data)
}

// Encode renders the patrol file.
func (p *PAT) Encode() []byte {
	var b strings.Builder
	for _, route := range p.Routes {
		fmt.Fprintf(&b, "[%s]\n", route.Title)
		for _, pt := range route.Points {
			fmt.Fprintf(&b, "%.4f, %.4f, %.4f\n", pt.X, pt.Y, pt.Z)
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
