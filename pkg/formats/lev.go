// Package formats reads and writes Hostile Waters engine level file formats.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// LEV format errors.
var (
	ErrTruncatedLEVData = errors.New("truncated LEV data")
	ErrInvalidLEVHeader = errors.New("invalid LEV header")
)

const (
	levHeaderSize       = 48
	levTerrainPointSize = 16
	levColorSize        = 12

	// levFourCC tags level files produced by this generator and the stock
	// "large" template alike.
	levFourCC uint32 = 0x3156454C // "LEV1"
)

// LEVHeader is the fixed 48-byte header of a .lev file. All offsets are
// absolute byte positions and are recomputed on encode.
type LEVHeader struct {
	FourCC               uint32
	TerrainPointOffset   uint32
	Width                uint32
	Length               uint32
	HighestPoint         float32
	LowestPoint          float32
	ObjectListOffset     uint32
	ModelListOffset      uint32
	ExtraModelListOffset uint32
	LandPaletteOffset    uint32
	LevelConfigOffset    uint32
	EndOfLastBit         uint32
}

// TerrainPoint is one cell of the level heightmap. The field order matches
// the engine's 16-byte on-disk record exactly.
type TerrainPoint struct {
	Height        float32
	Normal        uint16
	Flags         uint16
	PaletteIndex  uint8
	FlowDirection uint8
	StrataIndex   uint8
	Mat           uint8
	TextureDir    uint8
	UOff          uint8
	VOff          uint8
	AINodeType    uint8
}

// TerrainPointFlagDraw marks a point as renderable; every generated point
// carries it so no holes appear in the map.
const TerrainPointFlagDraw uint16 = 1

// Color is an RGB palette entry stored as three floats.
type Color struct {
	R, G, B float32
}

// LEV is a parsed level geometry file.
type LEV struct {
	Header        LEVHeader
	TerrainPoints []TerrainPoint
	ObjectData    []byte
	ModelData     []byte
	Palette       []Color
	ConfigData    []byte
}

// NewLEV creates an empty level of the given grid dimensions with all
// terrain points zeroed at sea level.
func NewLEV(width, length int) *LEV {
	return &LEV{
		Header: LEVHeader{
			FourCC:             levFourCC,
			TerrainPointOffset: levHeaderSize,
			Width:              uint32(width),
			Length:             uint32(length),
		},
		TerrainPoints: make([]TerrainPoint, width*length),
	}
}

// Point returns the terrain point at (x, z). Coordinates outside the grid are
// a caller logic defect and panic.
func (l *LEV) Point(x, z int) *TerrainPoint {
	w, h := int(l.Header.Width), int(l.Header.Length)
	if x < 0 || z < 0 || x >= w || z >= h {
		panic(fmt.Sprintf("terrain point (%d,%d) outside %dx%d grid", x, z, w, h))
	}
	return &l.TerrainPoints[x*h+z]
}

// ParseLEV parses a .lev file from raw bytes.
func ParseLEV(data []byte) (*LEV, error) {
	if len(data) < levHeaderSize {
		return nil, ErrTruncatedLEVData
	}

	var h LEVHeader
	if err := binary.Read(bytes.NewReader(data[:levHeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedLEVData)
	}
	if h.FourCC != levFourCC {
		return nil, fmt.Errorf("%w: bad four-cc %#x", ErrInvalidLEVHeader, h.FourCC)
	}
	if int(h.EndOfLastBit) > len(data) ||
		h.ObjectListOffset < levHeaderSize ||
		h.ObjectListOffset > h.ModelListOffset ||
		h.LandPaletteOffset > h.LevelConfigOffset ||
		h.LevelConfigOffset > h.EndOfLastBit {
		return nil, fmt.Errorf("%w: inconsistent section offsets", ErrInvalidLEVHeader)
	}

	lev := &LEV{Header: h}

	terrainData := data[levHeaderSize:h.ObjectListOffset]
	if len(terrainData)%levTerrainPointSize != 0 {
		return nil, fmt.Errorf("%w: terrain section not a multiple of %d bytes",
			ErrTruncatedLEVData, levTerrainPointSize)
	}
	count := len(terrainData) / levTerrainPointSize
	lev.TerrainPoints = make([]TerrainPoint, count)
	if err := binary.Read(bytes.NewReader(terrainData), binary.LittleEndian, &lev.TerrainPoints); err != nil {
		return nil, fmt.Errorf("%w: reading terrain points", ErrTruncatedLEVData)
	}

	lev.ObjectData = append([]byte(nil), data[h.ObjectListOffset:h.ModelListOffset]...)

	if h.ModelListOffset != 0 && h.LandPaletteOffset != 0 {
		lev.ModelData = append([]byte(nil), data[h.ModelListOffset:h.LandPaletteOffset]...)
	}

	if h.LandPaletteOffset != 0 && h.LevelConfigOffset != 0 {
		paletteData := data[h.LandPaletteOffset:h.LevelConfigOffset]
		lev.Palette = make([]Color, len(paletteData)/levColorSize)
		if err := binary.Read(bytes.NewReader(paletteData), binary.LittleEndian, &lev.Palette); err != nil {
			return nil, fmt.Errorf("%w: reading palette", ErrTruncatedLEVData)
		}
	}

	lev.ConfigData = append([]byte(nil), data[h.LevelConfigOffset:h.EndOfLastBit]...)
	return lev, nil
}

// ParseLEVFile parses a .lev file from disk.
func ParseLEVFile(path string) (*LEV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading LEV file: %w", err)
	}
	return ParseLEV(data)
}

// Encode serializes the level, recomputing every section offset from the
// current section sizes.
func (l *LEV) Encode() []byte {
	h := &l.Header
	offset := uint32(levHeaderSize)
	h.TerrainPointOffset = offset

	offset += uint32(levTerrainPointSize * len(l.TerrainPoints))
	h.ObjectListOffset = offset

	offset += uint32(len(l.ObjectData))
	h.ModelListOffset = offset

	offset += uint32(len(l.ModelData))
	h.LandPaletteOffset = offset

	offset += uint32(levColorSize * len(l.Palette))
	h.LevelConfigOffset = offset

	offset += uint32(len(l.ConfigData))
	h.EndOfLastBit = offset

	buf := new(bytes.Buffer)
	buf.Grow(int(offset))
	binary.Write(buf, binary.LittleEndian, h)
	binary.Write(buf, binary.LittleEndian, l.TerrainPoints)
	buf.Write(l.ObjectData)
	buf.Write(l.ModelData)
	binary.Write(buf, binary.LittleEndian, l.Palette)
	buf.Write(l.ConfigData)
	return buf.Bytes()
}
