package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// OB3 format errors.
var (
	ErrInvalidOB3Magic  = errors.New("invalid OB3 magic: expected 'OBJC'")
	ErrTruncatedOB3Data = errors.New("truncated OB3 data")
)

// MapScaler converts grid coordinates to engine world units. The value comes
// from comparing stock .lev and .ob3 files.
const MapScaler = 51.2

const (
	ob3Magic      = "OBJC"
	ob3RecordSize = 148 // size field + fixed section + 8 pad bytes
)

// Default flags observed on every object in stock levels.
const (
	ob3DefaultShadowFlags = 139
	ob3DefaultPermanent   = 1
)

// OB3Object is one placed object. Location is kept in grid units; the
// grid-to-world conversion (x10, axis swap, MapScaler) happens on encode.
type OB3Object struct {
	ObjectType     string
	AttachmentType string
	Rotation       [9]float32 // row-major 3x3
	X, Y, Z        float64    // grid units
	Normal         float32
	RenderableID   uint32
	ControllableID uint32
	ShadowFlags    uint32
	PermanentFlag  uint32
	Team           uint32
	ID             int
}

// SetYRotation sets the rotation matrix to a rotation of deg degrees about
// the Y axis.
func (o *OB3Object) SetYRotation(deg float64) {
	if deg == 0 {
		o.Rotation = identityRotation()
		return
	}
	c := float32(math.Cos(deg * math.Pi / 180))
	s := float32(math.Sin(deg * math.Pi / 180))
	o.Rotation = [9]float32{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}
}

func identityRotation() [9]float32 {
	return [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// OB3 is a parsed object list file.
type OB3 struct {
	Objects []OB3Object
}

// NewOB3 returns an empty object list.
func NewOB3() *OB3 {
	return &OB3{}
}

// Add places a new object and returns its 1-based object id, which is what
// ARS scripts reference.
func (o *OB3) Add(objectType, attachmentType string, x, y, z float64, team uint32, yRotation float64) int {
	obj := OB3Object{
		ObjectType:     objectType,
		AttachmentType: attachmentType,
		X:              x,
		Y:              y,
		Z:              z,
		Normal:         1,
		ShadowFlags:    ob3DefaultShadowFlags,
		PermanentFlag:  ob3DefaultPermanent,
		Team:           team,
		ID:             len(o.Objects) + 1,
	}
	if team == 0 {
		obj.ControllableID = 1
	}
	obj.RenderableID = uint32(obj.ID)
	obj.SetYRotation(yRotation)
	o.Objects = append(o.Objects, obj)
	return obj.ID
}

// ParseOB3 parses an .ob3 file from raw bytes.
func ParseOB3(data []byte) (*OB3, error) {
	if len(data) < 8 {
		return nil, ErrTruncatedOB3Data
	}
	if string(data[0:4]) != ob3Magic {
		return nil, ErrInvalidOB3Magic
	}
	count := binary.LittleEndian.Uint32(data[4:8])

	out := &OB3{Objects: make([]OB3Object, 0, count)}
	r := bytes.NewReader(data[8:])
	for i := 0; i < int(count); i++ {
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: object %d size", ErrTruncatedOB3Data, i)
		}
		if size < ob3RecordSize {
			return nil, fmt.Errorf("%w: object %d record too small", ErrTruncatedOB3Data, i)
		}
		body := make([]byte, size-4)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("%w: object %d body", ErrTruncatedOB3Data, i)
		}
		obj, err := parseOB3Object(body, i+1)
		if err != nil {
			return nil, fmt.Errorf("parsing object %d: %w", i, err)
		}
		out.Objects = append(out.Objects, obj)
	}
	return out, nil
}

// ParseOB3File parses an .ob3 file from disk.
func ParseOB3File(path string) (*OB3, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OB3 file: %w", err)
	}
	return ParseOB3(data)
}

func parseOB3Object(body []byte, id int) (OB3Object, error) {
	r := bytes.NewReader(body)
	var raw struct {
		ObjectType     [32]byte
		AttachmentType [32]byte
		Floats         [12]float32 // 9 rotation + 3 location (world units)
		Normal         float32
		RenderableID   uint32
		ControllableID uint32
		ShadowFlags    uint32
		PermanentFlag  uint32
		Team           uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return OB3Object{}, ErrTruncatedOB3Data
	}
	obj := OB3Object{
		ObjectType:     cString(raw.ObjectType[:]),
		AttachmentType: cString(raw.AttachmentType[:]),
		Normal:         raw.Normal,
		RenderableID:   raw.RenderableID,
		ControllableID: raw.ControllableID,
		ShadowFlags:    raw.ShadowFlags,
		PermanentFlag:  raw.PermanentFlag,
		Team:           raw.Team,
		ID:             id,
	}
	copy(obj.Rotation[:], raw.Floats[:9])
	// World units back to grid units: undo MapScaler, x10 and axis swap.
	obj.X = float64(raw.Floats[11]) / MapScaler / 10
	obj.Y = float64(raw.Floats[10]) / MapScaler
	obj.Z = float64(raw.Floats[9]) / MapScaler / 10
	if obj.RenderableID == 0 {
		obj.RenderableID = uint32(id)
	}
	return obj, nil
}

// Encode serializes the object list.
func (o *OB3) Encode() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(8 + ob3RecordSize*len(o.Objects))
	buf.WriteString(ob3Magic)
	binary.Write(buf, binary.LittleEndian, uint32(len(o.Objects)))

	for _, obj := range o.Objects {
		binary.Write(buf, binary.LittleEndian, uint32(ob3RecordSize))
		buf.Write(fixedString(obj.ObjectType, 32))
		buf.Write(fixedString(obj.AttachmentType, 32))
		binary.Write(buf, binary.LittleEndian, obj.Rotation)
		// Grid to world: OB3 swaps x/z and scales the ground plane by 10.
		binary.Write(buf, binary.LittleEndian, float32(obj.Z*10*MapScaler))
		binary.Write(buf, binary.LittleEndian, float32(obj.Y*MapScaler))
		binary.Write(buf, binary.LittleEndian, float32(obj.X*10*MapScaler))
		binary.Write(buf, binary.LittleEndian, obj.Normal)
		binary.Write(buf, binary.LittleEndian, obj.RenderableID)
		binary.Write(buf, binary.LittleEndian, obj.ControllableID)
		binary.Write(buf, binary.LittleEndian, obj.ShadowFlags)
		binary.Write(buf, binary.LittleEndian, obj.PermanentFlag)
		binary.Write(buf, binary.LittleEndian, obj.Team)
		buf.Write(make([]byte, 8)) // addon section unused
	}
	return buf.Bytes()
}

func cString(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

func fixedString(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}
