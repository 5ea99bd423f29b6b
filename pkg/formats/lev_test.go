package formats

import (
	"bytes"
	"testing"
)

func TestLEVRoundTrip(t *testing.T) {
	lev := NewLEV(4, 4)
	pt := lev.Point(1, 2)
	pt.Height = 123.5
	pt.Flags = TerrainPointFlagDraw
	pt.Mat = 3
	pt.TextureDir = 2
	lev.Header.HighestPoint = 123.5
	lev.Header.LowestPoint = -40
	lev.Palette = []Color{{R: 0.1, G: 0.2, B: 0.3}, {R: 1, G: 1, B: 1}}
	lev.ConfigData = []byte("config")

	parsed, err := ParseLEV(lev.Encode())
	if err != nil {
		t.Fatalf("ParseLEV failed: %v", err)
	}

	if parsed.Header.Width != 4 || parsed.Header.Length != 4 {
		t.Errorf("expected 4x4 grid, got %dx%d", parsed.Header.Width, parsed.Header.Length)
	}
	got := parsed.Point(1, 2)
	if got.Height != 123.5 {
		t.Errorf("expected height 123.5, got %v", got.Height)
	}
	if got.Flags != TerrainPointFlagDraw {
		t.Errorf("expected draw flag, got %#x", got.Flags)
	}
	if got.Mat != 3 || got.TextureDir != 2 {
		t.Errorf("expected mat 3 dir 2, got mat %d dir %d", got.Mat, got.TextureDir)
	}
	if len(parsed.Palette) != 2 || parsed.Palette[1].R != 1 {
		t.Errorf("palette mismatch: %+v", parsed.Palette)
	}
	if string(parsed.ConfigData) != "config" {
		t.Errorf("expected config data preserved, got %q", parsed.ConfigData)
	}
}

func TestLEVEncodeIsStable(t *testing.T) {
	lev := NewLEV(2, 3)
	lev.Point(0, 1).Height = 5

	first := lev.Encode()
	second := lev.Encode()
	if !bytes.Equal(first, second) {
		t.Error("encoding the same level twice produced different bytes")
	}
}

func TestParseLEV_BadFourCC(t *testing.T) {
	data := NewLEV(2, 2).Encode()
	data[0] = 'X'

	if _, err := ParseLEV(data); err == nil {
		t.Fatal("expected error for bad four-cc")
	}
}

func TestParseLEV_Truncated(t *testing.T) {
	data := NewLEV(2, 2).Encode()

	if _, err := ParseLEV(data[:20]); err == nil {
		t.Fatal("expected error for truncated data")
	}
}

func TestLEVPointPanicsOutOfGrid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-grid access")
		}
	}()
	NewLEV(2, 2).Point(2, 0)
}
