package matrix

import (
	"testing"
)

func TestRGB_Hex(t *testing.T) {
	if got := (RGB{R: 255, G: 128, B: 0}).Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q, want #ff8000", got)
	}
}

func TestRotatePoint(t *testing.T) {
	tests := []struct {
		degrees int
		wantX   int
		wantY   int
	}{
		{0, 1, 0},
		{90, 7, 1},
		{180, 6, 7},
		{270, 0, 6},
	}
	for _, tt := range tests {
		x, y := RotatePoint(1, 0, tt.degrees)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("RotatePoint(1, 0, %d) = (%d,%d), want (%d,%d)", tt.degrees, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestRotate_FullTurn(t *testing.T) {
	var g Grid
	g[0][1] = Red
	g[5][2] = Blue

	r := g
	for range 4 {
		r = Rotate(r, 90)
	}
	if r != g {
		t.Error("four quarter turns should restore the grid")
	}
	if Rotate(g, 180) != Rotate(Rotate(g, 90), 90) {
		t.Error("180 should equal two quarter turns")
	}
}

func TestDevice_SetPixelAndClear(t *testing.T) {
	mem := &Memory{}
	d := NewDevice(mem)

	if err := d.SetPixel(2, 3, Green); err != nil {
		t.Fatalf("SetPixel failed: %v", err)
	}
	if mem.Grid()[3][2] != Green {
		t.Error("pixel not flushed to panel")
	}

	if err := d.SetPixel(8, 0, Green); err == nil {
		t.Error("out of range pixel should fail")
	}

	if err := d.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if mem.Grid().Lit() != 0 {
		t.Error("Clear should turn every pixel off")
	}
}

func TestDevice_Rotation(t *testing.T) {
	mem := &Memory{}
	d := NewDevice(mem)

	if err := d.SetPixel(0, 0, Red); err != nil {
		t.Fatal(err)
	}
	if err := d.SetRotation(90); err != nil {
		t.Fatalf("SetRotation failed: %v", err)
	}
	if mem.Grid()[0][7] != Red {
		t.Error("rotation should redraw the existing picture")
	}
	if d.Logical()[0][0] != Red {
		t.Error("logical picture should be unchanged by rotation")
	}

	if err := d.SetRotation(45); err == nil {
		t.Error("invalid rotation should fail")
	}
}

func TestDevice_LowLight(t *testing.T) {
	mem := &Memory{}
	d := NewDevice(mem)

	if err := d.SetLowLight(true); err != nil {
		t.Fatal(err)
	}
	if !mem.LowLight() {
		t.Error("low light not passed to panel")
	}
	before := mem.Flushes()
	if err := d.SetLowLight(true); err != nil {
		t.Fatal(err)
	}
	if mem.Flushes() != before {
		t.Error("unchanged low light should not flush")
	}
}
