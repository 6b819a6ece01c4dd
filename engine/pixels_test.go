package engine

import (
	"image/color"
	"testing"
)

func TestPixelBufferSetAndRead(t *testing.T) {
	b := NewPixelBuffer(4, 3)
	if len(b.Pix()) != 4*3*3 {
		t.Fatalf("len(Pix()) = %d", len(b.Pix()))
	}

	b.Set(2, 1, RGB{10, 20, 30})
	b.Set(-1, 0, RGB{255, 255, 255})
	b.Set(4, 0, RGB{255, 255, 255})

	if got := b.RGBAt(2, 1); got != (RGB{10, 20, 30}) {
		t.Errorf("RGBAt(2,1) = %v", got)
	}
	if got := b.Pix()[(1*4+2)*3]; got != 10 {
		t.Errorf("raw red byte = %d, want 10", got)
	}
	if got := b.RGBAt(9, 9); got != (RGB{}) {
		t.Errorf("RGBAt out of range = %v, want zero", got)
	}
	for i, v := range b.Pix() {
		if v == 255 {
			t.Fatalf("out of range Set wrote byte %d", i)
		}
	}
}

func TestPixelBufferRGBA(t *testing.T) {
	b := NewPixelBuffer(2, 2)
	b.Fill(RGB{1, 2, 3})
	b.Set(1, 1, RGB{7, 8, 9})

	out := b.RGBA(nil)
	if len(out) != 16 {
		t.Fatalf("len = %d, want 16", len(out))
	}
	if out[0] != 1 || out[1] != 2 || out[2] != 3 || out[3] != 0xff {
		t.Errorf("first pixel = %v", out[:4])
	}
	if out[12] != 7 || out[15] != 0xff {
		t.Errorf("last pixel = %v", out[12:])
	}

	reused := b.RGBA(out)
	if &reused[0] != &out[0] {
		t.Error("RGBA did not reuse a large enough destination")
	}
}

func TestPixelBufferImage(t *testing.T) {
	b := NewPixelBuffer(3, 2)
	b.Set(0, 1, RGB{200, 100, 50})

	if r := b.Bounds(); r.Dx() != 3 || r.Dy() != 2 {
		t.Errorf("Bounds() = %v", r)
	}
	want := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}
	if got := b.At(0, 1); got != want {
		t.Errorf("At(0,1) = %v, want %v", got, want)
	}
}
