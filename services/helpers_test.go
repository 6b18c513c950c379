package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

var refDate = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

// pngBytes encodes a solid image of the given size.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 144, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// mowLawnQuote is the single-item quote used across document tests.
func mowLawnQuote() Quote {
	q := NewQuote(TemplateGardenWork, refDate, "GBP")
	q.Customer = Customer{Name: "Jo Bloggs", Phone: "07700 900123", Email: "jo@example.com", Address: "1 High St"}
	q.Items = []LineItem{NewLineItem("Mow lawn", 2.0, 15.00)}
	q.TaxRate = 20
	return q
}

func testBusiness() BusinessInfo {
	return BusinessInfo{
		Name:    "Green Thumb Ltd",
		Phone:   "01234 567890",
		Email:   "hello@greenthumb.example",
		Address: "Unit 4, Mill Lane",
		Website: "greenthumb.example",
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
