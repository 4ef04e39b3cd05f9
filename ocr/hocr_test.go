package ocr

import (
	"errors"
	"testing"

	"github.com/tsawler/pageview/model"
	"golang.org/x/text/encoding/charmap"
)

const wordLevelHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><meta http-equiv="Content-Type" content="text/html;charset=utf-8"/></head>
<body>
<div class='ocr_page' id='page_1' title='image "scan.png"; bbox 0 0 600 800; ppageno 0'>
 <div class='ocr_carea' id='block_1_1' title="bbox 10 10 300 60">
  <p class='ocr_par' id='par_1_1' title="bbox 10 10 300 60">
   <span class='ocr_line' id='line_1_1' title="bbox 10 10 300 30; baseline 0 -5">
    <span class='ocrx_word' id='word_1_1' title='bbox 10 10 50 30; x_wconf 95'>Hello</span>
    <span class='ocrx_word' id='word_1_2' title='bbox 60 10 110 30; x_wconf 93'>world</span>
   </span>
   <span class='ocr_line' id='line_1_2' title="bbox 10 40 100 60">
    <span class='ocrx_word' id='word_1_3' title='bbox 10 40 40 60; x_wconf 90'>abc</span>
   </span>
  </p>
 </div>
 <div class='ocr_carea' id='block_1_2' title="bbox 10 100 300 130">
  <p class='ocr_par' id='par_1_2'>
   <span class='ocr_header' id='line_1_3' title="bbox 10 100 60 130">
    <span class='ocrx_word' id='word_1_4' title='bbox 10 100 60 130'>Title</span>
   </span>
  </p>
 </div>
</div>
</body>
</html>`

const charLevelHOCR = `<html><body>
<div class='ocr_page' title='bbox 0 0 100 100'>
 <p class='ocr_par'>
  <span class='ocr_line' title='bbox 0 0 40 10'>
   <span class='ocrx_word' title='bbox 0 0 40 10'>
    <span class='ocrx_cinfo' title='x_bboxes 0 0 8 10; x_conf 99'>O</span>
    <span class='ocrx_cinfo' title='x_bboxes 9 0 20 10; x_conf 98'>K</span>
   </span>
  </span>
 </p>
</div>
</body></html>`

func TestParseHOCR_Structure(t *testing.T) {
	page, err := ParseHOCR([]byte(wordLevelHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR() failed: %v", err)
	}

	if len(page.Blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(page.Blocks))
	}
	if len(page.Blocks[0].Lines) != 2 {
		t.Errorf("Expected 2 lines in first block, got %d", len(page.Blocks[0].Lines))
	}
	if len(page.Blocks[1].Lines) != 1 {
		t.Errorf("Expected header line in second block, got %d lines", len(page.Blocks[1].Lines))
	}

	// Hello, gap, world
	first := page.Blocks[0].Lines[0]
	if len(first.Spans) != 3 {
		t.Fatalf("Expected 3 spans (word, space, word), got %d", len(first.Spans))
	}
	gap := first.Spans[1].Chars
	if len(gap) != 1 || gap[0].Rune != ' ' {
		t.Fatalf("Expected a single space span, got %+v", gap)
	}
	if gap[0].BBox != (model.Rect{X0: 50, Y0: 10, X1: 60, Y1: 30}) {
		t.Errorf("gap box = %+v, want {50 10 60 30}", gap[0].BBox)
	}
}

func TestParseHOCR_SplitsWordBoxes(t *testing.T) {
	page, err := ParseHOCR([]byte(wordLevelHOCR))
	if err != nil {
		t.Fatal(err)
	}

	hello := page.Blocks[0].Lines[0].Spans[0].Chars
	if len(hello) != 5 {
		t.Fatalf("Expected 5 chars, got %d", len(hello))
	}
	if hello[0].Rune != 'H' || hello[0].BBox != (model.Rect{X0: 10, Y0: 10, X1: 18, Y1: 30}) {
		t.Errorf("first char = %+v", hello[0])
	}
	if hello[4].BBox.X1 != 50 {
		t.Errorf("last char should end at word edge, got %v", hello[4].BBox.X1)
	}
}

func TestParseHOCR_CharacterBoxes(t *testing.T) {
	page, err := ParseHOCR([]byte(charLevelHOCR))
	if err != nil {
		t.Fatal(err)
	}

	chars := page.Blocks[0].Lines[0].Spans[0].Chars
	if len(chars) != 2 {
		t.Fatalf("Expected 2 chars, got %d", len(chars))
	}
	if chars[1].Rune != 'K' || chars[1].BBox != (model.Rect{X0: 9, Y0: 0, X1: 20, Y1: 10}) {
		t.Errorf("second char = %+v", chars[1])
	}
}

func TestParseHOCR_Latin1(t *testing.T) {
	data := []byte("<html><head><meta charset=iso-8859-1></head><body>" +
		"<span class='ocr_line' title='bbox 0 0 10 10'>" +
		"<span class='ocrx_word' title='bbox 0 0 10 10'>caf\xe9</span></span></body></html>")

	page, err := ParseHOCR(data)
	if err != nil {
		t.Fatal(err)
	}
	chars := page.Blocks[0].Lines[0].Spans[0].Chars
	if len(chars) != 4 || chars[3].Rune != 'é' {
		t.Errorf("Expected café, got %+v", chars)
	}
}

func TestParseHOCR_Charsets(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		enc     *charmap.Charmap
		word    string
		wantErr error
	}{
		{"windows-1252", "windows-1252", charmap.Windows1252, "\u20ac5", nil},
		{"latin-2", "iso-8859-2", charmap.ISO8859_2, "\u0141\u00f3d\u017a", nil},
		{"cp1251", "windows-1251", charmap.Windows1251, "\u041c\u0438\u0440", nil},
		{"unknown", "x-made-up", nil, "word", ErrUnknownCharset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := []byte(tt.word)
			if tt.enc != nil {
				var err error
				word, err = tt.enc.NewEncoder().Bytes(word)
				if err != nil {
					t.Fatalf("failed to encode %q: %v", tt.word, err)
				}
			}
			data := []byte("<html><head><meta charset=" + tt.label + "></head><body>" +
				"<span class='ocr_line' title='bbox 0 0 40 10'>" +
				"<span class='ocrx_word' title='bbox 0 0 40 10'>" + string(word) + "</span></span></body></html>")

			page, err := ParseHOCR(data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var got []rune
			for _, c := range page.Blocks[0].Lines[0].Spans[0].Chars {
				got = append(got, c.Rune)
			}
			if string(got) != tt.word {
				t.Errorf("Expected %q, got %q", tt.word, string(got))
			}
		})
	}
}

func TestParseHOCR_Empty(t *testing.T) {
	page, err := ParseHOCR([]byte("<html><body><div class='ocr_page'></div></body></html>"))
	if !errors.Is(err, ErrNoText) {
		t.Errorf("Expected ErrNoText, got %v", err)
	}
	if page == nil || !page.IsEmpty() {
		t.Error("Expected an empty page")
	}
}

func TestParseTitle(t *testing.T) {
	props := parseTitle("bbox 100 200 300 400; x_wconf 95")

	if got := props["bbox"]; len(got) != 4 || got[0] != "100" || got[3] != "400" {
		t.Errorf("bbox = %v", got)
	}
	if got := props["x_wconf"]; len(got) != 1 || got[0] != "95" {
		t.Errorf("x_wconf = %v", got)
	}
}

func TestDeclaredCharset(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`<meta content="text/html;charset=utf-8"/>`, "utf-8"},
		{`<meta charset='ISO-8859-1'>`, "iso-8859-1"},
		{`<meta charset=ISO-8859-1>`, "iso-8859-1"},
		{`<html></html>`, ""},
	}

	for _, tt := range tests {
		if got := declaredCharset([]byte(tt.in)); got != tt.want {
			t.Errorf("declaredCharset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
