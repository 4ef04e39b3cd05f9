package render

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// paintPage is a backend.Page whose Rasterize hook is supplied by the test.
type paintPage struct {
	boxes    map[model.Box]model.Rect
	bounds   model.Rect
	rotation int
	paint    func(req backend.RasterRequest, dst *backend.Raster) error
	lastReq  backend.RasterRequest
	calls    int
}

func (p *paintPage) Box(name model.Box) (model.Rect, bool) {
	r, ok := p.boxes[name]
	return r, ok
}
func (p *paintPage) Bounds() model.Rect { return p.bounds }
func (p *paintPage) Rotation() int      { return p.rotation }
func (p *paintPage) Rasterize(req backend.RasterRequest, dst *backend.Raster) error {
	p.calls++
	p.lastReq = req
	if p.paint != nil {
		return p.paint(req, dst)
	}
	return nil
}
func (p *paintPage) TextLayout() (*model.TextPage, error) { return &model.TextPage{}, nil }
func (p *paintPage) Close() error                         { return nil }

func letterPage() *paintPage {
	return &paintPage{bounds: model.Rect{X1: 612, Y1: 792}}
}

// ============================================================================
// Transform Tests
// ============================================================================

func TestCombineRotation(t *testing.T) {
	tests := []struct {
		page, quarters, want int
	}{
		{0, 0, 0},
		{0, 1, 270},
		{0, 2, 180},
		{0, 3, 90},
		{0, 4, 0},
		{90, 0, 90},
		{90, 1, 0},
		{270, -1, 0},
		{-90, 0, 270},
	}

	for _, tt := range tests {
		if got := CombineRotation(tt.page, tt.quarters); got != tt.want {
			t.Errorf("CombineRotation(%d, %d) = %d, want %d", tt.page, tt.quarters, got, tt.want)
		}
	}
}

func TestComputeTransform_NoRotation(t *testing.T) {
	box := model.Rect{X0: 10, Y0: 20, X1: 110, Y1: 220}
	tr := ComputeTransform(box, 0, 2000, 0)

	if tr.Zoom != 2 {
		t.Errorf("Expected zoom 2, got %v", tr.Zoom)
	}
	if tr.PageRect != (model.Rect{X0: 0, Y0: 0, X1: 200, Y1: 400}) {
		t.Errorf("PageRect = %+v, want {0 0 200 400}", tr.PageRect)
	}
	p := tr.Matrix.Transform(model.Point{X: 10, Y: 20})
	if p != (model.Point{}) {
		t.Errorf("box top-left maps to %+v, want origin", p)
	}
	w, h := tr.Size()
	if w != 200 || h != 400 {
		t.Errorf("Size() = %dx%d, want 200x400", w, h)
	}
}

func TestComputeTransform_Rotated(t *testing.T) {
	box := model.Rect{X1: 100, Y1: 200}

	tests := []struct {
		name         string
		pageRotation int
		quarters     int
		wantRotation int
		wantRect     model.Rect
	}{
		{"page 90", 90, 0, 90, model.Rect{X0: -200, Y0: 0, X1: 0, Y1: 100}},
		{"caller quarter", 0, 1, 270, model.Rect{X0: 0, Y0: -100, X1: 200, Y1: 0}},
		{"half turn", 0, 2, 180, model.Rect{X0: -100, Y0: -200, X1: 0, Y1: 0}},
		{"cancel out", 90, 1, 0, model.Rect{X0: 0, Y0: 0, X1: 100, Y1: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ComputeTransform(box, tt.pageRotation, 1000, tt.quarters)
			if tr.Rotation != tt.wantRotation {
				t.Errorf("Rotation = %d, want %d", tr.Rotation, tt.wantRotation)
			}
			if tr.PageRect != tt.wantRect {
				t.Errorf("PageRect = %+v, want %+v", tr.PageRect, tt.wantRect)
			}
		})
	}
}

func TestTileRect_AnchoredAtPageCorner(t *testing.T) {
	tr := ComputeTransform(model.Rect{X1: 100, Y1: 200}, 90, 1000, 0)

	got := tr.TileRect(10, 20, 50, 60)
	want := model.IRect{X0: -190, Y0: 20, X1: -140, Y1: 80}
	if got != want {
		t.Errorf("TileRect() = %+v, want %+v", got, want)
	}
}

func TestSelectBox(t *testing.T) {
	page := letterPage()
	page.boxes = map[model.Box]model.Rect{
		model.CropBox: {X0: 10, Y0: 10, X1: 600, Y1: 780},
		model.ArtBox:  {},
	}

	if got := SelectBox(page, model.CropBox); got != (model.Rect{X0: 10, Y0: 10, X1: 600, Y1: 780}) {
		t.Errorf("SelectBox(CropBox) = %+v", got)
	}
	if got := SelectBox(page, model.TrimBox); got != page.bounds {
		t.Errorf("SelectBox(missing) = %+v, want bounds", got)
	}
	if got := SelectBox(page, model.ArtBox); got != page.bounds {
		t.Errorf("SelectBox(empty) = %+v, want bounds", got)
	}
}

// ============================================================================
// Conversion Tests
// ============================================================================

func TestCompositeGray(t *testing.T) {
	tests := []struct {
		name             string
		luminance, alpha byte
		want             byte
	}{
		{"full ink", 0, 255, 0},
		{"no coverage dark", 0, 0, 255},
		{"no coverage light", 200, 0, 255},
		{"opaque mid gray", 128, 255, 128},
		{"half coverage", 0, 128, 127},
		{"opaque white", 255, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompositeGray(tt.luminance, tt.alpha); got != tt.want {
				t.Errorf("CompositeGray(%d, %d) = %d, want %d", tt.luminance, tt.alpha, got, tt.want)
			}
		})
	}
}

func TestBackground(t *testing.T) {
	if Background(model.Gray) != 0 {
		t.Error("Expected gray background 0")
	}
	if Background(model.Color) != 0xff {
		t.Error("Expected color background 0xff")
	}
}

// ============================================================================
// Pipeline Tests
// ============================================================================

func TestRender_GrayComposite(t *testing.T) {
	page := letterPage()
	page.paint = func(req backend.RasterRequest, dst *backend.Raster) error {
		for _, s := range dst.Samples {
			if s != 0 {
				t.Fatal("Expected gray raster cleared to 0 before painting")
			}
		}
		if dst.N != 2 {
			t.Fatalf("Expected 2 channels, got %d", dst.N)
		}
		dst.Samples[0], dst.Samples[1] = 0, 255
		return nil
	}

	p := NewPipeline(model.CropBox, nil)
	buf, err := p.Render(0, page, Request{ZoomPermille: 1000, Width: 4, Height: 3, Mode: model.Gray})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if buf.Format != FormatGray || buf.Width != 4 || buf.Height != 3 {
		t.Fatalf("Unexpected buffer %v %dx%d", buf.Format, buf.Width, buf.Height)
	}
	if buf.Pix[0] != 0 {
		t.Errorf("Expected inked pixel 0, got %d", buf.Pix[0])
	}
	for i, v := range buf.Pix[1:] {
		if v != 255 {
			t.Errorf("pixel %d = %d, want 255", i+1, v)
		}
	}
}

func TestRender_ColorVerbatim(t *testing.T) {
	page := letterPage()
	page.paint = func(req backend.RasterRequest, dst *backend.Raster) error {
		for _, s := range dst.Samples {
			if s != 0xff {
				t.Fatal("Expected color raster cleared to 0xff before painting")
			}
		}
		copy(dst.Samples, []byte{1, 2, 3, 4})
		return nil
	}

	p := NewPipeline(model.CropBox, nil)
	buf, err := p.Render(0, page, Request{ZoomPermille: 1000, Width: 2, Height: 2, Mode: model.Color, SkipImages: true})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if !bytes.Equal(buf.Pix[:4], []byte{1, 2, 3, 4}) {
		t.Errorf("Expected first pixel copied verbatim, got %v", buf.Pix[:4])
	}
	if len(buf.Pix) != 16 {
		t.Errorf("Expected 16 bytes, got %d", len(buf.Pix))
	}
	if !page.lastReq.SkipImages {
		t.Error("Expected SkipImages to reach the backend")
	}
}

func TestRender_PassesTransform(t *testing.T) {
	page := letterPage()
	page.boxes = map[model.Box]model.Rect{model.TrimBox: {X0: 50, Y0: 50, X1: 550, Y1: 750}}

	p := NewPipeline(model.TrimBox, nil)
	if _, err := p.Render(0, page, Request{ZoomPermille: 500, Width: 10, Height: 10}); err != nil {
		t.Fatal(err)
	}
	got := page.lastReq.Transform.Transform(model.Point{X: 50, Y: 50})
	if got != (model.Point{}) {
		t.Errorf("TrimBox corner maps to %+v, want origin", got)
	}
	got = page.lastReq.Transform.Transform(model.Point{X: 550, Y: 750})
	if got != (model.Point{X: 250, Y: 350}) {
		t.Errorf("TrimBox far corner maps to %+v, want {250 350}", got)
	}
}

func TestRender_ClippedByBackend(t *testing.T) {
	page := letterPage()
	page.paint = func(req backend.RasterRequest, dst *backend.Raster) error {
		dst.Clip(5, 2)
		return nil
	}

	p := NewPipeline(model.CropBox, nil)
	buf, err := p.Render(0, page, Request{ZoomPermille: 1000, Width: 8, Height: 8, Mode: model.Gray})
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 5 || buf.Height != 2 {
		t.Errorf("Expected actual size 5x2, got %dx%d", buf.Width, buf.Height)
	}
}

func TestRender_Errors(t *testing.T) {
	boom := errors.New("rasterizer exploded")

	tests := []struct {
		name    string
		req     Request
		paint   func(backend.RasterRequest, *backend.Raster) error
		wantErr error
		calls   int
	}{
		{"zero zoom", Request{Width: 1, Height: 1}, nil, model.ErrInvalidRequest, 0},
		{"negative width", Request{ZoomPermille: 1000, Width: -1, Height: 1}, nil, model.ErrInvalidRequest, 0},
		{"rasterizer failure", Request{ZoomPermille: 1000, Width: 1, Height: 1},
			func(backend.RasterRequest, *backend.Raster) error { return boom }, boom, 1},
		{"wrong channel count", Request{ZoomPermille: 1000, Width: 1, Height: 1, Mode: model.Gray},
			func(_ backend.RasterRequest, dst *backend.Raster) error { dst.N = 4; return nil }, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := letterPage()
			page.paint = tt.paint
			buf, err := NewPipeline(model.CropBox, nil).Render(3, page, tt.req)
			if buf != nil {
				t.Error("Expected no buffer on failure")
			}
			var re *model.RenderError
			if !errors.As(err, &re) {
				t.Fatalf("Expected *model.RenderError, got %v", err)
			}
			if re.Page != 3 {
				t.Errorf("Expected page 3, got %d", re.Page)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if page.calls != tt.calls {
				t.Errorf("Expected %d rasterizer calls, got %d", tt.calls, page.calls)
			}
		})
	}
}

// ============================================================================
// Buffer Tests
// ============================================================================

func TestPixelBuffer_ImageSwapsChannels(t *testing.T) {
	buf := NewPixelBuffer(1, 1, FormatBGRA)
	copy(buf.Pix, []byte{10, 20, 30, 255})

	r, g, b, a := buf.Image().At(0, 0).RGBA()
	if r>>8 != 30 || g>>8 != 20 || b>>8 != 10 || a>>8 != 255 {
		t.Errorf("At(0,0) = %d,%d,%d,%d, want 30,20,10,255", r>>8, g>>8, b>>8, a>>8)
	}

	back := FromImage(buf.Image(), FormatBGRA)
	if !bytes.Equal(back.Pix, buf.Pix) {
		t.Errorf("FromImage() = %v, want %v", back.Pix, buf.Pix)
	}
}

func TestPixelBuffer_EncodePNG(t *testing.T) {
	buf := NewPixelBuffer(3, 2, FormatGray)
	for i := range buf.Pix {
		buf.Pix[i] = byte(i * 40)
	}

	var out bytes.Buffer
	if err := buf.Encode(&out, PNG); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	img, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("Decoded size %v", img.Bounds())
	}
}

func TestPixelBuffer_EncodeAllFormats(t *testing.T) {
	buf := NewPixelBuffer(4, 4, FormatBGRA)
	for i := range buf.Pix {
		buf.Pix[i] = 0xff
	}

	for _, enc := range []Encoding{PNG, JPEG, TIFF, BMP} {
		var out bytes.Buffer
		if err := buf.Encode(&out, enc); err != nil {
			t.Errorf("Encode(%v) failed: %v", enc, err)
		}
		if out.Len() == 0 {
			t.Errorf("Encode(%v) produced no output", enc)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"png", PNG, false},
		{".PNG", PNG, false},
		{"jpg", JPEG, false},
		{"tif", TIFF, false},
		{"bmp", BMP, false},
		{"gif", PNG, true},
	}

	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEncoding(%q) = %v, %v", tt.in, got, err)
		}
	}
}

// ============================================================================
// Scaling Tests
// ============================================================================

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"already fits", 100, 50, 200, 200, 100, 50},
		{"wide", 400, 200, 100, 100, 100, 50},
		{"tall", 200, 400, 100, 100, 50, 100},
		{"square", 300, 300, 150, 100, 100, 100},
		{"empty", 0, 10, 10, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitWithin() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestThumbnail(t *testing.T) {
	buf := NewPixelBuffer(200, 100, FormatGray)
	for i := range buf.Pix {
		buf.Pix[i] = 255
	}

	thumb := Thumbnail(buf, 50, 50)
	if thumb.Width != 50 || thumb.Height != 25 {
		t.Fatalf("Thumbnail size %dx%d, want 50x25", thumb.Width, thumb.Height)
	}
	if thumb.Format != FormatGray {
		t.Errorf("Expected gray thumbnail, got %v", thumb.Format)
	}
	if thumb.Pix[len(thumb.Pix)/2] < 250 {
		t.Errorf("Expected white thumbnail, got %d", thumb.Pix[len(thumb.Pix)/2])
	}

	color := NewPixelBuffer(20, 20, FormatBGRA)
	if got := Scale(color, 10, 5); got.Width != 10 || got.Height != 5 || got.Format != FormatBGRA {
		t.Errorf("Scale(color) = %dx%d %v", got.Width, got.Height, got.Format)
	}
}
