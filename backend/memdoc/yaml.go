package memdoc

import (
	"fmt"

	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
	"gopkg.in/yaml.v3"
)

// yamlDocument is the on-disk description of an in-memory document.
type yamlDocument struct {
	Password string        `yaml:"password"`
	Pages    []yamlPage    `yaml:"pages"`
	Outline  []yamlOutline `yaml:"outline"`
}

type yamlPage struct {
	Size     []float64            `yaml:"size"` // width, height
	Boxes    map[string][]float64 `yaml:"boxes"`
	Rotate   int                  `yaml:"rotate"`
	Text     []yamlBlock          `yaml:"text"`
	Images   [][]float64          `yaml:"images"`
	FailLoad string               `yaml:"fail_load"`
}

type yamlBlock struct {
	X     float64  `yaml:"x"`
	Y     float64  `yaml:"y"`
	Size  float64  `yaml:"size"`
	Lines []string `yaml:"lines"`
}

type yamlOutline struct {
	Title    string        `yaml:"title"`
	Page     int           `yaml:"page"`
	Children []yamlOutline `yaml:"children"`
}

// Parse builds a document from its YAML description:
//
//	password: secret
//	pages:
//	  - size: [612, 792]
//	    boxes: {crop: [36, 36, 576, 756]}
//	    rotate: 90
//	    text:
//	      - {x: 72, y: 72, size: 12, lines: ["Hello", "world"]}
//	    images: [[100, 300, 300, 500]]
//	outline:
//	  - {title: Intro, page: 0}
func Parse(data []byte) (*Document, error) {
	var yd yamlDocument
	if err := yaml.Unmarshal(data, &yd); err != nil {
		return nil, fmt.Errorf("failed to parse document description: %w", err)
	}

	doc := New().WithPassword(yd.Password)
	for i, yp := range yd.Pages {
		p, err := yp.page()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		doc.AddPage(p)
	}
	doc.Contents = convertOutline(yd.Outline)
	return doc, nil
}

func (yp yamlPage) page() (*Page, error) {
	if len(yp.Size) != 2 || yp.Size[0] <= 0 || yp.Size[1] <= 0 {
		return nil, fmt.Errorf("size must be [width, height] with positive values, got %v", yp.Size)
	}
	p := NewPage(yp.Size[0], yp.Size[1]).WithRotation(yp.Rotate)

	for name, coords := range yp.Boxes {
		box, ok := model.ParseBox(name)
		if !ok {
			return nil, fmt.Errorf("unknown box %q", name)
		}
		r, err := rectOf(coords)
		if err != nil {
			return nil, fmt.Errorf("box %s: %w", name, err)
		}
		p.WithBox(box, r)
	}

	for _, b := range yp.Text {
		size := b.Size
		if size <= 0 {
			size = 12
		}
		p.AddBlock(b.X, b.Y, size, b.Lines...)
	}

	for i, coords := range yp.Images {
		r, err := rectOf(coords)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		p.AddImage(r)
	}

	if yp.FailLoad != "" {
		p.LoadErr = fmt.Errorf("%s", yp.FailLoad)
	}
	return p, nil
}

func rectOf(v []float64) (model.Rect, error) {
	if len(v) != 4 {
		return model.Rect{}, fmt.Errorf("expected [x0, y0, x1, y1], got %v", v)
	}
	return model.Rect{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}.Normalize(), nil
}

func convertOutline(items []yamlOutline) []model.OutlineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]model.OutlineItem, len(items))
	for i, it := range items {
		out[i] = model.OutlineItem{Title: it.Title, Page: it.Page, Children: convertOutline(it.Children)}
	}
	return out
}

// Opener opens YAML document descriptions from a backend.Source.
type Opener struct{}

var _ backend.Opener = Opener{}

// Open reads and parses src, then opens the resulting document. Read
// and syntax failures are reported as *model.ParseError.
func (Opener) Open(src backend.Source, password string) (backend.Handle, error) {
	data, err := src.ReadAll()
	if err != nil {
		return nil, &model.ParseError{Source: src.Name(), Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &model.ParseError{Source: src.Name(), Err: err}
	}
	return doc.Open(src, password)
}
