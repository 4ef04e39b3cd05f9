package coords

import (
	"testing"

	"github.com/tsawler/pageview/model"
)

func TestPageSize(t *testing.T) {
	box := model.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}

	tests := []struct {
		rotation int
		w, h     float64
	}{
		{0, 612, 792},
		{90, 792, 612},
		{180, 612, 792},
		{270, 792, 612},
		{-90, 792, 612},
		{450, 792, 612},
	}

	for _, tt := range tests {
		w, h := PageSize(Geometry{Box: box, Rotation: tt.rotation})
		if w != tt.w || h != tt.h {
			t.Errorf("PageSize(rotation %d) = %vx%v, want %vx%v", tt.rotation, w, h, tt.w, tt.h)
		}
	}
}

func TestPageToView_BoxItself(t *testing.T) {
	tests := []struct {
		name string
		box  model.Rect
	}{
		{"origin", model.Rect{X1: 612, Y1: 792}},
		{"offset", model.Rect{X0: 10, Y0: 20, X1: 110, Y1: 220}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Geometry{Box: tt.box}
			got := PageToView(g, tt.box)
			want := model.Rect{X1: tt.box.Width(), Y1: tt.box.Height()}
			if got != want {
				t.Errorf("PageToView(box) = %+v, want %+v", got, want)
			}
		})
	}
}

func TestPageToView(t *testing.T) {
	box := model.Rect{X1: 100, Y1: 200}
	r := model.Rect{X0: 20, Y0: 30, X1: 40, Y1: 50}

	tests := []struct {
		name     string
		rotation int
		want     model.Rect
	}{
		{"no rotation", 0, model.Rect{X0: 20, Y0: 30, X1: 40, Y1: 50}},
		{"quarter turn", 90, model.Rect{X0: 150, Y0: 20, X1: 170, Y1: 40}},
		{"half turn", 180, model.Rect{X0: 60, Y0: 150, X1: 80, Y1: 170}},
		{"three quarters", 270, model.Rect{X0: 30, Y0: 60, X1: 50, Y1: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageToView(Geometry{Box: box, Rotation: tt.rotation}, r)
			if got != tt.want {
				t.Errorf("PageToView() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPageToView_InvertedInput(t *testing.T) {
	g := Geometry{Box: model.Rect{X1: 100, Y1: 200}}
	a := PageToView(g, model.Rect{X0: 20, Y0: 30, X1: 40, Y1: 50})
	b := PageToView(g, model.Rect{X0: 40, Y0: 50, X1: 20, Y1: 30})
	if a != b {
		t.Errorf("Expected corner order not to matter: %+v vs %+v", a, b)
	}
}

func TestViewToPage_RoundTrip(t *testing.T) {
	box := model.Rect{X0: 5, Y0: 7, X1: 105, Y1: 207}
	r := model.Rect{X0: 20, Y0: 30, X1: 40, Y1: 50}

	for _, rotation := range []int{0, 90, 180, 270} {
		g := Geometry{Box: box, Rotation: rotation}
		got := ViewToPage(g, PageToView(g, r))
		if got != r {
			t.Errorf("rotation %d: round trip = %+v, want %+v", rotation, got, r)
		}
	}
}

func TestPageToView_OffsetRotatedBox(t *testing.T) {
	g := Geometry{Box: model.Rect{X0: 10, Y0: 20, X1: 60, Y1: 120}, Rotation: 90}
	got := PageToView(g, model.Rect{X0: 20, Y0: 30, X1: 40, Y1: 50})
	want := model.Rect{X0: 70, Y0: 10, X1: 90, Y1: 30}
	if got != want {
		t.Errorf("PageToView() = %+v, want %+v", got, want)
	}
}
