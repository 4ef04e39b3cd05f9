package mupdf

import "github.com/tsawler/pageview/model"

// userToDocument flips PDF user space about the top of mediaBox.
func userToDocument(mediaBox model.Rect) model.Matrix {
	return model.Matrix{1, 0, 0, -1, 0, mediaBox.Normalize().Y1}
}

// boxToDocument converts a box read from the page dictionary.
func boxToDocument(r, mediaBox model.Rect) model.Rect {
	return userToDocument(mediaBox).TransformRect(r.Normalize())
}

// pageToDocument returns the mapping from MuPDF page space to document
// space. pageCTM is the transform MuPDF applies to user space when it
// runs or extracts a page.
func pageToDocument(pageCTM model.Matrix, mediaBox model.Rect) (model.Matrix, bool) {
	inv, ok := pageCTM.Invert()
	if !ok {
		return model.Matrix{}, false
	}
	return inv.Multiply(userToDocument(mediaBox)), true
}

// runTransform returns the matrix to hand MuPDF's run call so that page
// content lands where ctm maps document space.
func runTransform(toDocument, ctm model.Matrix) model.Matrix {
	return toDocument.Multiply(ctm)
}

// inheritable reports whether a page attribute may be inherited from the
// page tree.
func inheritable(key string) bool {
	switch key {
	case "MediaBox", "CropBox", "Rotate", "Resources":
		return true
	}
	return false
}
