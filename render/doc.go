// Package render turns a loaded page into a caller-ready pixel buffer.
//
// Rendering a tile happens in four steps:
//
//  1. Select the page box (the configured box, or the page's full-page
//     box when the page does not define it).
//  2. Build the page-to-device matrix: translate the box's top-left
//     corner to the origin, scale by the zoom and rotate by the page's
//     own rotation combined with the requested quarter turns.
//  3. Anchor the requested tile at the top-left corner of the scaled
//     page, fill the tile with the background and let the backend paint
//     into it.
//  4. Convert the backend's samples into the output format. Color tiles
//     are copied verbatim (BGRA). Gray tiles arrive as luminance plus
//     alpha and are composited onto white.
//
// The resulting [PixelBuffer] can be wrapped as an [image.Image],
// scaled with [Scale] or [Thumbnail], and encoded as PNG, JPEG, TIFF or
// BMP.
package render
