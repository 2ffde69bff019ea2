// Package render turns rasterized pages into encoded images.
//
// Rasterization itself is delegated to a Rasterizer supplied by the caller.
// The package converts raw pixel buffers into image.Image values, picks a
// resolution that fits a page into a viewport, and encodes the result as PNG,
// TIFF, JPEG or BMP:
//
//	img, err := rasterizer.Rasterize(page, render.FitDPI(w, h, 800, 600))
//	if err != nil {
//		return err
//	}
//	err = render.Encode(out, img, render.PNG, true)
package render
