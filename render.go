package fractionator

import (
	"bytes"
	"fmt"

	"github.com/tsawler/fractionator/render"
)

// RenderPage rasterizes page at dpi and encodes it in f.
func (d *Document) RenderPage(page int, dpi float64, f render.Format, compress bool) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkLocked(page); err != nil {
		return nil, err
	}
	return d.renderLocked(page, dpi, f, compress)
}

// RenderPageFitted renders page at the resolution that fits it into a
// viewport of viewportW x viewportH pixels. Landscape pages fit the width,
// the others fit the height.
func (d *Document) RenderPageFitted(page, viewportW, viewportH int, f render.Format, compress bool) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkLocked(page); err != nil {
		return nil, err
	}
	if viewportW <= 0 || viewportH <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", viewportW, viewportH)
	}

	sizer, ok := d.source.(PageSizer)
	if !ok {
		return nil, ErrNoPageSize
	}
	w, h, err := sizer.PageSize(page)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("page %d: %w: %gx%g", page, ErrNoPageSize, w, h)
	}

	return d.renderLocked(page, render.FitDPI(w, h, viewportW, viewportH), f, compress)
}

func (d *Document) renderLocked(page int, dpi float64, f render.Format, compress bool) ([]byte, error) {
	if d.opts.Rasterizer == nil {
		return nil, render.ErrNoRasterizer
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid resolution %g", dpi)
	}

	img, err := d.opts.Rasterizer.Rasterize(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := render.Encode(&buf, img, f, compress); err != nil {
		return nil, err
	}

	d.logger.Debug().
		Int("page", page).
		Float64("dpi", dpi).
		Str("format", f.String()).
		Int("bytes", buf.Len()).
		Msg("page rendered")
	return buf.Bytes(), nil
}
