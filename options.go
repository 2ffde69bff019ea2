package fractionator

import (
	"github.com/rs/zerolog"

	"github.com/tsawler/fractionator/render"
	"github.com/tsawler/fractionator/text"
)

// Options holds configuration for a Document.
type Options struct {
	// RemoveHTMLTags strips markup while segmenting. Paragraph and line
	// break tags are turned into breaks first.
	RemoveHTMLTags bool

	// ClassifyItems enables title and list item detection.
	ClassifyItems bool

	// VerticalThreshold is the baseline shift, in text space units, above
	// which a move starts a new line. Zero means text.DefaultVerticalThreshold.
	VerticalThreshold float64

	// Rasterizer draws pages for RenderPage and RenderPageFitted. Nil
	// disables rendering.
	Rasterizer render.Rasterizer

	Logger zerolog.Logger
}

// DefaultOptions returns the default document options.
func DefaultOptions() Options {
	return Options{
		RemoveHTMLTags:    true,
		ClassifyItems:     true,
		VerticalThreshold: text.DefaultVerticalThreshold,
		Logger:            zerolog.Nop(),
	}
}

func (o Options) verticalThreshold() float64 {
	if o.VerticalThreshold <= 0 {
		return text.DefaultVerticalThreshold
	}
	return o.VerticalThreshold
}
