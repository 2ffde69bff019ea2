// Package pdfdoc exposes the parts of a PDF document that text extraction
// needs: page count, per-page content token streams, font metrics and page
// geometry.
//
// It is built on github.com/ledongthuc/pdf, which handles the file
// structure, object resolution and stream decoding. Panics raised while
// reading malformed files are recovered and returned as errors.
//
//	doc, err := pdfdoc.Open("report.pdf")
//	if err != nil {
//	    return err
//	}
//	defer doc.Close()
//
//	src, err := doc.TokenStream(1)
//	metrics, ok := doc.ResolveFont("F1", 1)
//
// Pages are numbered from 1.
package pdfdoc
