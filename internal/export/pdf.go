package export

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	fontOblique []byte
)

// PDFOptions controls PDF rendering.
type PDFOptions struct {
	Title    string
	Compress bool
}

// Landscape A4 leaves 277mm between 10mm margins.
var pdfColumnWidths = []float64{28, 52, 52, 32, 38, 34, 41}

const (
	pdfRowHeight  = 6
	pdfFontFamily = "DejaVu"
)

// WritePDF renders rows as a paginated A4 table. The first row is the header and is
// repeated at the top of every page.
func WritePDF(w io.Writer, rows [][]string, opts PDFOptions) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(opts.Compress)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)

	title := opts.Title
	if title == "" {
		title = "Exchange Rates"
	}
	pdf.SetTitle(title, true)

	// Currency names go beyond the core fonts' Latin-1 range.
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", fontBold)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "I", fontOblique)

	var header []string
	body := rows
	if len(rows) > 0 {
		header, body = rows[0], rows[1:]
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			pdf.SetFont(pdfFontFamily, "B", 14)
			pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
		}
		if header == nil {
			return
		}
		pdf.SetFont(pdfFontFamily, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, cell := range header {
			pdf.CellFormat(columnWidth(i), pdfRowHeight+1, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(pdfFontFamily, "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(pdfFontFamily, "", 8)
	for _, row := range body {
		for i, cell := range row {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			width := columnWidth(i)
			pdf.CellFormat(width, pdfRowHeight, fit(pdf, cell, width-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func columnWidth(i int) float64 {
	if i < len(pdfColumnWidths) {
		return pdfColumnWidths[i]
	}
	return 30
}

// fit truncates s until it fits in width at the current font size.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
