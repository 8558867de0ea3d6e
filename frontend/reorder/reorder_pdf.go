package reorder

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// BarcodeValue is the Code128 payload printed for an item.
func BarcodeValue(id int64) string {
	return fmt.Sprintf("I%08d", id)
}

const (
	rowH     = 22.0
	barcodeW = 58.0
	barcodeH = 14.0
)

// RenderPDF draws the sheet on A4 portrait pages, one row per line with the
// item's barcode on the right. An empty sheet still yields a single page.
func RenderPDF(sheet Sheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Reorder Sheet", false)
	pdf.SetAutoPageBreak(false, 0)

	pageW, pageH := pdf.GetPageSize()
	margin := 12.0
	textW := pageW - 2*margin - barcodeW - 4

	header := func() {
		pdf.AddPage()
		pdf.SetXY(margin, margin)
		pdf.SetFont("Helvetica", "B", 22)
		pdf.CellFormat(0, 12, "Reorder Sheet", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetX(margin)
		pdf.CellFormat(0, 6, fmt.Sprintf("Printed %s  |  %d items below threshold", sheet.PrintedAt.Format("02/01/2006 15:04"), len(sheet.Lines)), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}
	header()

	if len(sheet.Lines) == 0 {
		pdf.SetFont("Helvetica", "I", 14)
		pdf.SetX(margin)
		pdf.CellFormat(0, 10, "All items are at or above threshold.", "", 1, "L", false, 0, "")
	}

	for i, line := range sheet.Lines {
		if pdf.GetY()+rowH > pageH-margin {
			header()
		}
		y := pdf.GetY()
		pdf.SetLineWidth(0.2)
		pdf.Line(margin, y, pageW-margin, y)

		name := strings.TrimSpace(line.Name)
		if name == "" {
			name = "Unnamed item"
		}
		nameFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 14, 8, name, textW)
		pdf.SetFont("Helvetica", "B", nameFont)
		pdf.SetXY(margin, y+2)
		pdf.CellFormat(textW, 7, name, "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(margin, y+10)
		pdf.CellFormat(textW, 5, detailText(line), "", 0, "L", false, 0, "")

		code := BarcodeValue(line.ID)
		barcodePNG, err := renderCode128PNG(code, 900, 220)
		if err != nil {
			return nil, fmt.Errorf("barcode %s: %w", code, err)
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := "reorder-barcode-" + strconv.Itoa(i)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		bx := pageW - margin - barcodeW
		pdf.ImageOptions(imageName, bx, y+2, barcodeW, barcodeH, false, opt, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(bx, y+barcodeH+2.5)
		pdf.CellFormat(barcodeW, 3, code, "", 0, "C", false, 0, "")

		pdf.SetY(y + rowH)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func detailText(line Line) string {
	if !line.Known {
		return fmt.Sprintf("#%d  details unavailable", line.ID)
	}
	parts := []string{fmt.Sprintf("#%d", line.ID)}
	if c := strings.TrimSpace(line.Category); c != "" {
		parts = append(parts, c)
	}
	if l := strings.TrimSpace(line.Location); l != "" {
		parts = append(parts, "Loc "+l)
	}
	parts = append(parts, fmt.Sprintf("Qty %d / %d", line.Quantity, line.Threshold))
	parts = append(parts, fmt.Sprintf("Order %d", line.Shortfall()))
	return strings.Join(parts, "  |  ")
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
