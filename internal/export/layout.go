package export

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/galuhdigital/minutes/backend/internal/textfmt"
	"github.com/go-pdf/fpdf"
)

// Page geometry and typography, in points on an A4 portrait page.
const (
	marginX          = 50.0
	topMargin        = 50.0
	bottomMargin     = 50.0
	lineHeight       = 14.0
	infoLabelWidth   = 110.0
	listGutterWidth  = 28.0
	sectionThreshold = 150.0
	signatureHeight  = 130.0
	logoWidth        = 100.0
	logoHeight       = 40.0
	imageCellWidth   = 220.0
	imageCellHeight  = 150.0
	imageCellGap     = 20.0
)

// Corporate palette.
var (
	primaryColor   = [3]int{0, 51, 102}
	secondaryColor = [3]int{100, 100, 100}
)

// Letterhead carries the organization identity printed on every export.
type Letterhead struct {
	OrgName      string
	AddressLines []string
	City         string
	SignerName   string
	SignerRole   string
	LogoPath     string
}

// document wraps an fpdf page with a vertical cursor so layout routines can
// place content top to bottom and break pages explicitly.
type document struct {
	pdf        *fpdf.Fpdf
	pageWidth  float64
	pageHeight float64
	y          float64
	imageSeq   int
}

func newDocument() *document {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()
	return &document{
		pdf:        pdf,
		pageWidth:  pageWidth,
		pageHeight: pageHeight,
		y:          topMargin,
	}
}

func (d *document) newPage() {
	d.pdf.AddPage()
	d.y = topMargin
}

func (d *document) bodyWidth() float64 {
	return d.pageWidth - marginX*2
}

// letterhead draws the logo (or a bold org-name fallback), the right-aligned
// address block and the decorative rule.
func (d *document) letterhead(head Letterhead) {
	if !d.drawLogo(head.LogoPath) {
		d.pdf.SetFont("Helvetica", "B", 12)
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.Text(marginX, d.y, strings.ToUpper(head.OrgName))
	}

	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetTextColor(secondaryColor[0], secondaryColor[1], secondaryColor[2])
	addressY := d.y
	for _, line := range head.AddressLines {
		width := d.pdf.GetStringWidth(line)
		d.pdf.Text(d.pageWidth-marginX-width, addressY, line)
		addressY += 11
	}

	d.y += 50
	d.pdf.SetDrawColor(primaryColor[0], primaryColor[1], primaryColor[2])
	d.pdf.SetLineWidth(1.5)
	d.pdf.Line(marginX, d.y, d.pageWidth-marginX, d.y)
	d.y += 35
}

func (d *document) drawLogo(path string) bool {
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return d.placeImage("letterhead-logo", data, marginX, d.y-15, logoWidth, logoHeight)
}

// title prints the centered bold document title.
func (d *document) title(text string) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.pdf.SetTextColor(0, 0, 0)
	width := d.pdf.GetStringWidth(text)
	d.pdf.Text((d.pageWidth-width)/2, d.y, text)
	d.y += 30
}

// infoRow prints a bold label and a word-wrapped value, advancing the cursor
// by wrapped-line-count times the line height.
func (d *document) infoRow(label, value string) {
	if value == "" {
		value = "-"
	}
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(50, 50, 50)
	d.pdf.Text(marginX, d.y, label)

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(0, 0, 0)
	lines := d.pdf.SplitText(value, d.bodyWidth()-infoLabelWidth)
	for _, line := range lines {
		d.pdf.Text(marginX+infoLabelWidth, d.y, line)
		d.y += lineHeight
	}
	d.y += 4
}

// divider draws a light rule between the info table and the sections.
func (d *document) divider() {
	d.y += 10
	d.pdf.SetDrawColor(230, 230, 230)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(marginX, d.y, d.pageWidth-marginX, d.y)
	d.y += 25
}

// section renders a heading plus body text. Numbered-list text gets an "N)"
// gutter per item; everything else is one wrapped paragraph. A new page is
// started when remaining vertical space is below the section threshold.
func (d *document) section(heading, content string) {
	if d.y > d.pageHeight-sectionThreshold {
		d.newPage()
	}

	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.SetTextColor(primaryColor[0], primaryColor[1], primaryColor[2])
	d.pdf.Text(marginX, d.y, heading)
	d.y += 15

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(30, 30, 30)

	if textfmt.IsNumberedList(content) {
		for i, item := range textfmt.ListItems(content) {
			lines := d.pdf.SplitText(item, d.bodyWidth()-listGutterWidth)
			d.breakIfNeeded(float64(len(lines)) * lineHeight)
			d.pdf.Text(marginX, d.y, fmt.Sprintf("%d)", i+1))
			d.writeLines(lines, marginX+listGutterWidth)
		}
	} else {
		if strings.TrimSpace(content) == "" {
			content = "-"
		}
		d.writeLines(d.pdf.SplitText(content, d.bodyWidth()), marginX)
	}
	d.y += 25
}

func (d *document) writeLines(lines []string, x float64) {
	for _, line := range lines {
		d.breakIfNeeded(lineHeight)
		d.pdf.Text(x, d.y, line)
		d.y += lineHeight
	}
}

func (d *document) breakIfNeeded(needed float64) {
	if d.y+needed > d.pageHeight-bottomMargin {
		d.newPage()
	}
}

// signature places the city/date line, role label, wet-signature rule and
// printed name near the bottom of the page, or on a fresh page when the
// cursor has run too far down.
func (d *document) signature(head Letterhead, date string) {
	if d.y > d.pageHeight-signatureHeight {
		d.newPage()
	} else {
		d.y = d.pageHeight - signatureHeight
	}

	signatureX := d.pageWidth - marginX - 150
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Text(signatureX, d.y, fmt.Sprintf("%s, %s", head.City, date))

	d.y += 15
	d.pdf.Text(signatureX, d.y, head.SignerRole)

	d.y += 50
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(signatureX, d.y, signatureX+130, d.y)

	d.y += 12
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.Text(signatureX, d.y, head.SignerName)
}

// imageCell embeds fetched image bytes at the grid slot, or a bordered
// placeholder when the asset is unusable.
func (d *document) imageCell(data []byte, x float64) {
	d.imageSeq++
	name := fmt.Sprintf("attachment-%d", d.imageSeq)
	if len(data) == 0 || !d.placeImage(name, data, x, d.y, imageCellWidth, imageCellHeight) {
		d.placeholderBox(x)
	}
}

func (d *document) placeholderBox(x float64) {
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Rect(x, d.y, imageCellWidth, imageCellHeight, "D")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Text(x+10, d.y+20, "Image N/A")
}

// placeImage registers and draws raw image bytes, reporting success. A decode
// failure clears the pdf error state so one bad asset cannot poison the rest
// of the document.
func (d *document) placeImage(name string, data []byte, x, y, w, h float64) bool {
	imageType := sniffImageType(data)
	if imageType == "" {
		return false
	}
	options := fpdf.ImageOptions{ImageType: imageType}
	info := d.pdf.RegisterImageOptionsReader(name, options, strings.NewReader(string(data)))
	if d.pdf.Err() || info == nil {
		d.pdf.ClearError()
		return false
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, options, 0, "")
	if d.pdf.Err() {
		d.pdf.ClearError()
		return false
	}
	return true
}

func sniffImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}
