package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/Sumatoshi-tech/salesboard/pkg/cache"
	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/filterapi"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
)

// Report layout in millimetres.
const (
	imageWidth  = 90
	imageHeight = 60
	imageMargin = 10
	imageCols   = 2
	pageMargin  = 10
	lineHeight  = 8
	cellWidth   = 200
	gap         = 5

	// SnapshotWidth and SnapshotHeight are the pixel size of chart images.
	SnapshotWidth  = 900
	SnapshotHeight = 600

	// DefaultTitle is the heading of a report.
	DefaultTitle = "Sales Report"

	noFilter = "No Filter selected"
	font     = "Arial"
)

// ErrInvalidImage is returned when a posted chart image is not base64 PNG data.
var ErrInvalidImage = errors.New("invalid chart image")

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// Report is a printable summary of a session.
type Report struct {
	Title   string
	Cards   payload.Series
	Filters []filterapi.Labeled
	// Images are PNG chart images, laid out two per row.
	Images [][]byte
}

// Write renders the report as PDF to w.
func (r Report) Write(w io.Writer) error {
	pdf, err := r.build()
	if err != nil {
		return err
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}

// Pages returns the number of pages the report lays out to.
func (r Report) Pages() (int, error) {
	pdf, err := r.build()
	if err != nil {
		return 0, err
	}

	return pdf.PageCount(), nil
}

func (r Report) build() (*gofpdf.Fpdf, error) {
	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	pdf.SetFont(font, "B", 14)
	pdf.CellFormat(cellWidth, lineHeight, title, "", 1, "C", false, 0, "")
	pdf.Ln(gap)

	pdf.SetFont(font, "", 10)

	for _, c := range r.Cards {
		line(pdf, c.Key+": "+strconv.FormatFloat(c.Value, 'f', -1, 64))
	}

	pdf.Ln(gap)

	pdf.SetFont(font, "B", 10)
	line(pdf, "Filters Applied:")
	pdf.SetFont(font, "", 10)

	for _, f := range r.Filters {
		value := f.Value
		if value == "" {
			value = noFilter
		}

		line(pdf, f.Name+": "+value)
	}

	pdf.Ln(gap)

	if len(r.Images) > 0 {
		r.addImages(pdf)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}

	return pdf, nil
}

// addImages lays the images out in a two column grid, starting a new page
// when the next row does not fit.
func (r Report) addImages(pdf *gofpdf.Fpdf) {
	pdf.SetFont(font, "B", 10)
	line(pdf, "Graphs:")
	pdf.Ln(gap)

	left, _, _, bottom := pdf.GetMargins()
	_, pageHeight := pdf.GetPageSize()

	x, y := left, pdf.GetY()
	col := 0

	for i, img := range r.Images {
		if y+imageHeight > pageHeight-bottom {
			pdf.AddPage()

			x, y, col = left, pdf.GetY(), 0
		}

		name := "graph_" + strconv.Itoa(i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}

		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
		pdf.ImageOptions(name, x, y, imageWidth, imageHeight, false, opts, 0, "")

		col++
		if col == imageCols {
			col = 0
			x = left
			y += imageHeight + imageMargin
		} else {
			x += imageWidth + imageMargin
		}
	}

	pdf.SetY(y + imageHeight + imageMargin)
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.CellFormat(cellWidth, lineHeight, text, "", 1, "", false, 0, "")
}

// Snapshots renders every handle as a PNG image. Images found in c are
// reused; c may be nil.
func Snapshots(handles []*chart.Handle, c *cache.Snapshots) ([][]byte, error) {
	images := make([][]byte, 0, len(handles))

	for _, h := range handles {
		img, err := c.Snapshot(h, SnapshotWidth, SnapshotHeight)
		if err != nil {
			return nil, err
		}

		images = append(images, img)
	}

	return images, nil
}

// DecodeImages decodes base64 chart images posted by a client.
func DecodeImages(encoded []string) ([][]byte, error) {
	images := make([][]byte, len(encoded))

	for i, s := range encoded {
		if s == "" || len(s)%4 != 0 || !base64Pattern.MatchString(s) {
			return nil, fmt.Errorf("%w: invalid base64 string at index %d", ErrInvalidImage, i)
		}

		img, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding image at index %d: %w", ErrInvalidImage, i, err)
		}

		images[i] = img
	}

	return images, nil
}
