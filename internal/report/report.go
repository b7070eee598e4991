// Package report renders the per-person 3Cs scorecard as an A4 PDF.
package report

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"threecs/internal/guidance"
	"threecs/internal/scoring"
)

const (
	fontFamily   = "DejaVu"
	pageMargin   = 14.0
	contentWidth = 210.0 - 2*pageMargin
	lineHeight   = 5.6
	logoName     = "brand-logo"
)

// DejaVu Sans covers Latin, Greek and Cyrillic scripts. Runes it lacks render
// as its missing-glyph box but keep their code points in the text stream.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
)

// DateTimeLayout formats generation timestamps in reports and emails.
const DateTimeLayout = "Jan 2, 2006, 3:04 PM UTC"

// Brand palette.
var (
	colorPrimary   = "#000033"
	colorBlue      = "#0071BD"
	colorGreen     = "#4BAA42"
	colorGray      = "#6B7280"
	colorLightGray = "#F3F4F6"
	colorRule      = "#E5E7EB"
)

var gradeColors = map[scoring.Grade]string{
	scoring.GradeAPlus: "#16A34A",
	scoring.GradeA:     "#22C55E",
	scoring.GradeB:     "#EAB308",
	scoring.GradeC:     "#F97316",
	scoring.GradeD:     "#EF4444",
}

// GradeColor returns the badge color for g.
func GradeColor(g scoring.Grade) string {
	if c, ok := gradeColors[g]; ok {
		return c
	}
	return colorGray
}

// Input is everything a scorecard shows.
type Input struct {
	PersonName    string
	Culture       int
	Competence    int
	Commitment    int
	FinalRating   int
	Grade         scoring.Grade
	Guidance      guidance.Record
	AssessorEmail string
	GeneratedAt   time.Time
}

// Renderer builds scorecard PDFs. It is safe for concurrent use.
type Renderer struct {
	logo     []byte
	logoType string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogo places an image in the page header instead of the text mark.
// imageType is "PNG" or "JPG".
func WithLogo(data []byte, imageType string) Option {
	return func(r *Renderer) {
		if len(data) == 0 {
			return
		}
		r.logo = data
		r.logoType = strings.ToUpper(imageType)
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadLogo reads a PNG or JPEG logo from disk.
func LoadLogo(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read logo: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return data, "PNG", nil
	case ".jpg", ".jpeg":
		return data, "JPG", nil
	default:
		return nil, "", errors.New("logo must be a .png or .jpg file")
	}
}

// Render produces the PDF bytes for one person.
func (r *Renderer) Render(in Input) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	generated := in.GeneratedAt.UTC().Format(DateTimeLayout)

	pdf.SetTitle("3Cs Assessment Report - "+pdfText(in.PersonName), true)
	pdf.SetAuthor(pdfText(in.AssessorEmail), true)
	pdf.SetCreator("MSP+ 3Cs", false)
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 22)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-16)
		setDraw(pdf, colorRule)
		pdf.SetLineWidth(0.2)
		pdf.Line(pageMargin, pdf.GetY(), pageMargin+contentWidth, pdf.GetY())
		pdf.Ln(2)
		pdf.SetFont(fontFamily, "", 8)
		setText(pdf, colorGray)
		pdf.CellFormat(contentWidth, 5, pdfText("MSP+ 3Cs Assessment Report • Confidential • Generated "+generated), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	r.header(pdf, in.AssessorEmail, generated)

	pdf.SetFont(fontFamily, "B", 20)
	setText(pdf, colorPrimary)
	pdf.CellFormat(contentWidth, 9, "3Cs Assessment Report", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	setText(pdf, colorGray)
	pdf.CellFormat(contentWidth, 6, "Individual Scorecard", "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(fontFamily, "B", 16)
	setText(pdf, colorPrimary)
	pdf.MultiCell(contentWidth, 8, pdfText(in.PersonName), "", "L", false)
	pdf.Ln(4)

	scoreBoxes(pdf, in)
	resultPanel(pdf, in)

	section(pdf, "Summary", in.Guidance.Summary)
	section(pdf, guidance.HeadingPrimaryFocus, in.Guidance.PrimaryFocus)
	section(pdf, guidance.HeadingManagerActions, in.Guidance.ManagerActions)
	section(pdf, guidance.HeadingStrength, in.Guidance.StrengthReinforcement)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) header(pdf *gofpdf.Fpdf, assessor, generated string) {
	top := pdf.GetY()
	if len(r.logo) > 0 {
		opts := gofpdf.ImageOptions{ImageType: r.logoType}
		pdf.RegisterImageOptionsReader(logoName, opts, bytes.NewReader(r.logo))
		pdf.ImageOptions(logoName, pageMargin, top, 42, 0, false, opts, 0, "")
	} else {
		pdf.SetFont(fontFamily, "B", 18)
		setText(pdf, colorPrimary)
		pdf.CellFormat(60, 12, "MSP+", "", 0, "L", false, 0, "")
	}

	pdf.SetFont(fontFamily, "", 9)
	setText(pdf, colorGray)
	pdf.SetXY(pageMargin+contentWidth-90, top+1)
	pdf.CellFormat(90, 5, generated, "", 2, "R", false, 0, "")
	pdf.CellFormat(90, 5, pdfText(assessor), "", 2, "R", false, 0, "")

	y := top + 16
	setDraw(pdf, colorBlue)
	pdf.SetLineWidth(0.7)
	pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
	pdf.SetXY(pageMargin, y+8)
}

func scoreBoxes(pdf *gofpdf.Fpdf, in Input) {
	const gap = 4.0
	const height = 30.0
	width := (contentWidth - 2*gap) / 3
	boxes := []struct {
		label  string
		value  string
		helper string
		color  string
	}{
		{"CULTURE", strconv.Itoa(in.Culture) + "/" + strconv.Itoa(scoring.MaxCulture), guidance.CultureLabel(in.Culture), colorBlue},
		{"COMPETENCE", strconv.Itoa(in.Competence) + "/" + strconv.Itoa(scoring.MaxCompetence), guidance.CompetenceLabel(in.Competence), colorGreen},
		{"COMMITMENT", strconv.Itoa(in.Commitment) + "/" + strconv.Itoa(scoring.MaxCommitment), guidance.CommitmentLabel(in.Commitment), colorPrimary},
	}

	top := pdf.GetY()
	for i, b := range boxes {
		x := pageMargin + float64(i)*(width+gap)
		setFill(pdf, colorLightGray)
		pdf.Rect(x, top, width, height, "F")

		pdf.SetXY(x, top+3)
		pdf.SetFont(fontFamily, "", 8)
		setText(pdf, colorGray)
		pdf.CellFormat(width, 4, b.label, "", 2, "C", false, 0, "")

		pdf.SetFont(fontFamily, "B", 20)
		setText(pdf, b.color)
		pdf.CellFormat(width, 10, b.value, "", 2, "C", false, 0, "")

		pdf.SetFont(fontFamily, "", 7.5)
		setText(pdf, colorGray)
		pdf.SetX(x + 2)
		pdf.MultiCell(width-4, 3.6, pdfText(b.helper), "", "C", false)
	}
	pdf.SetXY(pageMargin, top+height+6)
}

func resultPanel(pdf *gofpdf.Fpdf, in Input) {
	const height = 30.0
	top := pdf.GetY()
	setFill(pdf, colorLightGray)
	pdf.Rect(pageMargin, top, contentWidth, height, "F")

	pdf.SetXY(pageMargin, top+4)
	pdf.SetFont(fontFamily, "B", 30)
	setText(pdf, colorPrimary)
	pdf.CellFormat(36, 14, strconv.Itoa(in.FinalRating), "", 2, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 8)
	setText(pdf, colorGray)
	pdf.CellFormat(36, 5, "Final Rating", "", 0, "C", false, 0, "")

	badgeX := pageMargin + 44
	pdf.SetXY(badgeX, top+5)
	setFill(pdf, GradeColor(in.Grade))
	pdf.SetFont(fontFamily, "B", 13)
	setText(pdf, "#FFFFFF")
	pdf.CellFormat(34, 9, "Grade: "+in.Grade.String(), "", 2, "C", true, 0, "")

	pdf.SetXY(badgeX, top+16)
	pdf.SetFont(fontFamily, "B", 12)
	setText(pdf, colorPrimary)
	pdf.CellFormat(contentWidth-52, 6, pdfText(in.Guidance.Label), "", 2, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	setText(pdf, colorGray)
	pdf.CellFormat(contentWidth-52, 5, pdfText(in.Guidance.Key.Title()), "", 0, "L", false, 0, "")

	pdf.SetXY(pageMargin, top+height+8)
}

func section(pdf *gofpdf.Fpdf, title, body string) {
	pdf.SetFont(fontFamily, "B", 13)
	setText(pdf, colorPrimary)
	pdf.CellFormat(contentWidth, 7, pdfText(title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10.5)
	setText(pdf, colorGray)
	pdf.MultiCell(contentWidth, lineHeight, pdfText(body), "", "L", false)
	pdf.Ln(4)
}

// pdfText keeps s inside the Basic Multilingual Plane, the range gofpdf's
// UTF-8 width tables index. Control characters are dropped.
func pdfText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r > 0xFFFF:
			return unicode.ReplacementChar
		case unicode.IsControl(r) && r != '\n':
			return -1
		}
		return r
	}, s)
}

func setText(pdf *gofpdf.Fpdf, hex string) {
	r, g, b := hexRGB(hex)
	pdf.SetTextColor(r, g, b)
}

func setFill(pdf *gofpdf.Fpdf, hex string) {
	r, g, b := hexRGB(hex)
	pdf.SetFillColor(r, g, b)
}

func setDraw(pdf *gofpdf.Fpdf, hex string) {
	r, g, b := hexRGB(hex)
	pdf.SetDrawColor(r, g, b)
}

// hexRGB parses "#RRGGBB". Malformed input yields black.
func hexRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
