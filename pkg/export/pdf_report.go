package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SubjectRow is one line of the per-subject breakdown table.
type SubjectRow struct {
	Name             string
	Sessions         int
	Minutes          int
	AttentionPercent int
	HasAttention     bool
}

// AdviceSection groups suggestion lines under a heading.
type AdviceSection struct {
	Title string
	Items []string
}

// ReportData holds everything the PDF report renders.
type ReportData struct {
	ChildName string
	Age       int
	Stage     string
	Gender    string

	GeneratedAt time.Time
	PeriodLabel string

	TotalSessions      int
	TotalMinutes       int
	TotalHours         float64
	AttentionPercent   int
	HasAttention       bool
	ImprovementRate    *int
	MostStudiedSubject string
	BestTimeOfDay      string

	Subjects []SubjectRow
	Sections []AdviceSection
	AIAdvice string
}

// PDFReport renders a learning report into PDF bytes.
type PDFReport struct{}

// NewPDFReport constructs the report renderer.
func NewPDFReport() *PDFReport {
	return &PDFReport{}
}

// Render produces the full report document.
func (r *PDFReport) Render(data ReportData) ([]byte, error) {
	if data.ChildName == "" {
		return nil, fmt.Errorf("report requires a child name")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Learning Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Generated "+data.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	if data.PeriodLabel != "" {
		pdf.CellFormat(0, 6, data.PeriodLabel, "", 1, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	r.sectionTitle(pdf, "Profile")
	r.keyValueRow(pdf, "Name", data.ChildName)
	r.keyValueRow(pdf, "Age", strconv.Itoa(data.Age))
	r.keyValueRow(pdf, "Stage", data.Stage)
	r.keyValueRow(pdf, "Gender", data.Gender)
	pdf.Ln(4)

	r.sectionTitle(pdf, "Study Overview")
	r.keyValueRow(pdf, "Total sessions", strconv.Itoa(data.TotalSessions))
	r.keyValueRow(pdf, "Total time", fmt.Sprintf("%d min (%.1f h)", data.TotalMinutes, data.TotalHours))
	if data.HasAttention {
		r.keyValueRow(pdf, "Average attention", fmt.Sprintf("%d%%", data.AttentionPercent))
	} else {
		r.keyValueRow(pdf, "Average attention", "no attention data yet")
	}
	if data.ImprovementRate != nil {
		r.keyValueRow(pdf, "Attention trend", fmt.Sprintf("%+d%%", *data.ImprovementRate))
	}
	if data.MostStudiedSubject != "" {
		r.keyValueRow(pdf, "Most studied subject", data.MostStudiedSubject)
	}
	if data.BestTimeOfDay != "" {
		r.keyValueRow(pdf, "Best time of day", data.BestTimeOfDay)
	}
	pdf.Ln(4)

	if len(data.Subjects) > 0 {
		r.sectionTitle(pdf, "By Subject")
		r.subjectTable(pdf, data.Subjects)
		pdf.Ln(4)
	}

	for _, section := range data.Sections {
		if len(section.Items) == 0 {
			continue
		}
		r.sectionTitle(pdf, section.Title)
		pdf.SetFont("Arial", "", 10)
		for _, item := range section.Items {
			pdf.MultiCell(0, 5.5, "- "+item, "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(3)
	}

	if data.AIAdvice != "" {
		r.sectionTitle(pdf, "Personalized Advice")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5.5, data.AIAdvice, "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFReport) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetFillColor(236, 240, 244)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func (r *PDFReport) keyValueRow(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(55, 7, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func (r *PDFReport) subjectTable(pdf *gofpdf.Fpdf, rows []SubjectRow) {
	headers := []string{"Subject", "Sessions", "Minutes", "Attention"}
	widths := []float64{60, 35, 40, 45}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(221, 229, 238)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		attention := "-"
		if row.HasAttention {
			attention = fmt.Sprintf("%d%%", row.AttentionPercent)
		}
		pdf.CellFormat(widths[0], 7, row.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, strconv.Itoa(row.Sessions), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, strconv.Itoa(row.Minutes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, attention, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
}
