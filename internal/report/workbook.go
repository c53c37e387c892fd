package report

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hrdocs/internal/domain"
)

const (
	FieldsSheet   = "Fields"
	AnalysisSheet = "Analysis"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteAnalysis renders the extracted fields and the quality analysis of one
// document as a two-sheet workbook.
func WriteAnalysis(w io.Writer, doc *domain.DocumentRecord, fields *domain.ExtractedFields, qa *domain.QualityAnalysis) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The default sheet becomes the fields sheet.
	if err := f.SetSheetName(f.GetSheetName(0), FieldsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(AnalysisSheet); err != nil {
		return fmt.Errorf("creating analysis sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeFields(f, fields, bold); err != nil {
		return err
	}
	if err := writeAnalysis(f, doc, qa, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeFields(f *excelize.File, fields *domain.ExtractedFields, header int) error {
	rows := [][]any{{"Field", "Value"}}
	for _, e := range fields.Entries() {
		rows = append(rows, []any{e.Label, e.Value})
	}
	if err := writeRows(f, FieldsSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(FieldsSheet, "A1", "B1", header); err != nil {
		return fmt.Errorf("styling fields header: %w", err)
	}
	return f.SetColWidth(FieldsSheet, "A", "B", 28)
}

func writeAnalysis(f *excelize.File, doc *domain.DocumentRecord, qa *domain.QualityAnalysis, header int) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"File Name", doc.FileName},
		{"Document Type", qa.DocumentType},
		{"Confidence", qa.Confidence},
		{"Completeness", qa.Completeness},
		{"Quality Score", qa.QualityScore},
		{"Data Points", qa.DataPoints},
	}
	if doc.ProcessedAt != nil {
		rows = append(rows, []any{"Processed At", doc.ProcessedAt.UTC().Format(time.RFC3339)})
	}

	headers := []int{1}
	section := func(title string, items []string) {
		rows = append(rows, []any{}, []any{title})
		headers = append(headers, len(rows))
		for _, item := range items {
			rows = append(rows, []any{item})
		}
	}
	section("Warnings", qa.Warnings)
	section("Recommendations", qa.Recommendations)
	section("Key Insights", qa.KeyInsights)
	section("Missing Fields", qa.MissingFields)

	if err := writeRows(f, AnalysisSheet, rows); err != nil {
		return err
	}
	for _, row := range headers {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetCellStyle(AnalysisSheet, cell, cell, header); err != nil {
			return fmt.Errorf("styling analysis header: %w", err)
		}
	}
	return f.SetColWidth(AnalysisSheet, "A", "A", 60)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}
	return s
}

// BuildFilename returns {name}_analysis_{YYYY-MM-DD}.xlsx.
func BuildFilename(fileName string, now time.Time) string {
	return fmt.Sprintf("%s_analysis_%s.xlsx", SanitizeFilename(fileName), now.Format("2006-01-02"))
}
