package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hrdocs/internal/domain"
	"hrdocs/internal/report"
)

func TestWriteAnalysis(t *testing.T) {
	salary := 12000.0
	fields := &domain.ExtractedFields{
		DocumentNumber: "EMP007",
		HolderName:     "Ahmed Ali",
		StartDate:      "2023-06-01",
		Salary:         &salary,
		Currency:       "SAR",
	}
	qa := &domain.QualityAnalysis{
		DocumentType:    "employment_contract",
		Confidence:      90,
		Completeness:    75,
		QualityScore:    83,
		DataPoints:      5,
		Warnings:        []string{},
		Recommendations: []string{},
		KeyInsights:     []string{"Employee: Ahmed Ali", "Employment contract detected"},
		MissingFields:   []string{"End Date"},
	}
	processed := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	doc := &domain.DocumentRecord{FileName: "contract.pdf", ProcessedAt: &processed}

	var buf bytes.Buffer
	require.NoError(t, report.WriteAnalysis(&buf, doc, fields, qa))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{report.FieldsSheet, report.AnalysisSheet}, f.GetSheetList())

	rows, err := f.GetRows(report.FieldsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Field", "Value"},
		{"Document Number", "EMP007"},
		{"Holder Name", "Ahmed Ali"},
		{"Start Date", "2023-06-01"},
		{"Salary", "12000"},
		{"Currency", "SAR"},
	}, rows)

	rows, err = f.GetRows(report.AnalysisSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"File Name", "contract.pdf"}, rows[1])
	assert.Equal(t, []string{"Confidence", "90"}, rows[3])
	assert.Equal(t, []string{"Processed At", "2025-06-15T09:00:00Z"}, rows[7])

	var flat []string
	for _, r := range rows {
		flat = append(flat, r...)
	}
	assert.Contains(t, flat, "Key Insights")
	assert.Contains(t, flat, "Employment contract detected")
	assert.Contains(t, flat, "End Date")
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Iqama_Scan_2024_analysis_2025-01-02.xlsx", report.BuildFilename("Iqama Scan (2024).pdf", now))
	assert.Equal(t, "document_analysis_2025-01-02.xlsx", report.BuildFilename("عقد.pdf", now))
}
