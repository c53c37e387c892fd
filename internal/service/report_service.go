package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hrdocs/internal/domain"
	"hrdocs/internal/port"
	"hrdocs/internal/report"
)

// ExportFile is a rendered download.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders persisted analyses for download.
type ReportService interface {
	ExportAnalysis(ctx context.Context, tenantID, docID uuid.UUID) (*ExportFile, error)
}

type reportService struct {
	docRepo port.DocumentRepository
	now     func() time.Time
}

// NewReportService creates a new ReportService implementation.
func NewReportService(docRepo port.DocumentRepository) ReportService {
	return &reportService{docRepo: docRepo, now: time.Now}
}

func (s *reportService) ExportAnalysis(ctx context.Context, tenantID, docID uuid.UUID) (*ExportFile, error) {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentStatusCompleted || isEmptyJSON(doc.AIAnalysis) {
		return nil, domain.ErrNotAnalyzed
	}

	var fields domain.ExtractedFields
	if !isEmptyJSON(doc.ExtractedData) {
		if err := json.Unmarshal(doc.ExtractedData, &fields); err != nil {
			return nil, fmt.Errorf("report.ExportAnalysis decode fields: %w", err)
		}
	}
	var qa domain.QualityAnalysis
	if err := json.Unmarshal(doc.AIAnalysis, &qa); err != nil {
		return nil, fmt.Errorf("report.ExportAnalysis decode analysis: %w", err)
	}

	var buf bytes.Buffer
	if err := report.WriteAnalysis(&buf, doc, &fields, &qa); err != nil {
		return nil, fmt.Errorf("report.ExportAnalysis: %w", err)
	}

	return &ExportFile{
		FileName:    report.BuildFilename(doc.FileName, s.now()),
		ContentType: report.ContentType,
		Content:     buf.Bytes(),
	}, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := string(bytes.TrimSpace(raw))
	return s == "" || s == "null" || s == "{}"
}
