package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrdocs/internal/config"
	"hrdocs/internal/domain"
	"hrdocs/internal/extractor"
	"hrdocs/internal/port"
	"hrdocs/internal/quality"
)

const charsPerPage = 2000

// AnalyzeInput is the DTO for a single document analysis.
type AnalyzeInput struct {
	TenantID uuid.UUID
	// DocumentID enables persistence. Nil means the result is only returned.
	DocumentID   *uuid.UUID
	FileBytes    []byte
	MimeType     string
	DocumentType string
}

// AnalysisObserver is notified once per analysis run.
type AnalysisObserver interface {
	ObserveAnalysis(docType string, confidence int, err error)
}

// AnalysisService runs the extraction pipeline and records the outcome.
type AnalysisService interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*domain.AnalysisResult, error)
	// Reanalyze fetches the stored original of a document and analyzes it again.
	Reanalyze(ctx context.Context, tenantID, docID uuid.UUID) (*domain.AnalysisResult, error)
}

type analysisService struct {
	docRepo  port.DocumentRepository
	storage  port.ObjectStorage
	analyzer *quality.Analyzer
	cfg      config.AnalysisConfig
	observer AnalysisObserver
	logger   *zap.Logger
}

// NewAnalysisService creates a new AnalysisService implementation.
// observer may be nil.
func NewAnalysisService(
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	analyzer *quality.Analyzer,
	cfg config.AnalysisConfig,
	observer AnalysisObserver,
	logger *zap.Logger,
) AnalysisService {
	if observer == nil {
		observer = noopObserver{}
	}
	return &analysisService{
		docRepo:  docRepo,
		storage:  storage,
		analyzer: analyzer,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}
}

func (s *analysisService) Analyze(ctx context.Context, input *AnalyzeInput) (*domain.AnalysisResult, error) {
	start := time.Now()

	if input.DocumentID != nil {
		if err := s.docRepo.MarkProcessing(ctx, input.TenantID, *input.DocumentID); err != nil {
			s.logger.Warn("marking document as processing failed",
				zap.String("document_id", input.DocumentID.String()),
				zap.Error(err))
		}
	}

	text := extractor.ApproximateText(input.FileBytes, input.MimeType)
	fields := extractor.ExtractFields(text, input.DocumentType)
	qa := s.analyzer.Analyze(fields, text, input.DocumentType)
	elapsed := time.Since(start).Milliseconds()

	metadata := domain.AnalysisMetadata{
		FileSize:         int64(len(input.FileBytes)),
		MimeType:         input.MimeType,
		PageCount:        estimatePageCount(text),
		Language:         detectLanguage(text),
		ProcessingTimeMs: elapsed,
	}
	result := &domain.AnalysisResult{
		ExtractedData: fields,
		ExtractedText: truncateRunes(text, s.cfg.PreviewChars),
		AIAnalysis:    qa,
		Metadata:      metadata,
		Confidence:    overallConfidence(qa),
	}

	if input.DocumentID != nil {
		update := &domain.DocumentAnalysisUpdate{
			Status:         domain.DocumentStatusCompleted,
			Confidence:     result.Confidence,
			ExtractedData:  fields,
			ExtractedText:  truncateRunes(text, s.cfg.StoredTextChars),
			AIAnalysis:     qa,
			Metadata:       metadata,
			DocumentNumber: fields.DocumentNumber,
			Issuer:         fields.Issuer,
			HolderName:     fields.HolderName,
			HolderID:       fields.HolderID,
			Amount:         fields.Amount,
			IssueDate:      fields.IssueDate,
			ExpiryDate:     fields.ExpiryDate,
		}
		if err := s.docRepo.SaveAnalysis(ctx, input.TenantID, *input.DocumentID, update); err != nil {
			s.observer.ObserveAnalysis(input.DocumentType, 0, err)
			s.logger.Error("saving analysis failed",
				zap.String("document_id", input.DocumentID.String()),
				zap.Error(err))
			if errors.Is(err, domain.ErrDocumentNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
		}
	}

	s.observer.ObserveAnalysis(input.DocumentType, result.Confidence, nil)
	s.logger.Info("document analyzed",
		zap.String("document_type", qa.DocumentType),
		zap.Int("data_points", qa.DataPoints),
		zap.Int("confidence", result.Confidence),
		zap.Int64("processing_ms", elapsed),
		zap.Bool("persisted", input.DocumentID != nil))

	return result, nil
}

func (s *analysisService) Reanalyze(ctx context.Context, tenantID, docID uuid.UUID) (*domain.AnalysisResult, error) {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc.StorageKey == "" {
		return nil, fmt.Errorf("%w: document has no stored original", domain.ErrStorageFailed)
	}

	data, err := s.storage.Download(ctx, doc.StorageBucket, doc.StorageKey)
	if err != nil {
		s.logger.Error("downloading original failed",
			zap.String("document_id", docID.String()),
			zap.String("bucket", doc.StorageBucket),
			zap.String("key", doc.StorageKey),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}

	return s.Analyze(ctx, &AnalyzeInput{
		TenantID:     tenantID,
		DocumentID:   &doc.ID,
		FileBytes:    data,
		MimeType:     doc.MimeType,
		DocumentType: doc.DocumentType,
	})
}

// overallConfidence mirrors the analyzer's confidence.
func overallConfidence(qa domain.QualityAnalysis) int {
	return int(math.Round(float64(qa.Confidence)))
}

func estimatePageCount(text string) int {
	pages := int(math.Round(float64(utf8.RuneCountInString(text)) / charsPerPage))
	return max(1, pages)
}

// detectLanguage compares Arabic-block characters with Latin letters.
func detectLanguage(text string) domain.Language {
	var arabic, latin int
	for _, r := range text {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			arabic++
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			latin++
		}
	}
	switch {
	case arabic > latin:
		return domain.LanguageArabic
	case latin > arabic:
		return domain.LanguageEnglish
	default:
		return domain.LanguageMixed
	}
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type noopObserver struct{}

func (noopObserver) ObserveAnalysis(string, int, error) {}
