package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrdocs/internal/config"
	"hrdocs/internal/domain"
	"hrdocs/internal/quality"
	"hrdocs/internal/service"
	"hrdocs/mocks"
)

const contractText = "Employee Number: EMP007 Name: Ahmed Ali Position: Engineer " +
	"Start Date: 01/06/2023 Salary: SAR 12,000"

func setupAnalysisService(cfg config.AnalysisConfig) (service.AnalysisService, *mocks.MockDocumentRepo, *mocks.MockObjectStorage, *mocks.MockAnalysisObserver) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	observer := new(mocks.MockAnalysisObserver)
	analyzer := quality.NewAnalyzerWithClock(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	})
	svc := service.NewAnalysisService(docRepo, storage, analyzer, cfg, observer, zap.NewNop())
	return svc, docRepo, storage, observer
}

func defaultAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{PreviewChars: 1000, StoredTextChars: 5000}
}

// --- Analyze ---

func TestAnalysisService_Analyze_WithoutDocumentID(t *testing.T) {
	svc, docRepo, _, observer := setupAnalysisService(defaultAnalysisConfig())
	observer.On("ObserveAnalysis", "employment_contract", mock.AnythingOfType("int"), nil).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:     uuid.New(),
		FileBytes:    []byte(contractText),
		MimeType:     "text/plain",
		DocumentType: "employment_contract",
	})

	require.NoError(t, err)
	assert.Equal(t, "EMP007", result.ExtractedData.DocumentNumber)
	assert.Equal(t, "Ahmed Ali", result.ExtractedData.HolderName)
	assert.Equal(t, "2023-06-01", result.ExtractedData.StartDate)
	require.NotNil(t, result.ExtractedData.Salary)
	assert.Equal(t, 12000.0, *result.ExtractedData.Salary)
	assert.Equal(t, "employment_contract", result.AIAnalysis.DocumentType)
	assert.Contains(t, result.AIAnalysis.KeyInsights, "Employee Number: EMP007")
	assert.Equal(t, result.AIAnalysis.Confidence, result.Confidence)
	assert.Equal(t, int64(len(contractText)), result.Metadata.FileSize)
	assert.Equal(t, "text/plain", result.Metadata.MimeType)
	assert.Equal(t, 1, result.Metadata.PageCount)
	assert.Equal(t, domain.LanguageEnglish, result.Metadata.Language)

	docRepo.AssertNotCalled(t, "MarkProcessing", mock.Anything, mock.Anything, mock.Anything)
	docRepo.AssertNotCalled(t, "SaveAnalysis", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	observer.AssertExpectations(t)
}

func TestAnalysisService_Analyze_EmptyFile(t *testing.T) {
	svc, _, _, observer := setupAnalysisService(defaultAnalysisConfig())
	observer.On("ObserveAnalysis", "", mock.AnythingOfType("int"), nil).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{TenantID: uuid.New()})

	require.NoError(t, err)
	assert.Empty(t, result.ExtractedText)
	assert.Equal(t, 0, result.AIAnalysis.DataPoints)
	assert.Equal(t, domain.UnknownDocumentType, result.AIAnalysis.DocumentType)
	assert.Equal(t, 1, result.Metadata.PageCount)
	assert.Equal(t, domain.LanguageMixed, result.Metadata.Language)
}

func TestAnalysisService_Analyze_PersistsResult(t *testing.T) {
	svc, docRepo, _, observer := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()

	docRepo.On("MarkProcessing", mock.Anything, tenantID, docID).Return(nil)
	docRepo.On("SaveAnalysis", mock.Anything, tenantID, docID,
		mock.MatchedBy(func(u *domain.DocumentAnalysisUpdate) bool {
			return u.Status == domain.DocumentStatusCompleted &&
				u.DocumentNumber == "EMP007" &&
				u.HolderName == "Ahmed Ali" &&
				u.Confidence == u.AIAnalysis.Confidence &&
				strings.Contains(u.ExtractedText, "EMP007")
		})).Return(nil)
	observer.On("ObserveAnalysis", "employment_contract", mock.AnythingOfType("int"), nil).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:     tenantID,
		DocumentID:   &docID,
		FileBytes:    []byte(contractText),
		MimeType:     "text/plain",
		DocumentType: "employment_contract",
	})

	require.NoError(t, err)
	assert.Equal(t, "EMP007", result.ExtractedData.DocumentNumber)
	docRepo.AssertExpectations(t)
	observer.AssertExpectations(t)
}

func TestAnalysisService_Analyze_MarkProcessingFailureIsNotFatal(t *testing.T) {
	svc, docRepo, _, observer := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()

	docRepo.On("MarkProcessing", mock.Anything, tenantID, docID).Return(errors.New("connection reset"))
	docRepo.On("SaveAnalysis", mock.Anything, tenantID, docID, mock.Anything).Return(nil)
	observer.On("ObserveAnalysis", mock.Anything, mock.Anything, nil).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:   tenantID,
		DocumentID: &docID,
		FileBytes:  []byte(contractText),
		MimeType:   "text/plain",
	})

	require.NoError(t, err)
	assert.NotNil(t, result)
	docRepo.AssertExpectations(t)
}

func TestAnalysisService_Analyze_SaveFailure(t *testing.T) {
	svc, docRepo, _, observer := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()
	dbErr := errors.New("connection reset")

	docRepo.On("MarkProcessing", mock.Anything, tenantID, docID).Return(nil)
	docRepo.On("SaveAnalysis", mock.Anything, tenantID, docID, mock.Anything).Return(dbErr)
	observer.On("ObserveAnalysis", "", 0, dbErr).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:   tenantID,
		DocumentID: &docID,
		FileBytes:  []byte(contractText),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPersistFailed)
	assert.ErrorIs(t, err, dbErr)
	observer.AssertExpectations(t)
}

func TestAnalysisService_Analyze_SaveDocumentNotFound(t *testing.T) {
	svc, docRepo, _, observer := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()

	docRepo.On("MarkProcessing", mock.Anything, tenantID, docID).Return(domain.ErrDocumentNotFound)
	docRepo.On("SaveAnalysis", mock.Anything, tenantID, docID, mock.Anything).Return(domain.ErrDocumentNotFound)
	observer.On("ObserveAnalysis", mock.Anything, 0, domain.ErrDocumentNotFound).Return()

	_, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:   tenantID,
		DocumentID: &docID,
		FileBytes:  []byte(contractText),
	})

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.NotErrorIs(t, err, domain.ErrPersistFailed)
}

func TestAnalysisService_Analyze_TruncatesText(t *testing.T) {
	svc, docRepo, _, observer := setupAnalysisService(config.AnalysisConfig{PreviewChars: 10, StoredTextChars: 20})
	tenantID, docID := uuid.New(), uuid.New()

	docRepo.On("MarkProcessing", mock.Anything, tenantID, docID).Return(nil)
	docRepo.On("SaveAnalysis", mock.Anything, tenantID, docID,
		mock.MatchedBy(func(u *domain.DocumentAnalysisUpdate) bool {
			return utf8.RuneCountInString(u.ExtractedText) == 20
		})).Return(nil)
	observer.On("ObserveAnalysis", mock.Anything, mock.Anything, nil).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:   tenantID,
		DocumentID: &docID,
		FileBytes:  []byte(contractText),
	})

	require.NoError(t, err)
	assert.Equal(t, "Employee N", result.ExtractedText)
	docRepo.AssertExpectations(t)
}

func TestAnalysisService_Analyze_ArabicText(t *testing.T) {
	svc, _, _, observer := setupAnalysisService(defaultAnalysisConfig())
	observer.On("ObserveAnalysis", mock.Anything, mock.Anything, nil).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:  uuid.New(),
		FileBytes: []byte("الاسم: محمد عبدالله الراتب: 9000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.LanguageArabic, result.Metadata.Language)
}

func TestAnalysisService_Analyze_PageCount(t *testing.T) {
	svc, _, _, observer := setupAnalysisService(config.AnalysisConfig{PreviewChars: 100, StoredTextChars: 100})
	observer.On("ObserveAnalysis", mock.Anything, mock.Anything, nil).Return()

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:  uuid.New(),
		FileBytes: []byte(strings.Repeat("word ", 1000)),
	})

	require.NoError(t, err)
	// 4999 characters after whitespace trimming
	assert.Equal(t, 2, result.Metadata.PageCount)
	assert.Len(t, result.ExtractedText, 100)
}

func TestAnalysisService_NilObserver(t *testing.T) {
	svc := service.NewAnalysisService(new(mocks.MockDocumentRepo), new(mocks.MockObjectStorage),
		quality.NewAnalyzer(), defaultAnalysisConfig(), nil, zap.NewNop())

	result, err := svc.Analyze(context.Background(), &service.AnalyzeInput{
		TenantID:  uuid.New(),
		FileBytes: []byte(contractText),
	})

	require.NoError(t, err)
	assert.NotNil(t, result)
}

// --- Reanalyze ---

func TestAnalysisService_Reanalyze_Success(t *testing.T) {
	svc, docRepo, storage, observer := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()
	doc := &domain.DocumentRecord{
		ID:            docID,
		TenantID:      tenantID,
		DocumentType:  "employment_contract",
		MimeType:      "application/pdf",
		StorageBucket: "docs",
		StorageKey:    "tenants/t1/contract.pdf",
		Status:        domain.DocumentStatusCompleted,
	}

	docRepo.On("GetByID", mock.Anything, tenantID, docID).Return(doc, nil)
	storage.On("Download", mock.Anything, "docs", "tenants/t1/contract.pdf").Return([]byte(contractText), nil)
	docRepo.On("MarkProcessing", mock.Anything, tenantID, docID).Return(nil)
	docRepo.On("SaveAnalysis", mock.Anything, tenantID, docID, mock.Anything).Return(nil)
	observer.On("ObserveAnalysis", "employment_contract", mock.AnythingOfType("int"), nil).Return()

	result, err := svc.Reanalyze(context.Background(), tenantID, docID)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.Metadata.MimeType)
	assert.Equal(t, "EMP007", result.ExtractedData.DocumentNumber)
	docRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestAnalysisService_Reanalyze_NotFound(t *testing.T) {
	svc, docRepo, storage, _ := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()

	docRepo.On("GetByID", mock.Anything, tenantID, docID).Return(nil, domain.ErrDocumentNotFound)

	_, err := svc.Reanalyze(context.Background(), tenantID, docID)

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_Reanalyze_NoStorageKey(t *testing.T) {
	svc, docRepo, storage, _ := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()

	docRepo.On("GetByID", mock.Anything, tenantID, docID).Return(&domain.DocumentRecord{ID: docID}, nil)

	_, err := svc.Reanalyze(context.Background(), tenantID, docID)

	assert.ErrorIs(t, err, domain.ErrStorageFailed)
	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_Reanalyze_DownloadFailure(t *testing.T) {
	svc, docRepo, storage, _ := setupAnalysisService(defaultAnalysisConfig())
	tenantID, docID := uuid.New(), uuid.New()
	doc := &domain.DocumentRecord{ID: docID, StorageBucket: "docs", StorageKey: "missing.pdf"}

	docRepo.On("GetByID", mock.Anything, tenantID, docID).Return(doc, nil)
	storage.On("Download", mock.Anything, "docs", "missing.pdf").Return(nil, errors.New("no such key"))

	_, err := svc.Reanalyze(context.Background(), tenantID, docID)

	assert.ErrorIs(t, err, domain.ErrStorageFailed)
	assert.ErrorContains(t, err, "no such key")
	docRepo.AssertNotCalled(t, "SaveAnalysis", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
