package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hrdocs/internal/domain"
	"hrdocs/internal/service"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, input *service.AnalyzeInput) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) Reanalyze(ctx context.Context, tenantID, docID uuid.UUID) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, tenantID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

// MockAnalysisObserver is a mock implementation of service.AnalysisObserver.
type MockAnalysisObserver struct {
	mock.Mock
}

func (m *MockAnalysisObserver) ObserveAnalysis(docType string, confidence int, err error) {
	m.Called(docType, confidence, err)
}
