package port

import (
	"context"

	"github.com/google/uuid"

	"hrdocs/internal/domain"
)

// DocumentRepository defines the contract for document record persistence.
// All methods take tenantID to enforce tenant isolation at the data layer.
type DocumentRepository interface {
	GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.DocumentRecord, error)
	// MarkProcessing flags a record as being analyzed. Calling it twice is harmless.
	MarkProcessing(ctx context.Context, tenantID, docID uuid.UUID) error
	// SaveAnalysis writes the final analysis in a single update.
	SaveAnalysis(ctx context.Context, tenantID, docID uuid.UUID, update *domain.DocumentAnalysisUpdate) error
}
