package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrdocs/internal/domain"
	"hrdocs/internal/middleware"
	"hrdocs/internal/service"
)

// AnalysisHandler handles document analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	reportService   service.ReportService
	maxFileSize     int64
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, reportService service.ReportService, maxFileSize int64) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		reportService:   reportService,
		maxFileSize:     maxFileSize,
	}
}

// Analyze handles POST /api/v1/documents/analyze
// Multipart fields: file (required), documentId (optional UUID), documentType (optional).
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		HandleError(c, domain.ErrNoFile)
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	input := &service.AnalyzeInput{
		TenantID:     tenantID,
		DocumentType: strings.TrimSpace(c.PostForm("documentType")),
	}
	if raw := strings.TrimSpace(c.PostForm("documentId")); raw != "" {
		docID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			HandleError(c, domain.ErrInvalidDocumentID)
			return
		}
		input.DocumentID = &docID
	}

	data, err := h.readUpload(file)
	if err != nil {
		HandleError(c, err)
		return
	}
	input.FileBytes = data
	input.MimeType = detectMimeType(header.Header.Get("Content-Type"), data)

	result, err := h.analysisService.Analyze(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Reanalyze handles POST /api/v1/documents/:id/reanalyze
func (h *AnalysisHandler) Reanalyze(c *gin.Context) {
	tenantID, docID, ok := documentScope(c)
	if !ok {
		return
	}

	result, err := h.analysisService.Reanalyze(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Export handles GET /api/v1/documents/:id/export
func (h *AnalysisHandler) Export(c *gin.Context) {
	tenantID, docID, ok := documentScope(c)
	if !ok {
		return
	}

	file, err := h.reportService.ExportAnalysis(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *AnalysisHandler) readUpload(r io.Reader) ([]byte, error) {
	if h.maxFileSize <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, h.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}

// documentScope resolves the tenant and the :id path parameter. It writes the
// failure response itself.
func documentScope(c *gin.Context) (tenantID, docID uuid.UUID, ok bool) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		HandleError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	docID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		HandleError(c, domain.ErrInvalidDocumentID)
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, docID, true
}

// detectMimeType prefers the part's declared type and sniffs the content when
// the client sent none.
func detectMimeType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}
