package domain

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNoFile            = errors.New("no file provided")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrNotAnalyzed       = errors.New("document has not been analyzed")
	ErrPersistFailed     = errors.New("failed to save analysis")
	ErrStorageFailed     = errors.New("failed to fetch document from storage")
)
