package domain

// DocumentStatus represents the analysis lifecycle of a document record.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
)

// Language is the dominant script detected in extracted text.
type Language string

const (
	LanguageArabic  Language = "Arabic"
	LanguageEnglish Language = "English"
	LanguageMixed   Language = "Mixed"
)

// UnknownDocumentType is reported when the caller gives no type hint.
const UnknownDocumentType = "unknown"

// Currency codes recognised in document text.
const (
	CurrencySAR = "SAR"
	CurrencySR  = "SR"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyAED = "AED"
)

// CurrencyCodes lists the codes DetectCurrency matches, in match priority.
var CurrencyCodes = []string{CurrencySAR, CurrencySR, CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyAED}

// DefaultCurrency is assumed when a money value has no detected currency.
const DefaultCurrency = CurrencySAR
