package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ExtractedFields is the fixed schema of values pulled out of document text.
// Empty strings and nil numbers mean the field was not found.
type ExtractedFields struct {
	DocumentNumber    string `json:"documentNumber,omitempty"`
	HolderID          string `json:"holderId,omitempty"`
	LicenseNumber     string `json:"licenseNumber,omitempty"`
	CertificateNumber string `json:"certificateNumber,omitempty"`

	HolderName        string `json:"holderName,omitempty"`
	Issuer            string `json:"issuer,omitempty"`
	SponsorName       string `json:"sponsorName,omitempty"`
	SponsorID         string `json:"sponsorId,omitempty"`
	Institution       string `json:"institution,omitempty"`
	CertificationBody string `json:"certificationBody,omitempty"`

	IssueDate      string `json:"issueDate,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	CompletionDate string `json:"completionDate,omitempty"`

	Amount   *float64 `json:"amount,omitempty"`
	Salary   *float64 `json:"salary,omitempty"`
	Currency string   `json:"currency,omitempty"`

	Position         string `json:"position,omitempty"`
	Department       string `json:"department,omitempty"`
	Nationality      string `json:"nationality,omitempty"`
	PlaceOfBirth     string `json:"placeOfBirth,omitempty"`
	Gender           string `json:"gender,omitempty"`
	BloodGroup       string `json:"bloodGroup,omitempty"`
	Address          string `json:"address,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	Email            string `json:"email,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	Profession       string `json:"profession,omitempty"`
	Qualification    string `json:"qualification,omitempty"`
	Grade            string `json:"grade,omitempty"`
	VisaType         string `json:"visaType,omitempty"`
	EntryPort        string `json:"entryPort,omitempty"`
}

// FieldEntry is a present field rendered for display.
type FieldEntry struct {
	Key   string
	Label string
	Value string
}

// Entries returns every present field in schema order.
func (f *ExtractedFields) Entries() []FieldEntry {
	var out []FieldEntry
	add := func(key, label, value string) {
		if value != "" {
			out = append(out, FieldEntry{Key: key, Label: label, Value: value})
		}
	}
	addNum := func(key, label string, value *float64) {
		if value != nil {
			out = append(out, FieldEntry{Key: key, Label: label, Value: strconv.FormatFloat(*value, 'f', -1, 64)})
		}
	}

	add("documentNumber", "Document Number", f.DocumentNumber)
	add("holderId", "Holder ID", f.HolderID)
	add("licenseNumber", "License Number", f.LicenseNumber)
	add("certificateNumber", "Certificate Number", f.CertificateNumber)
	add("holderName", "Holder Name", f.HolderName)
	add("issuer", "Issuer", f.Issuer)
	add("sponsorName", "Sponsor Name", f.SponsorName)
	add("sponsorId", "Sponsor ID", f.SponsorID)
	add("institution", "Institution", f.Institution)
	add("certificationBody", "Certification Body", f.CertificationBody)
	add("issueDate", "Issue Date", f.IssueDate)
	add("startDate", "Start Date", f.StartDate)
	add("endDate", "End Date", f.EndDate)
	add("expiryDate", "Expiry Date", f.ExpiryDate)
	add("dateOfBirth", "Date of Birth", f.DateOfBirth)
	add("completionDate", "Completion Date", f.CompletionDate)
	addNum("amount", "Amount", f.Amount)
	addNum("salary", "Salary", f.Salary)
	add("currency", "Currency", f.Currency)
	add("position", "Position", f.Position)
	add("department", "Department", f.Department)
	add("nationality", "Nationality", f.Nationality)
	add("placeOfBirth", "Place of Birth", f.PlaceOfBirth)
	add("gender", "Gender", f.Gender)
	add("bloodGroup", "Blood Group", f.BloodGroup)
	add("address", "Address", f.Address)
	add("phoneNumber", "Phone Number", f.PhoneNumber)
	add("email", "Email", f.Email)
	add("emergencyContact", "Emergency Contact", f.EmergencyContact)
	add("profession", "Profession", f.Profession)
	add("qualification", "Qualification", f.Qualification)
	add("grade", "Grade", f.Grade)
	add("visaType", "Visa Type", f.VisaType)
	add("entryPort", "Entry Port", f.EntryPort)
	return out
}

// DataPoints counts the fields that were found.
func (f *ExtractedFields) DataPoints() int {
	return len(f.Entries())
}

// QualityAnalysis is the derived quality and confidence assessment of a document.
type QualityAnalysis struct {
	DocumentType    string   `json:"documentType"`
	Confidence      int      `json:"confidence"`
	Completeness    int      `json:"completeness"`
	QualityScore    int      `json:"qualityScore"`
	DataPoints      int      `json:"dataPoints"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
	KeyInsights     []string `json:"keyInsights"`
	MissingFields   []string `json:"missingFields"`
}

// AnalysisMetadata describes the analyzed file and the run itself.
type AnalysisMetadata struct {
	FileSize         int64    `json:"fileSize"`
	MimeType         string   `json:"mimeType"`
	PageCount        int      `json:"pageCount"`
	Language         Language `json:"language"`
	ProcessingTimeMs int64    `json:"processingTime"`
}

// AnalysisResult is the response of a single document analysis.
type AnalysisResult struct {
	ExtractedData ExtractedFields  `json:"extractedData"`
	ExtractedText string           `json:"extractedText"`
	AIAnalysis    QualityAnalysis  `json:"aiAnalysis"`
	Metadata      AnalysisMetadata `json:"metadata"`
	Confidence    int              `json:"confidence"`
}

// DocumentRecord is a tenant's stored document row.
type DocumentRecord struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	TenantID      uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	DocumentType  string          `db:"document_type" json:"document_type"`
	FileName      string          `db:"file_name" json:"file_name"`
	MimeType      string          `db:"mime_type" json:"mime_type"`
	StorageBucket string          `db:"storage_bucket" json:"storage_bucket"`
	StorageKey    string          `db:"storage_key" json:"storage_key"`
	Status        DocumentStatus  `db:"status" json:"status"`
	Confidence    int             `db:"confidence" json:"confidence"`
	ExtractedData json.RawMessage `db:"extracted_data" json:"extracted_data"`
	AIAnalysis    json.RawMessage `db:"ai_analysis" json:"ai_analysis"`
	Metadata      json.RawMessage `db:"metadata" json:"metadata"`
	ProcessedAt   *time.Time      `db:"processed_at" json:"processed_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// DocumentAnalysisUpdate carries the columns written once analysis completes.
type DocumentAnalysisUpdate struct {
	Status         DocumentStatus
	Confidence     int
	ExtractedData  ExtractedFields
	ExtractedText  string
	AIAnalysis     QualityAnalysis
	Metadata       AnalysisMetadata
	DocumentNumber string
	Issuer         string
	HolderName     string
	HolderID       string
	Amount         *float64
	IssueDate      string
	ExpiryDate     string
}
