package quality

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"hrdocs/internal/domain"
)

const (
	expectedContractFields   = 8
	expectedCredentialFields = 10
	expectedGenericFields    = 15

	expiringSoonDays = 30
	renewalPlanDays  = 90
	shortTextChars   = 100
)

var (
	contractCues = []string{"employment contract", "contract of employment", "labor contract", "labour contract", "عقد عمل", "عقد العمل"}
	visaCues     = []string{"visa", "تأشيرة"}
	iqamaCues    = []string{"iqama", "residence permit", "إقامة"}
	passportCues = []string{"passport", "جواز"}
)

// Analyzer scores extracted fields and produces human-readable findings.
// It holds no state besides its clock and is safe for concurrent use.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer returns an Analyzer that measures expiry against the wall clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// NewAnalyzerWithClock returns an Analyzer that reads the current time from now.
func NewAnalyzerWithClock(now func() time.Time) *Analyzer {
	return &Analyzer{now: now}
}

type report struct {
	warnings        []string
	recommendations []string
	insights        []string
	missing         []string
}

func (r *report) warn(msg string)      { r.warnings = append(r.warnings, msg) }
func (r *report) recommend(msg string) { r.recommendations = append(r.recommendations, msg) }
func (r *report) insight(msg string)   { r.insights = append(r.insights, msg) }
func (r *report) lack(label string)    { r.missing = append(r.missing, label) }

// Analyze classifies the document, scores completeness and confidence, and
// lists warnings, recommendations, key insights and missing fields.
func (a *Analyzer) Analyze(fields domain.ExtractedFields, text, docTypeHint string) domain.QualityAnalysis {
	hint := strings.ToLower(strings.TrimSpace(docTypeHint))
	lowerText := strings.ToLower(text)
	textLen := utf8.RuneCountInString(text)

	isContract := strings.Contains(hint, "contract") || containsAny(lowerText, contractCues)
	isCredential := matches(hint, lowerText, visaCues) ||
		matches(hint, lowerText, iqamaCues) ||
		matches(hint, lowerText, passportCues)

	dataPoints := fields.DataPoints()

	expected := expectedGenericFields
	switch {
	case isContract:
		expected = expectedContractFields
	case isCredential:
		expected = expectedCredentialFields
	}
	completeness := min(100, int(math.Round(float64(dataPoints)/float64(expected)*100)))

	confidence := scoreConfidence(fields, dataPoints, textLen, isContract)

	r := &report{
		warnings:        []string{},
		recommendations: []string{},
		insights:        []string{},
		missing:         []string{},
	}

	if fields.HolderName != "" {
		r.insight("Employee: " + fields.HolderName)
	}
	if fields.DocumentNumber != "" {
		r.insight("Employee Number: " + fields.DocumentNumber)
	}
	if fields.Position != "" {
		r.insight("Position: " + fields.Position)
	}
	if fields.Nationality != "" {
		r.insight("Nationality: " + fields.Nationality)
	}

	if isContract {
		a.contractFindings(r, fields)
	} else {
		a.credentialFindings(r, fields)
	}

	if fields.Amount != nil && *fields.Amount > 0 {
		r.insight(fmt.Sprintf("Amount: %s %s", currencyOf(fields), humanize.Commaf(*fields.Amount)))
	}
	if fields.Salary != nil && *fields.Salary > 0 {
		r.insight(fmt.Sprintf("Salary amount: %s %s", currencyOf(fields), humanize.Commaf(*fields.Salary)))
	}

	if textLen < shortTextChars {
		r.warn("Very little text extracted from document")
		r.recommend("Rescan the document at a higher resolution")
	}
	if len(r.insights) == 0 {
		r.insight("Document processed; no key details identified")
	}
	if dataPoints == 0 {
		r.warn("No structured data could be extracted")
		r.recommend("Verify the document quality and format")
	}

	docType := strings.TrimSpace(docTypeHint)
	if docType == "" {
		docType = domain.UnknownDocumentType
	}

	return domain.QualityAnalysis{
		DocumentType:    docType,
		Confidence:      confidence,
		Completeness:    completeness,
		QualityScore:    int(math.Round(float64(completeness+confidence) / 2)),
		DataPoints:      dataPoints,
		Warnings:        r.warnings,
		Recommendations: r.recommendations,
		KeyInsights:     r.insights,
		MissingFields:   r.missing,
	}
}

func (a *Analyzer) contractFindings(r *report, f domain.ExtractedFields) {
	r.insight("Employment contract detected")
	if f.StartDate != "" {
		r.insight("Contract start date: " + f.StartDate)
	} else {
		r.lack("Start Date")
	}
	if f.EndDate != "" {
		r.insight("Contract end date: " + f.EndDate)
	} else {
		r.lack("End Date")
	}
	if f.Salary != nil {
		r.insight(fmt.Sprintf("Salary: %s %s", currencyOf(f), humanize.Commaf(*f.Salary)))
	} else {
		r.lack("Salary")
	}
	if f.HolderName == "" {
		r.lack("Employee Name")
	}
	if f.Position == "" {
		r.lack("Position")
	}
}

func (a *Analyzer) credentialFindings(r *report, f domain.ExtractedFields) {
	if f.ExpiryDate != "" {
		if days, ok := a.daysUntil(f.ExpiryDate); ok {
			switch {
			case days < 0:
				r.warn("Document has expired")
				r.recommend("Immediate renewal required")
			case days < expiringSoonDays:
				r.warn(fmt.Sprintf("Document expiring in %d days", days))
				r.recommend("Schedule renewal soon")
			case days < renewalPlanDays:
				r.recommend("Plan for renewal within the next 3 months")
			}
			r.insight(fmt.Sprintf("Remaining validity: %d days", days))
		}
	} else {
		r.warn("No expiry date found in document")
		r.lack("Expiry Date")
	}
	if f.DocumentNumber == "" {
		r.lack("Document Number")
	}
	if f.HolderName == "" {
		r.lack("Holder Name")
	}
	if f.IssueDate == "" {
		r.lack("Issue Date")
	}
}

// daysUntil counts whole UTC calendar days from today to an ISO date.
func (a *Analyzer) daysUntil(isoDate string) (int, bool) {
	expiry, ok := parseISODate(isoDate)
	if !ok {
		return 0, false
	}
	now := a.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Floor(expiry.Sub(today).Hours() / 24)), true
}

func scoreConfidence(f domain.ExtractedFields, dataPoints, textLen int, isContract bool) int {
	hasTerms := f.StartDate != "" || f.EndDate != "" || f.Salary != nil
	switch {
	case isContract && hasTerms && f.HolderName != "":
		return min(100, dataPoints*12+lengthBonus(textLen, 30, 20, 10))
	case dataPoints >= 3:
		return min(100, dataPoints*10+lengthBonus(textLen, 30, 20, 10))
	default:
		return min(100, dataPoints*8+lengthBonus(textLen, 15, 10, 5))
	}
}

func lengthBonus(textLen, long, medium, short int) int {
	switch {
	case textLen > 500:
		return long
	case textLen > 200:
		return medium
	default:
		return short
	}
}

func currencyOf(f domain.ExtractedFields) string {
	if f.Currency != "" {
		return f.Currency
	}
	return domain.DefaultCurrency
}

func parseISODate(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

func matches(hint, lowerText string, cues []string) bool {
	return containsAny(hint, cues) || containsAny(lowerText, cues)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
