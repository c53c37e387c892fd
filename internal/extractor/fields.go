package extractor

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"hrdocs/internal/domain"
)

// ExtractFields pulls the fixed field schema out of approximated document
// text. For every field the rules are tried in order and the first match
// wins. It never fails: an internal fault or an empty text yields an empty
// set.
//
// The document type hint is accepted for callers that have one; field
// vocabularies are the same for every document type.
func ExtractFields(text, docTypeHint string) (fields domain.ExtractedFields) {
	defer func() {
		if r := recover(); r != nil {
			fields = domain.ExtractedFields{}
		}
	}()
	if strings.TrimSpace(text) == "" {
		return fields
	}

	fields.DocumentNumber = firstValue(documentNumberRules, text)
	if emp := firstValue(employeeNumberRules, text); emp != "" {
		fields.DocumentNumber = emp
	}
	fields.HolderID = firstValue(holderIDRules, text)
	fields.LicenseNumber = firstValue(licenseNumberRules, text)
	fields.CertificateNumber = firstValue(certificateNumberRules, text)

	fields.HolderName = firstLabel(holderNameRules, text)
	fields.Issuer = firstLabel(issuerRules, text)
	fields.SponsorName = firstLabel(sponsorNameRules, text)
	fields.SponsorID = firstValue(sponsorIDRules, text)
	fields.Institution = firstLabel(institutionRules, text)
	fields.CertificationBody = firstLabel(certificationBodyRules, text)

	fields.IssueDate = firstDate(issueDateRules, text)
	fields.StartDate = firstDate(startDateRules, text)
	fields.EndDate = firstDate(endDateRules, text)
	fields.ExpiryDate = firstDate(expiryDateRules, text)
	fields.DateOfBirth = firstDate(dateOfBirthRules, text)
	fields.CompletionDate = firstDate(completionDateRules, text)

	fields.Amount = firstMoney(amountRules, text)
	fields.Salary = firstMoney(salaryRules, text)
	fields.Currency = DetectCurrency(text)

	fields.Position = firstLabel(positionRules, text)
	fields.Department = firstLabel(departmentRules, text)
	fields.Nationality = firstLabel(nationalityRules, text)
	fields.PlaceOfBirth = firstLabel(placeOfBirthRules, text)
	fields.Gender = firstValue(genderRules, text)
	fields.BloodGroup = firstValue(bloodGroupRules, text)
	fields.Address = firstLabel(addressRules, text)
	fields.PhoneNumber = firstValue(phoneRules, text)
	fields.Email = firstValue(emailRules, text)
	fields.EmergencyContact = firstLabel(emergencyContactRules, text)
	fields.Profession = firstLabel(professionRules, text)
	fields.Qualification = firstLabel(qualificationRules, text)
	fields.Grade = firstLabel(gradeRules, text)
	fields.VisaType = firstLabel(visaTypeRules, text)
	fields.EntryPort = firstLabel(entryPortRules, text)

	return fields
}

// DetectCurrency returns the currency code named in the text. Without an
// explicit code it falls back to symbols in the order $, €, £ and the Arabic
// word for riyal.
func DetectCurrency(text string) string {
	if m := currencyCode.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	switch {
	case strings.Contains(text, "$"):
		return domain.CurrencyUSD
	case strings.Contains(text, "€"):
		return domain.CurrencyEUR
	case strings.Contains(text, "£"):
		return domain.CurrencyGBP
	case strings.Contains(text, "ريال"):
		return domain.CurrencySAR
	}
	return ""
}

func (r rule) find(text string, clean func(string) string) (string, bool) {
	for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		if r.notAfter != nil && r.notAfter[lastWord(text[:m[0]])] {
			continue
		}
		v := text[m[2]:m[3]]
		if r.wholeWords && m[3] < len(text) {
			if next, _ := utf8.DecodeRuneInString(text[m[3]:]); unicode.IsLetter(next) || unicode.IsNumber(next) {
				v = dropPartialWord(v)
			}
		}
		v = strings.TrimSpace(v)
		if clean != nil {
			v = clean(v)
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}

func firstMatch(rules []rule, text string, clean func(string) string) string {
	for _, r := range rules {
		if v, ok := r.find(text, clean); ok {
			return v
		}
	}
	return ""
}

func firstValue(rules []rule, text string) string {
	return firstMatch(rules, text, nil)
}

func firstLabel(rules []rule, text string) string {
	return firstMatch(rules, text, trimLabelTail)
}

// firstDate normalizes the first matching date token. A token that fails to
// normalize leaves the field empty.
func firstDate(rules []rule, text string) string {
	raw := firstValue(rules, text)
	if raw == "" {
		return ""
	}
	date, ok := NormalizeDate(raw)
	if !ok {
		return ""
	}
	return date
}

func firstMoney(rules []rule, text string) *float64 {
	raw := firstValue(rules, text)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// trimLabelTail cuts a label that follows the value on the same line, as in
// "Name: Ahmed Ali Position".
func trimLabelTail(v string) string {
	for i := 0; i < 3; i++ {
		loc := labelTail.FindStringIndex(v)
		if loc == nil {
			break
		}
		v = strings.TrimSpace(v[:loc[0]])
	}
	return strings.TrimRight(v, ",;")
}

func dropPartialWord(v string) string {
	i := strings.LastIndexFunc(v, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return v[:i]
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(fields[len(fields)-1], ".,;:"))
}
