package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// printable ASCII, the Arabic block, or whitespace, at least 3 in a row
	printableRun  = regexp.MustCompile(`[\x20-\x7E\x{0600}-\x{06FF}\s]{3,}`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^\x20-\x7E\x{0600}-\x{06FF}\s]`)
)

// rescuePatterns recover labelled key/value pairs that binary noise may have
// split across printable runs.
var rescuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Employee\s*(?:Number|No\.?|ID)\s*[:：]\s*[A-Z0-9-]+`),
	regexp.MustCompile(`(?i)(?:Employee\s+|Full\s+)?Name\s*[:：]\s*[A-Z][A-Z .'-]{1,60}`),
	regexp.MustCompile(`(?i)(?:Position|Job\s+Title)\s*[:：]\s*[A-Z][A-Z .&-]{1,60}`),
	regexp.MustCompile(`(?i)Salary\s*[:：]\s*(?:SAR|SR|USD|EUR|GBP|AED)?\s*\d[\d,]*(?:\.\d+)?`),
	regexp.MustCompile(`(?i)(?:Start|End|Issue|Expiry)\s+Date\s*[:：]\s*\d{1,4}[/-]\d{1,2}[/-]\d{1,4}`),
	regexp.MustCompile(`(?:الاسم|اسم\s+الموظف)\s*[:：]\s*[\x{0600}-\x{06FF} ]{2,60}`),
	regexp.MustCompile(`(?:المسمى\s+الوظيفي|الوظيفة)\s*[:：]\s*[\x{0600}-\x{06FF} ]{2,60}`),
	regexp.MustCompile(`الراتب\s*[:：]\s*\d[\d,]*(?:\.\d+)?`),
	regexp.MustCompile(`تاريخ\s+(?:البدء|الانتهاء|الميلاد|الإصدار)\s*[:：]\s*\d{1,4}[/-]\d{1,2}[/-]\d{1,4}`),
}

// ApproximateText turns an arbitrary byte buffer into best-effort plain text by
// scanning for printable runs. It is not OCR and never fails: on any internal
// fault it returns "". The mime type is accepted for symmetry with callers; the
// scan is format-agnostic.
func ApproximateText(data []byte, mimeType string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	if len(data) == 0 {
		return ""
	}

	raw := decodeBytes(data)

	runs := printableRun.FindAllString(raw, -1)
	candidate := strings.Join(runs, " ")
	candidate = whitespaceRun.ReplaceAllString(candidate, " ")
	candidate = disallowed.ReplaceAllString(candidate, "")
	candidate = strings.TrimSpace(candidate)

	var b strings.Builder
	b.WriteString(candidate)
	for _, re := range rescuePatterns {
		for _, m := range re.FindAllString(raw, -1) {
			if strings.Contains(b.String(), m) {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(m)
		}
	}
	return b.String()
}

// decodeBytes maps each byte to one character. Buffers that are valid UTF-8
// are decoded as UTF-8 so Arabic text survives; ASCII decodes identically
// either way.
func decodeBytes(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, c := range data {
		runes[i] = rune(c)
	}
	return string(runes)
}
