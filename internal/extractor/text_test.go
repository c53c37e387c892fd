package extractor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrdocs/internal/extractor"
)

func TestApproximateText_Empty(t *testing.T) {
	assert.Equal(t, "", extractor.ApproximateText(nil, "application/pdf"))
	assert.Equal(t, "", extractor.ApproximateText([]byte{}, "image/png"))
}

func TestApproximateText_PlainText(t *testing.T) {
	in := "Employee Number: EMP007 Name: Ahmed Ali Position: Engineer Start Date: 01/06/2023 Salary: SAR 12,000"
	assert.Equal(t, in, extractor.ApproximateText([]byte(in), "text/plain"))
}

func TestApproximateText_CollapsesWhitespace(t *testing.T) {
	got := extractor.ApproximateText([]byte("Passport   No:\n\n\tA1234567  "), "application/pdf")
	assert.Equal(t, "Passport No: A1234567", got)
}

func TestApproximateText_DropsBinaryNoise(t *testing.T) {
	data := []byte{0x00, 0x01, 0xFF}
	data = append(data, []byte("Nationality: Saudi")...)
	data = append(data, 0x00, 0x02, 'a', 'b', 0x00, 0x9C)
	data = append(data, []byte("Issued by: Jawazat")...)

	got := extractor.ApproximateText(data, "image/jpeg")
	assert.Equal(t, "Nationality: Saudi Issued by: Jawazat", got)
}

func TestApproximateText_KeepsArabic(t *testing.T) {
	got := extractor.ApproximateText([]byte("الاسم: أحمد علي"), "application/pdf")
	assert.Equal(t, "الاسم: أحمد علي", got)
}

func TestApproximateText_RescuesSplitLabels(t *testing.T) {
	// The newline survives in the raw stream, so the rescue pass sees the
	// label pair across it and appends it verbatim.
	data := []byte("Salary:\nSAR 9000")
	got := extractor.ApproximateText(data, "application/pdf")

	assert.True(t, strings.HasPrefix(got, "Salary: SAR 9000"))
	assert.Contains(t, got, "Salary:\nSAR 9000")
}
