package extractor

import (
	"regexp"
	"strings"

	"hrdocs/internal/domain"
)

// boundary stands in for \b, which RE2 only defines for ASCII word characters.
const boundary = `(?:^|[^\p{L}\p{N}])`

const (
	labelSep  = `\s*[:：]\s*`
	optSep    = `\s*[:：#]?\s*`
	idSep     = `\s*[:：#]\s*`
	textValue = `([^\n:：]{1,100})`
	idValue   = `([A-Z0-9][A-Z0-9/-]*\d[A-Z0-9/-]*)`
	numValue  = `(\d[\d,]*(?:\.\d+)?)`
	dateValue = `(\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}|\d{1,2}\s+[A-Za-z]{3,9}\.?\s+\d{4})`
	curPrefix = `(?:(?:SAR|SR|USD|EUR|GBP|AED|\$|€|£)\s*)?`
)

// rule is one candidate pattern for a field. The first capture group holds
// the value.
type rule struct {
	re *regexp.Regexp
	// notAfter lists lower-cased words that must not directly precede the
	// match, e.g. "sponsor" before a bare "name" label.
	notAfter map[string]bool
	// wholeWords drops a trailing partial word when the capture stopped at
	// its length limit.
	wholeWords bool
}

func newRule(expr string, notAfter ...string) rule {
	r := rule{re: regexp.MustCompile(expr)}
	if len(notAfter) > 0 {
		r.notAfter = make(map[string]bool, len(notAfter))
		for _, w := range notAfter {
			r.notAfter[w] = true
		}
	}
	return r
}

// labelVocabulary collects every label cue so values can be cut where the
// next label starts.
var labelVocabulary []string

func cue(c string) string {
	labelVocabulary = append(labelVocabulary, c)
	return c
}

func labelRule(c string, notAfter ...string) rule {
	r := newRule(`(?i)`+boundary+`(?:`+cue(c)+`)`+labelSep+textValue, notAfter...)
	r.wholeWords = true
	return r
}

func idRule(c string) rule {
	return newRule(`(?i)` + boundary + `(?:` + cue(c) + `)` + optSep + idValue)
}

// labelledIDRule requires an explicit separator between label and value.
func labelledIDRule(c string) rule {
	return newRule(`(?i)` + boundary + `(?:` + cue(c) + `)` + idSep + idValue)
}

func dateRule(c string) rule {
	return newRule(`(?i)` + boundary + `(?:` + cue(c) + `)` + optSep + dateValue)
}

func moneyRule(c, suffix string) rule {
	return newRule(`(?i)` + boundary + `(?:` + cue(c) + `)` + optSep + curPrefix + numValue + suffix)
}

func labelRules(cues ...string) []rule {
	out := make([]rule, len(cues))
	for i, c := range cues {
		out[i] = labelRule(c)
	}
	return out
}

func idRules(cues ...string) []rule {
	out := make([]rule, len(cues))
	for i, c := range cues {
		out[i] = idRule(c)
	}
	return out
}

func dateRules(cues ...string) []rule {
	out := make([]rule, len(cues))
	for i, c := range cues {
		out[i] = dateRule(c)
	}
	return out
}

// Identifiers.
var (
	documentNumberRules = append(idRules(
		`(?:document|doc|passport|iqama|visa|permit|contract|reference|ref|serial)\s*(?:number|no\.?|#)`,
		`رقم\s+(?:الوثيقة|الجواز|الإقامة|الاقامة|التأشيرة|العقد|المستند)`,
	), newRule(`\b([A-Z]{1,3}\d{6,9})\b`))

	// These override documentNumber, so they only fire on "label: value".
	employeeNumberRules = []rule{
		labelledIDRule(`employee\s*(?:number|no\.?|id|#)|emp\.?\s*(?:no\.?|id)`),
		labelledIDRule(`الرقم\s+الوظيفي|رقم\s+الموظف`),
	}

	holderIDRules = append(idRules(
		`national\s+id|id\s+number|id\s+no\.?|identity\s+number|civil\s+id|border\s+number`,
		`رقم\s+الهوية|الهوية\s+الوطنية|رقم\s+الحدود|السجل\s+المدني`,
	), newRule(`\b([12]\d{9})\b`))

	licenseNumberRules = idRules(
		`(?:license|licence)\s*(?:number|no\.?|#)`,
		`رقم\s+(?:الرخصة|الترخيص)`,
	)

	certificateNumberRules = idRules(
		`(?:certificate|cert\.?)\s*(?:number|no\.?|#)`,
		`رقم\s+الشهادة`,
	)

	sponsorIDRules = idRules(
		`sponsor\s*(?:id|number|no\.?)`,
		`رقم\s+الكفيل`,
	)
)

// Names and organisations.
var (
	holderNameRules = []rule{
		labelRule(`employee\s+name|full\s+name|holder\s+name|name\s+of\s+holder|name\s+in\s+full`),
		labelRule(`name`, "sponsor", "company", "employer", "father", "mother", "institution", "bank", "user", "file", "school", "university"),
		labelRule(`الاسم\s+الكامل|اسم\s+الموظف|اسم\s+حامل\s+الوثيقة|الاسم`),
	}

	issuerRules = labelRules(
		`issued\s+by|issuing\s+authority|issuing\s+office|place\s+of\s+issue|issuer|authority`,
		`جهة\s+(?:الإصدار|الاصدار)|مصدر\s+الوثيقة|صادرة\s+من|مكان\s+الإصدار`,
	)

	sponsorNameRules = labelRules(
		`sponsor\s+name|sponsor|employer\s+name|employer`,
		`اسم\s+الكفيل|الكفيل|صاحب\s+العمل`,
	)

	institutionRules = labelRules(
		`(?:institution|university|college|institute|school)(?:\s+name)?`,
		`الجامعة|المؤسسة\s+التعليمية|الكلية|المعهد`,
	)

	certificationBodyRules = labelRules(
		`certification\s+body|certifying\s+body|awarding\s+body|certified\s+by|accredited\s+by`,
		`جهة\s+الاعتماد|الجهة\s+المانحة`,
	)
)

// Dates.
var (
	issueDateRules = dateRules(
		`issue\s+date|date\s+of\s+issue|issued\s+on|issued`,
		`تاريخ\s+(?:الإصدار|الاصدار)`,
	)
	startDateRules = dateRules(
		`start\s+date|commencement\s+date|joining\s+date|date\s+of\s+joining|effective\s+date|contract\s+start`,
		`تاريخ\s+(?:البدء|المباشرة|بداية\s+العقد)`,
	)
	endDateRules = dateRules(
		`end\s+date|termination\s+date|contract\s+end|completion\s+of\s+contract`,
		`تاريخ\s+(?:الانتهاء|نهاية\s+العقد)`,
	)
	expiryDateRules = dateRules(
		`expiry\s+date|expiration\s+date|date\s+of\s+expiry|expires\s+on|valid\s+until|valid\s+till|expiry`,
		`تاريخ\s+(?:الانتهاء|الصلاحية)|ينتهي\s+في`,
	)
	dateOfBirthRules = dateRules(
		`date\s+of\s+birth|birth\s+date|d\.?o\.?b\.?|born\s+on`,
		`تاريخ\s+الميلاد`,
	)
	completionDateRules = dateRules(
		`completion\s+date|date\s+of\s+completion|graduation\s+date|completed\s+on`,
		`تاريخ\s+(?:التخرج|الإكمال|الاكمال)`,
	)
)

// Money.
var (
	amountRules = []rule{
		moneyRule(`total\s+amount|amount\s+due|amount|payment|fees?|total`, ``),
		moneyRule(`المبلغ|الرسوم|المجموع|الإجمالي|الاجمالي`, ``),
	}
	salaryRules = []rule{
		moneyRule(`basic\s+salary|monthly\s+salary|salary|wages?|compensation|remuneration`, `(?:\s*(?:SAR|SR|riyals?))?(?:\s*(?:monthly|per\s+month|/\s*month))?`),
		moneyRule(`الراتب\s+(?:الأساسي|الاساسي)|الراتب|الأجر|الاجر`, `(?:\s*ريال)?(?:\s*شهريا?ً?)?`),
	}
	currencyCode = regexp.MustCompile(`(?i)\b(` + strings.Join(domain.CurrencyCodes, "|") + `)\b`)
)

// Employment and demographic attributes.
var (
	positionRules = labelRules(
		`position|job\s+title|designation`,
		`المسمى\s+الوظيفي|الوظيفة|المنصب`,
	)
	departmentRules = labelRules(
		`department|dept\.?|division`,
		`القسم|الإدارة|الادارة`,
	)
	nationalityRules = labelRules(
		`nationality|citizenship`,
		`الجنسية`,
	)
	placeOfBirthRules = labelRules(
		`place\s+of\s+birth|birth\s+place|birthplace`,
		`مكان\s+الميلاد|محل\s+الميلاد`,
	)
	genderRules = []rule{
		newRule(`(?i)` + boundary + `(?:` + cue(`gender|sex`) + `)` + optSep + `(male|female|m|f)\b`),
		newRule(`(?:` + cue(`الجنس`) + `)` + optSep + `(ذكر|أنثى|انثى)`),
	}
	bloodGroupRules = []rule{
		newRule(`(?i)` + boundary + `(?:` + cue(`blood\s+group|blood\s+type`) + `)` + optSep + `((?:AB|A|B|O)(?:\s*(?:positive|negative|\+|-))?)`),
		newRule(`(?:` + cue(`فصيلة\s+الدم`) + `)` + optSep + `((?:AB|A|B|O)\s*[+-]?)`),
	}
	addressRules = labelRules(
		`home\s+address|residential\s+address|address`,
		`العنوان`,
	)
	// Emergency contact numbers belong to emergencyContact only.
	phoneRules = []rule{
		newRule(`(?i)`+boundary+`(?:`+cue(`(?:phone|mobile|tel|telephone|contact)(?:\s*(?:number|no\.?))?`)+`)`+optSep+`(\+?\d[\d -]{6,18}\d)`, "emergency"),
		newRule(`(?:` + cue(`رقم\s+الجوال|رقم\s+الهاتف|الجوال|الهاتف`) + `)` + optSep + `(\+?\d[\d -]{6,18}\d)`),
		newRule(`(\+966[\s-]?\d[\d -]{7,12}\d|\b05\d{8}\b)`, "emergency", "contact", "number", "no", "الطوارئ"),
	}
	emailRules = []rule{
		newRule(`([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`),
	}
	emergencyContactRules = labelRules(
		`emergency\s+contact(?:\s+number)?|in\s+case\s+of\s+emergency`,
		`جهة\s+الاتصال\s+في\s+الطوارئ|رقم\s+الطوارئ|الطوارئ`,
	)
	professionRules = labelRules(
		`profession|occupation`,
		`المهنة`,
	)
	qualificationRules = labelRules(
		`qualification|degree|major|speciali[sz]ation`,
		`المؤهل\s+العلمي|المؤهل|التخصص|الدرجة\s+العلمية`,
	)
	gradeRules = labelRules(
		`grade|c?gpa|rating`,
		`التقدير|المعدل`,
	)
	visaTypeRules = labelRules(
		`visa\s+type|type\s+of\s+visa|visa\s+category`,
		`نوع\s+(?:التأشيرة|التاشيرة)`,
	)
	entryPortRules = labelRules(
		`port\s+of\s+entry|entry\s+port|point\s+of\s+entry|place\s+of\s+entry`,
		`منفذ\s+الدخول|ميناء\s+الدخول`,
	)
)

// labelTail matches a known label sitting at the end of a captured value,
// which happens when the next label follows on the same line.
var labelTail *regexp.Regexp

// init runs after every rule table above has registered its cues.
func init() {
	labelTail = regexp.MustCompile(`(?i)(?:^|\s)(?:` + strings.Join(labelVocabulary, "|") + `)\s*$`)
}
