package conversation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------- package-level compiled regexes ----------

var (
	currencyAmountRE = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	groupedAmountRE  = regexp.MustCompile(`\b([0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]+)?)\b`)
	bareAmountRE     = regexp.MustCompile(`\b([0-9]{4,9}(?:\.[0-9]+)?)\b`)
	phoneRE          = regexp.MustCompile(`\b[0-9]{10}\b`)
	postalCodeRE     = regexp.MustCompile(`\b[0-9]{6}\b`)
	addressLeadInRE  = regexp.MustCompile(`(?i)(?:my address is|the address is|address is|address:)\s*(.+)`)
	streetAddressRE  = regexp.MustCompile(`(?i)\b\d+[\w/-]*\s+(?:[\p{L}.'-]+\s+){0,4}(?:street|st|road|rd|avenue|ave|lane|ln|drive|dr|boulevard|blvd|court|ct|circle|cir|nagar|colony|sector)\b[^,.!?]*`)
)

// ---------- property type patterns ----------

// propertyTypePatterns maps keyword variants to a normalized category.
// Ordered by specificity so "commercial property" never falls into the
// residential bucket via "property".
var propertyTypePatterns = []struct {
	pattern  string
	category string
}{
	{"residential", "residential"},
	{"home", "residential"},
	{"house", "residential"},
	{"commercial", "commercial"},
	{"business", "commercial"},
	{"office", "commercial"},
	{"vacant", "land"},
	{"land", "land"},
}

// serviceableCounties is the fixed list of counties the service operates in.
// Matches are case-insensitive substrings; the stored value is title-cased.
var serviceableCounties = []string{
	"harris", "travis", "dallas", "bexar", "tarrant",
	"collin", "denton", "fort bend", "montgomery", "williamson",
}

// serviceTypePatterns distinguishes an on-site property visit from an office
// consultation.
var serviceTypePatterns = []struct {
	pattern string
	service string
}{
	{"visit", ServicePropertyVisit},
	{"home", ServicePropertyVisit},
	{"property", ServicePropertyVisit},
	{"office", ServiceOfficeConsultation},
	{"consultation", ServiceOfficeConsultation},
}

// ---------- name extraction ----------

const nameWordPattern = `[\p{L}][\p{L}\p{M}'-]*`

var namePhrasePattern = nameWordPattern + `(?:\s+` + nameWordPattern + `){0,2}`

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is\s+(` + namePhrasePattern + `)`),
	regexp.MustCompile(`(?i)i am\s+(` + namePhrasePattern + `)(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)this is\s+(` + namePhrasePattern + `)`),
	regexp.MustCompile(`(?i)i'?m\s+(` + namePhrasePattern + `)(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)call me\s+(` + namePhrasePattern + `)`),
}

// commonWords filters tokens that follow a name lead-in but are not names
// ("i am looking for help" must not yield "Looking For Help").
var commonWords = map[string]bool{
	"the": true, "and": true, "for": true, "not": true, "you": true,
	"new": true, "here": true, "just": true, "like": true, "want": true,
	"need": true, "have": true, "interested": true, "looking": true,
	"calling": true, "writing": true, "reaching": true, "wondering": true,
	"asking": true, "checking": true, "getting": true, "trying": true,
	"going": true, "about": true, "with": true, "from": true, "this": true,
	"that": true, "what": true, "your": true, "sure": true, "okay": true,
	"yes": true, "no": true, "a": true, "an": true, "in": true, "on": true,
	"at": true, "to": true, "of": true, "is": true, "it": true, "my": true,
	"me": true, "so": true, "up": true, "very": true, "really": true,
	"unhappy": true, "happy": true, "upset": true, "confused": true,
}

// ---------- concern information slots ----------

// ExtractConcernInfo fills the property-type, county and assessment-amount
// slots from one message. A later match overwrites a previously filled slot;
// no match leaves the slot untouched. It never fails on malformed input.
func ExtractConcernInfo(c *Context, message string) {
	lower := strings.ToLower(message)

	for _, p := range propertyTypePatterns {
		if strings.Contains(lower, p.pattern) {
			c.PropertyType = p.category
			break
		}
	}

	for _, county := range serviceableCounties {
		if strings.Contains(lower, county) {
			c.County = titleCase(county)
			break
		}
	}

	if amount, ok := extractAmount(message); ok {
		c.AssessmentAmount = &amount
	}
}

// extractAmount finds the first currency-like token: $-prefixed, comma
// grouped, or a bare run of four or more digits. Parse failures report no
// match rather than an error.
func extractAmount(message string) (float64, bool) {
	var raw string
	if m := currencyAmountRE.FindStringSubmatch(message); len(m) > 1 {
		raw = m[1]
	} else if m := groupedAmountRE.FindStringSubmatch(message); len(m) > 1 {
		raw = m[1]
	} else if m := bareAmountRE.FindStringSubmatch(message); len(m) > 1 {
		raw = m[1]
	}
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ---------- booking slots ----------

// ExtractBookingDetails fills the booking slots (name, phone, postal code,
// service type, address) from one message. The preferred date is resolved
// separately by the date resolver since it needs the current time and
// business-rule validation.
func ExtractBookingDetails(c *Context, message string) {
	lower := strings.ToLower(message)

	if name := extractName(message); name != "" {
		c.CustomerName = name
	}
	stripped := message
	if phone := phoneRE.FindString(message); phone != "" {
		c.Phone = phone
		// Remove the phone run before postal matching so a 10-digit number is
		// never half-read as a 6-digit postal code.
		stripped = strings.Replace(message, phone, " ", 1)
	}
	if postal := postalCodeRE.FindString(stripped); postal != "" {
		c.PostalCode = postal
	}

	for _, p := range serviceTypePatterns {
		if strings.Contains(lower, p.pattern) {
			c.ServiceType = p.service
			break
		}
	}

	if c.ServiceType == ServicePropertyVisit {
		if addr := extractAddress(message); addr != "" {
			c.Address = addr
		}
	}
}

func extractName(message string) string {
	for _, pattern := range namePatterns {
		m := pattern.FindStringSubmatch(message)
		if len(m) < 2 {
			continue
		}
		if name := cleanNameWords(m[1]); name != "" {
			return name
		}
	}
	return ""
}

// cleanNameWords keeps up to three leading name-like words, capitalized.
func cleanNameWords(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	kept := make([]string, 0, 3)
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?\"'()-")
		if cleaned == "" || !looksLikeNameWord(cleaned) {
			break
		}
		kept = append(kept, capitalizeWord(cleaned))
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, " ")
}

func looksLikeNameWord(word string) bool {
	count := utf8.RuneCountInString(word)
	if count < 2 || count > 30 {
		return false
	}
	firstRune, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsLetter(firstRune) {
		return false
	}
	return !commonWords[strings.ToLower(word)]
}

func capitalizeWord(word string) string {
	firstRune, size := utf8.DecodeRuneInString(word)
	if firstRune == utf8.RuneError || size == 0 {
		return word
	}
	return strings.ToUpper(string(firstRune)) + strings.ToLower(word[size:])
}

func extractAddress(message string) string {
	if m := addressLeadInRE.FindStringSubmatch(message); len(m) > 1 {
		return strings.TrimSpace(strings.Trim(m[1], ".!?"))
	}
	if m := streetAddressRE.FindString(message); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " ")
}
