// Package receipt pulls an amount and line items out of noisy OCR text.
// Every function here is pure and total: bad input yields empty results.
package receipt

import (
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/spice-insight/internal/model"
)

// MaxItems caps how many line-item candidates are returned.
const MaxItems = 5

var (
	amountPattern = regexp.MustCompile(`\p{Nd}+\.\p{Nd}{2}`)
	totalPattern  = regexp.MustCompile(`(?i)\b(grand\s+)?total\b`)
)

// ExtractAmount returns the most likely grand total in text.
//
// Commas are read as decimal points and digits from any script are
// accepted. A line containing "total" takes precedence over the last-match
// rule: when such a line carries an amount, the last one on those lines
// wins. Otherwise the last currency-shaped token in the document does.
func ExtractAmount(text string) (float64, bool) {
	normalized := strings.ReplaceAll(text, ",", ".")

	var last, lastTotal string
	for line := range lines(normalized) {
		matches := amountPattern.FindAllString(line, -1)
		if len(matches) == 0 {
			continue
		}
		last = matches[len(matches)-1]
		if totalPattern.MatchString(line) {
			lastTotal = last
		}
	}

	token := last
	if lastTotal != "" {
		token = lastTotal
	}
	if token == "" {
		return 0, false
	}

	amount, err := strconv.ParseFloat(asciiDigits(token), 64)
	if err != nil || math.IsInf(amount, 0) {
		return 0, false
	}
	return math.Round(amount*100) / 100, true
}

// Candidates lazily yields trimmed, non-empty lines that look like line
// items: they mix digits and letters, or are digit-free with two or more
// words. Lines are only inspected as the consumer pulls.
func Candidates(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range lines(text) {
			line = strings.TrimSpace(line)
			if line == "" || !isItem(line) {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// ExtractLineItems returns the first MaxItems candidates in document order.
func ExtractLineItems(text string) []string {
	items := make([]string, 0, MaxItems)
	for item := range Candidates(text) {
		items = append(items, item)
		if len(items) == MaxItems {
			break
		}
	}
	return items
}

// Extract runs both extractors over OCR output.
func Extract(text string) model.Extraction {
	ext := model.Extraction{
		RawText: text,
		Items:   ExtractLineItems(text),
	}
	if amount, ok := ExtractAmount(text); ok {
		ext.Amount = &amount
	}
	return ext
}

func isItem(line string) bool {
	var hasDigit, hasLetter bool
	for _, r := range line {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	if hasDigit {
		return hasLetter
	}
	return len(strings.Fields(line)) >= 2
}

// asciiDigits rewrites decimal digits from any script as ASCII.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || !unicode.IsDigit(r) {
			return r
		}
		return '0' + digitValue(r)
	}, s)
}

// digitValue relies on Nd ranges always starting at a zero digit.
func digitValue(r rune) rune {
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10
		}
	}
	return 0
}

// lineBreaks are the separators OCR output may use, form feed included
// since tesseract ends every page with one.
const lineBreaks = "\r\n\v\f\x1c\x1d\x1e\u0085\u2028\u2029"

// lines splits on lineBreaks, treating \r\n as a single break.
func lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(text) > 0 {
			i := strings.IndexAny(text, lineBreaks)
			if i < 0 {
				yield(text)
				return
			}
			if !yield(text[:i]) {
				return
			}
			_, width := utf8.DecodeRuneInString(text[i:])
			if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				width++
			}
			text = text[i+width:]
		}
	}
}
