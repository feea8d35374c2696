package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

type ITextService interface {
	Fold(input string) string
	NormalizeCode(raw interface{}) string
	SplitCodes(input string) []string
	Highlight(input, query, open, close string) string
}

type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

// Fold trims and case-folds input for case-insensitive comparisons.
func (ts *TextService) Fold(input string) string {
	return cases.Fold().String(strings.TrimSpace(input))
}

// NormalizeCode turns a product code of any JSON type into its canonical string.
// 1234, "1234" and " 1234 " all give "1234".
func (ts *TextService) NormalizeCode(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%.0f", v))
	case json.Number:
		// Exact decimal: big numeric codes must not collapse through float64.
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d.String()
		}
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// SplitCodes splits a comma separated list of codes, folding each one and dropping blanks.
func (ts *TextService) SplitCodes(input string) []string {
	parts := strings.Split(input, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		if code := ts.Fold(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// Highlight wraps every case-insensitive occurrence of query in open/close.
func (ts *TextService) Highlight(input, query, open, close string) string {
	query = strings.TrimSpace(query)
	if input == "" || query == "" {
		return input
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	return re.ReplaceAllStringFunc(input, func(match string) string {
		return open + match + close
	})
}
