package service

import (
	"strings"
	"unicode"

	"github.com/Dan9191/debtwatch-service/internal/models"
)

var riskTokens = map[string]models.RiskLevel{
	"low":      models.RiskLow,
	"rendah":   models.RiskLow,
	"medium":   models.RiskMedium,
	"moderate": models.RiskMedium,
	"sedang":   models.RiskMedium,
	"menengah": models.RiskMedium,
	"high":     models.RiskHigh,
	"tinggi":   models.RiskHigh,
}

// label phrases longer than this are treated as prose, not a label
const maxLabelWords = 3

// Classify parses a "<Label>: <Explanation>" reply. It never fails: anything it cannot
// read becomes RiskUnknown with the whole reply as the explanation.
func Classify(raw string) models.RiskAssessment {
	text := strings.TrimSpace(raw)
	unknown := models.RiskAssessment{RiskLevel: models.RiskUnknown, Explanation: text}

	labelPart, explanation, found := strings.Cut(text, ":")
	if !found {
		return unknown
	}

	level, ok := parseRiskLabel(labelPart)
	if !ok {
		return unknown
	}
	return models.RiskAssessment{
		RiskLevel:   level,
		Explanation: trimClosingEmphasis(strings.TrimSpace(labelPart), strings.TrimSpace(explanation)),
	}
}

func isEmphasis(r rune) bool {
	return r == '*' || r == '_'
}

// trimClosingEmphasis drops markers that close an emphasized label written as
// "**Tinggi:** ...". Emphasis inside the explanation itself is kept.
func trimClosingEmphasis(label, explanation string) string {
	opening := label[:len(label)-len(strings.TrimLeftFunc(label, isEmphasis))]
	if opening == "" || strings.HasSuffix(label, opening) {
		return explanation
	}
	return strings.TrimSpace(strings.TrimPrefix(explanation, opening))
}

// parseRiskLabel accepts a bare token ("Tinggi") or a short phrase holding exactly one
// kind of token ("Risiko Tinggi", "**High risk**").
func parseRiskLabel(fragment string) (models.RiskLevel, bool) {
	words := strings.FieldsFunc(strings.ToLower(fragment), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 || len(words) > maxLabelWords {
		return "", false
	}

	var level models.RiskLevel
	for _, word := range words {
		candidate, ok := riskTokens[word]
		if !ok {
			continue
		}
		if level != "" && level != candidate {
			return "", false
		}
		level = candidate
	}
	return level, level != ""
}
