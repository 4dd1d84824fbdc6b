package service

import (
	"regexp"
	"strings"

	"voicefaq/internal/models"
)

type dietRule struct {
	name    string
	pattern *regexp.Regexp
}

// Diet rules are evaluated in priority order, not by position in the text.
var dietRules = []dietRule{
	{name: "vegan", pattern: regexp.MustCompile(`\bvegan\b`)},
	{name: "gluten-free", pattern: regexp.MustCompile(`\b(gluten[- ]?free|gf)\b`)},
	{name: "vegetarian", pattern: regexp.MustCompile(`\bvegetarian\b`)},
}

var (
	infoPricePattern       = regexp.MustCompile(`\b(price|cost|how much)\b`)
	serviceDeliveryPattern = regexp.MustCompile(`\b(deliver|delivery|home service|shipping)\b`)

	menuKeywords = regexp.MustCompile(`\b(menu|options|food|drink|vegan|gluten[- ]?free|vegetarian)\b`)
	faqKeywords  = regexp.MustCompile(`\b(open|close|hours|location|delivery|reservation|book)\b`)
)

// Extract classifies a transcription into an intent and at most one value
// per entity slot. It never fails.
func Extract(text string) models.NLPResult {
	normalized := strings.ToLower(strings.TrimSpace(text))

	var entities models.Entities
	for _, rule := range dietRules {
		if rule.pattern.MatchString(normalized) {
			entities.Diet = rule.name
			break
		}
	}
	if infoPricePattern.MatchString(normalized) {
		entities.Info = models.InfoPrice
	}
	if serviceDeliveryPattern.MatchString(normalized) {
		entities.Service = models.ServiceDelivery
	}

	intent := models.IntentOther
	switch {
	case menuKeywords.MatchString(normalized):
		intent = models.IntentMenuQuery
	case faqKeywords.MatchString(normalized):
		intent = models.IntentFAQQuery
	}

	return models.NLPResult{Intent: intent, Entities: entities}
}
