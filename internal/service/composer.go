package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"voicefaq/internal/models"
)

const (
	deliveryFallback = "We offer delivery options. Please check our website."
	hoursFallback    = "We are open from 8 AM to 9 PM Monday-Saturday, 9 AM to 6 PM Sunday."
	priceStatement   = "The price of coffee is $3.50."
	clarifyRequest   = "Could you please clarify your request?"
	notUnderstood    = "Sorry, I didn’t understand that."

	supplementHeader = "\nYou might also find these helpful:\n"
	maxSupplements   = 2
)

// Compose renders the reply for an NLP result. Up to two usable FAQ matches
// are appended, in the order given, as a numbered list.
func Compose(nlp models.NLPResult, matches []string, kb *models.KnowledgeBase) (string, error) {
	if kb == nil {
		return "", ErrMissingKnowledgeBase
	}

	return mainResponse(nlp, kb) + supplement(matches), nil
}

func mainResponse(nlp models.NLPResult, kb *models.KnowledgeBase) string {
	switch nlp.Intent {
	case models.IntentMenuQuery:
		diet := nlp.Entities.Diet
		if diet == "" {
			return fmt.Sprintf("Our menu includes: %s.", strings.Join(kb.MenuItems(models.MenuAll), ", "))
		}
		if items := kb.MenuItems(diet); len(items) > 0 {
			return fmt.Sprintf("%s options: %s.", capitalize(diet), strings.Join(items, ", "))
		}
		return fmt.Sprintf("Sorry, we don’t currently have %s options.", diet)

	case models.IntentFAQQuery:
		if nlp.Entities.Service == models.ServiceDelivery {
			if answer, ok := kb.Answer(models.FAQTopicDelivery); ok {
				return answer
			}
			return deliveryFallback
		}
		if answer, ok := kb.Answer(models.FAQTopicHours); ok {
			return answer
		}
		return hoursFallback

	case models.IntentOther:
		if nlp.Entities.Info == models.InfoPrice {
			return priceStatement
		}
		return clarifyRequest
	}

	return notUnderstood
}

func supplement(matches []string) string {
	var kept []string
	for _, m := range matches {
		if !usableText(m) {
			continue
		}
		kept = append(kept, m)
		if len(kept) == maxSupplements {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}

	lines := make([]string, len(kept))
	for i, m := range kept {
		lines[i] = fmt.Sprintf("%d. %s", i+1, m)
	}
	return supplementHeader + strings.Join(lines, "\n")
}

// usableText reports whether s carries a real value: not blank and not the
// "nan" marker left by missing table cells.
func usableText(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return !strings.EqualFold(s, "nan")
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
