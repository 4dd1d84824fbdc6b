package models

const MenuAll = "all"

const (
	FAQTopicHours    = "hours"
	FAQTopicDelivery = "delivery"
)

// KnowledgeBase is the static menu and canned FAQ content shared by all requests.
type KnowledgeBase struct {
	Menu map[string][]string `json:"menu" yaml:"menu"`
	FAQ  map[string]string   `json:"faq" yaml:"faq"`
}

// MenuItems returns the items listed under a diet category.
func (kb *KnowledgeBase) MenuItems(category string) []string {
	if kb == nil {
		return nil
	}
	return kb.Menu[category]
}

// Answer returns the canned FAQ answer for a topic.
func (kb *KnowledgeBase) Answer(topic string) (string, bool) {
	if kb == nil {
		return "", false
	}
	answer, ok := kb.FAQ[topic]
	return answer, ok
}

// FAQEntry is one row of a FAQ table.
type FAQEntry struct {
	Question string
	Answer   string
}

// SearchHit is a FAQ row position with its distance from the query.
type SearchHit struct {
	Row      int     `json:"row"`
	Distance float32 `json:"distance"`
}
