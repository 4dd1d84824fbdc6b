package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voicefaq/internal/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		intent models.Intent
		want   models.Entities
	}{
		{"vegan menu", "What are your vegan options?", models.IntentMenuQuery, models.Entities{Diet: "vegan"}},
		{"upper case", "  VEGAN!!  ", models.IntentMenuQuery, models.Entities{Diet: "vegan"}},
		{"gluten free spaced", "anything gluten free", models.IntentMenuQuery, models.Entities{Diet: "gluten-free"}},
		{"gluten free hyphen", "Gluten-Free pasta?", models.IntentMenuQuery, models.Entities{Diet: "gluten-free"}},
		{"gluten free joined", "glutenfree bread", models.IntentMenuQuery, models.Entities{Diet: "gluten-free"}},
		{"gf", "is it gf", models.IntentOther, models.Entities{Diet: "gluten-free"}},
		{"vegetarian", "vegetarian dishes", models.IntentMenuQuery, models.Entities{Diet: "vegetarian"}},
		{"diet priority", "vegetarian or vegan food", models.IntentMenuQuery, models.Entities{Diet: "vegan"}},
		{"price", "How much is a latte", models.IntentOther, models.Entities{Info: models.InfoPrice}},
		{"cost", "what does it cost", models.IntentOther, models.Entities{Info: models.InfoPrice}},
		{"delivery faq", "Do you deliver to my area?", models.IntentOther, models.Entities{Service: models.ServiceDelivery}},
		{"delivery keyword", "is delivery available", models.IntentFAQQuery, models.Entities{Service: models.ServiceDelivery}},
		{"hours", "What are your hours?", models.IntentFAQQuery, models.Entities{}},
		{"open", "When do you open on Sunday", models.IntentFAQQuery, models.Entities{}},
		{"menu beats faq", "show me the menu, what hours are you open", models.IntentMenuQuery, models.Entities{}},
		{"substring ignored", "I love veganism and opening nights", models.IntentOther, models.Entities{}},
		{"empty", "", models.IntentOther, models.Entities{}},
		{"whitespace", " \t\n", models.IntentOther, models.Entities{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.want, got.Entities)
		})
	}
}

func TestExtractVeganWholeWordAnyCase(t *testing.T) {
	for _, text := range []string{"vegan", "Vegan?", "(VEGAN)", "is the soup vegan.", "vegan,please", "a VeGaN burger"} {
		got := Extract(text)
		assert.Equal(t, "vegan", got.Entities.Diet, text)
		assert.Equal(t, models.IntentMenuQuery, got.Intent, text)
	}
}

func TestExtractMenuAndFAQKeywordsPreferMenu(t *testing.T) {
	menu := []string{"menu", "options", "food", "drink", "vegan", "gluten-free", "vegetarian"}
	faq := []string{"open", "close", "hours", "location", "delivery", "reservation", "book"}

	for _, m := range menu {
		for _, f := range faq {
			assert.Equal(t, models.IntentMenuQuery, Extract(f+" "+m).Intent, f+" "+m)
		}
	}
}
