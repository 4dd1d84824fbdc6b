package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"voicefaq/internal/models"
)

// LoadKnowledgeBase reads the menu and canned FAQ answers from a JSON or
// YAML file. The menu must have an "all" category.
func LoadKnowledgeBase(path string) (*models.KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read knowledge base: %v", ErrDataLoad, err)
	}

	var kb models.KnowledgeBase
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&kb); err != nil {
			return nil, fmt.Errorf("%w: failed to parse knowledge base %s: %v", ErrDataLoad, path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&kb); err != nil {
			return nil, fmt.Errorf("%w: failed to parse knowledge base %s: %v", ErrDataLoad, path, err)
		}
	}

	if err := validateKnowledgeBase(&kb); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataLoad, path, err)
	}
	return &kb, nil
}

func validateKnowledgeBase(kb *models.KnowledgeBase) error {
	if kb.Menu == nil {
		return fmt.Errorf("missing %q section", "menu")
	}
	if _, ok := kb.Menu[models.MenuAll]; !ok {
		return fmt.Errorf("menu has no %q category", models.MenuAll)
	}
	for category, items := range kb.Menu {
		for i, item := range items {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("menu %q item %d is empty", category, i)
			}
		}
	}
	if kb.FAQ == nil {
		kb.FAQ = map[string]string{}
	}
	return nil
}
