// Package knowledge holds the curated site knowledge the assistant answers from
// and renders it into the system prompt sent to the model provider.
package knowledge

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

var ErrNoContactPhone = errors.New("knowledge base has no main phone number")

type Institution struct {
	Name      string `yaml:"name"`
	Division  string `yaml:"division"`
	Location  string `yaml:"location"`
	Founded   int    `yaml:"founded"`
	MainPhone string `yaml:"main_phone"`
	MainFax   string `yaml:"main_fax"`
	MainEmail string `yaml:"main_email"`
	Website   string `yaml:"website"`
}

type OfficeHours struct {
	Regular string `yaml:"regular"`
	Weekend string `yaml:"weekend"`
	Note    string `yaml:"note"`
}

type Department struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Contact     string   `yaml:"contact"`
	Email       string   `yaml:"email"`
	Phone       string   `yaml:"phone"`
	Fax         string   `yaml:"fax"`
	Page        string   `yaml:"page"`
	Services    []string `yaml:"services"`
	Notes       []string `yaml:"notes"`
}

type Person struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Email string `yaml:"email"`
}

type Forms struct {
	Page       string   `yaml:"page"`
	Categories []string `yaml:"categories"`
}

type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type KnowledgeBase struct {
	Institution Institution  `yaml:"institution"`
	OfficeHours OfficeHours  `yaml:"office_hours"`
	Departments []Department `yaml:"departments"`
	Leadership  []Person     `yaml:"leadership"`
	Forms       Forms        `yaml:"forms"`
	QuickLinks  []Link       `yaml:"quick_links"`
}

// Load parses a YAML knowledge base.
func Load(data []byte) (KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return KnowledgeBase{}, fmt.Errorf("failed to unmarshal knowledge base: %w", err)
	}
	if kb.Institution.MainPhone == "" {
		return KnowledgeBase{}, ErrNoContactPhone
	}
	return kb, nil
}

// Default returns the knowledge base compiled into the binary.
func Default() (KnowledgeBase, error) {
	return Load(defaultKnowledge)
}

// ContactPhone is the number users are pointed to when the assistant cannot help.
func (kb KnowledgeBase) ContactPhone() string {
	return kb.Institution.MainPhone
}
