package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// Action types accepted in a categories file
const (
	ActionTypeButton = "button"
	ActionTypeText   = "text"
)

// CategoriesFile is the YAML document naming the categories to register
//
//	categories:
//	  - id: chat
//	    actions:
//	      - id: like
//	        title: Like
//	      - id: reply
//	        type: text
//	        title: Reply
//	        button_title: Send
//	        placeholder: Type a reply
type CategoriesFile struct {
	Categories []CategoryEntry `yaml:"categories" validate:"dive"`
}

// CategoryEntry is one category of a categories file
type CategoryEntry struct {
	ID      string        `yaml:"id" validate:"required"`
	Actions []ActionEntry `yaml:"actions" validate:"dive"`
}

// ActionEntry is one action of a category
type ActionEntry struct {
	ID          string `yaml:"id" validate:"required"`
	Type        string `yaml:"type" validate:"omitempty,oneof=button text"`
	Title       string `yaml:"title" validate:"required"`
	ButtonTitle string `yaml:"button_title" validate:"required_if=Type text"`
	Placeholder string `yaml:"placeholder"`
}

// LoadCategories reads and validates a categories file. An empty path
// yields no categories.
func LoadCategories(filePath string) ([]notify.Category, error) {
	if filePath == "" {
		return nil, nil
	}
	data, err := readCategoriesFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseCategories(data, filePath)
}

// ParseCategories decodes categories from YAML data. filePath is used in errors.
func ParseCategories(data []byte, filePath string) ([]notify.Category, error) {
	if err := checkCategoriesSyntax(data, filePath); err != nil {
		return nil, err
	}
	var doc CategoriesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			return nil, &ValidationError{FilePath: filePath, Message: strings.Join(typeError.Errors, "; ")}
		}
		return nil, &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if err := categoryValidator().Struct(doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, &ValidationError{
				FilePath: filePath,
				Field:    fieldPath(fe.Namespace()),
				Message:  ruleMessage(fe),
			}
		}
		return nil, &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	categories := doc.toCategories()
	if err := notify.ValidateCategories(categories); err != nil {
		return nil, &ValidationError{FilePath: filePath, Field: "categories", Message: err.Error()}
	}
	return categories, nil
}

func (f CategoriesFile) toCategories() []notify.Category {
	categories := make([]notify.Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		actions := make([]notify.CategoryAction, 0, len(c.Actions))
		for _, a := range c.Actions {
			if a.Type == ActionTypeText {
				actions = append(actions, notify.NewTextInputAction(a.ID, a.Title, a.ButtonTitle, a.Placeholder))
				continue
			}
			actions = append(actions, notify.NewAction(a.ID, a.Title))
		}
		categories = append(categories, notify.NewCategory(c.ID, actions...))
	}
	return categories
}

// categoryValidator reports fields by their YAML names
func categoryValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath drops the root type name from a validator namespace
func fieldPath(namespace string) string {
	_, rest, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}
	return rest
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for text actions"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
