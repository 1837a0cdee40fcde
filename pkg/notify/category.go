package notify

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ActionType distinguishes plain buttons from text-input actions
type ActionType int

const (
	// ActionButton is a plain button
	ActionButton ActionType = iota
	// ActionTextInput asks the user for a text reply
	ActionTextInput
)

// String returns the action type name
func (t ActionType) String() string {
	switch t {
	case ActionButton:
		return "button"
	case ActionTextInput:
		return "text_input"
	default:
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
}

// CategoryAction is one button offered by a category
type CategoryAction struct {
	Type       ActionType
	Identifier string `validate:"required"`
	Title      string `validate:"required"`

	// InputButtonTitle and InputPlaceholder apply to text-input actions only
	InputButtonTitle string
	InputPlaceholder string
}

// NewAction returns a plain button action
func NewAction(identifier, title string) CategoryAction {
	return CategoryAction{Type: ActionButton, Identifier: identifier, Title: title}
}

// NewTextInputAction returns an action that collects a text reply
func NewTextInputAction(identifier, title, inputButtonTitle, inputPlaceholder string) CategoryAction {
	return CategoryAction{
		Type:             ActionTextInput,
		Identifier:       identifier,
		Title:            title,
		InputButtonTitle: inputButtonTitle,
		InputPlaceholder: inputPlaceholder,
	}
}

// Category is a named set of actions a notification can reference by CategoryID
type Category struct {
	Identifier string           `validate:"required"`
	Actions    []CategoryAction `validate:"dive"`
}

// NewCategory returns a category with the given actions in display order
func NewCategory(identifier string, actions ...CategoryAction) Category {
	return Category{Identifier: identifier, Actions: actions}
}

// ValidateCategories checks every category and action against its
// validate tags and that category identifiers are unique within one
// registration
func ValidateCategories(categories []Category) error {
	if err := validate.Var(categories, "dive"); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrInvalidCategory, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, ok := seen[c.Identifier]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Identifier)
		}
		seen[c.Identifier] = struct{}{}
	}
	return nil
}
