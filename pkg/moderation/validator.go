package moderation

import "fmt"

// Result is the outcome of validating a todo submission as a whole.
// Errors accumulate so a single call surfaces every problem at once.
type Result struct {
	Valid  bool
	Errors []string
}

// Validator composes Filter with structural checks on a decoded todo
// submission.
type Validator struct {
	filter *Filter
}

// NewValidator creates a validator backed by the given content filter.
func NewValidator(filter *Filter) *Validator {
	return &Validator{filter: filter}
}

// Validate checks a decoded JSON object describing a todo.
//
// Rules:
//   - a nil object is rejected outright with "Invalid data format"
//   - title is required, must be a non-empty string, and must pass the
//     content filter
//   - description is optional; non-empty strings run through the content
//     filter, non-string values are silently not validated
//   - completed is optional but must be a boolean when present
func (v *Validator) Validate(data map[string]any) Result {
	if data == nil {
		return Result{Valid: false, Errors: []string{"Invalid data format"}}
	}

	errors := make([]string, 0)

	title, ok := data["title"].(string)
	if !ok || title == "" {
		errors = append(errors, "Title is required and must be a string")
	} else if verdict := v.filter.Classify(title); !verdict.Valid {
		errors = append(errors, fmt.Sprintf("Title: %s", verdict.Reason))
	}

	if description, ok := data["description"].(string); ok && description != "" {
		if verdict := v.filter.Classify(description); !verdict.Valid {
			errors = append(errors, fmt.Sprintf("Description: %s", verdict.Reason))
		}
	}

	if completed, present := data["completed"]; present {
		if _, ok := completed.(bool); !ok {
			errors = append(errors, "Completed must be a boolean")
		}
	}

	return Result{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}
