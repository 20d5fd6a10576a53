package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyQuestion = errors.New("question text required")
	ErrOptionCount   = fmt.Errorf("exactly %d options required", OptionCount)
	ErrEmptyOption   = errors.New("options must not be empty")
	ErrCorrectIndex  = fmt.Errorf("correctIndex must be in [0,%d]", OptionCount-1)
)

func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrEmptyQuestion
	}
	if len(q.Options) != OptionCount {
		return ErrOptionCount
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return ErrEmptyOption
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return ErrCorrectIndex
	}
	return nil
}

// ValidateAll reports the first invalid question, by position.
func ValidateAll(qs []Question) error {
	for i, q := range qs {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Complete reports whether the test has every field needed for upload.
func (t MockTest) Complete() bool {
	return strings.TrimSpace(t.Title) != "" &&
		strings.TrimSpace(t.Description) != "" &&
		t.Duration > 0 &&
		len(t.Questions) > 0
}

func (n Notification) Complete() bool {
	return strings.TrimSpace(n.Title) != "" &&
		strings.TrimSpace(n.Subject) != "" &&
		strings.TrimSpace(n.Date) != "" &&
		strings.TrimSpace(n.Description) != ""
}
