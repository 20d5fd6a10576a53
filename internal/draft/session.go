package draft

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mind-engage/mocktest-admin/internal/quiz"
	"github.com/mind-engage/mocktest-admin/internal/storage"
)

// DefaultKey is where the snapshot lives in the durable store.
const DefaultKey = "mockTestData"

var (
	ErrNotANumber      = errors.New("value is not a whole number")
	ErrNotPositive     = errors.New("value must be greater than zero")
	ErrIndexOutOfRange = errors.New("question index out of range")
)

type StepKind string

const (
	KindText   StepKind = "text"
	KindNumber StepKind = "number"
)

// Step is one field of the fixed preamble.
type Step struct {
	Label string
	Field string // title|description|duration
	Kind  StepKind
}

// PreambleLen is the step index at which question entry begins.
const PreambleLen = 3

var Steps = [PreambleLen]Step{
	{Label: "Test Title", Field: "title", Kind: KindText},
	{Label: "Description", Field: "description", Kind: KindText},
	{Label: "Duration (minutes)", Field: "duration", Kind: KindNumber},
}

// Session owns one authoring draft and its cursor. It is not safe for
// concurrent use.
type Session struct {
	store storage.BlobStore
	key   string

	test    quiz.MockTest
	step    int
	editing int // -1 when no question is loaded
}

func NewSession(store storage.BlobStore, key string) *Session {
	if key == "" {
		key = DefaultKey
	}
	return &Session{store: store, key: key, editing: -1}
}

// AdvanceStep stores raw under the current preamble field and moves on.
// Blank input returns (false, nil) and changes nothing.
func (s *Session) AdvanceStep(raw string) (bool, error) {
	st, ok := s.CurrentStep()
	if !ok {
		return false, nil
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return false, nil
	}
	switch st.Kind {
	case KindNumber:
		n, err := strconv.Atoi(v)
		if err != nil {
			return false, ErrNotANumber
		}
		if n <= 0 {
			return false, ErrNotPositive
		}
		s.test.Duration = n
	default:
		if st.Field == "title" {
			s.test.Title = v
		} else {
			s.test.Description = v
		}
	}
	s.step++
	return true, s.Persist()
}

// SubmitQuestion appends q, or replaces the question loaded for edit.
// An invalid q is ignored and reported as (false, nil).
func (s *Session) SubmitQuestion(q quiz.Question) (bool, error) {
	if q.Validate() != nil {
		return false, nil
	}
	q = q.Clone()
	if s.editing >= 0 && s.editing < len(s.test.Questions) {
		s.test.Questions[s.editing] = q
	} else {
		s.test.Questions = append(s.test.Questions, q)
	}
	s.editing = -1
	return true, s.Persist()
}

func (s *Session) LoadQuestionForEdit(i int) (quiz.Question, error) {
	if i < 0 || i >= len(s.test.Questions) {
		return quiz.Question{}, ErrIndexOutOfRange
	}
	s.editing = i
	return s.test.Questions[i].Clone(), nil
}

func (s *Session) DeleteQuestion(i int) error {
	if i < 0 || i >= len(s.test.Questions) {
		return ErrIndexOutOfRange
	}
	s.test.Questions = append(s.test.Questions[:i], s.test.Questions[i+1:]...)
	s.editing = -1
	return s.Persist()
}

func (s *Session) CancelEdit() { s.editing = -1 }

// AppendQuestions adds parsed records in order, skipping any that fail
// validation, and returns how many were added.
func (s *Session) AppendQuestions(qs []quiz.Question) (int, error) {
	n := 0
	for _, q := range qs {
		if q.Validate() != nil {
			continue
		}
		s.test.Questions = append(s.test.Questions, q.Clone())
		n++
	}
	return n, s.Persist()
}

// Reset empties the draft and removes the stored snapshot.
func (s *Session) Reset() error {
	s.test = quiz.MockTest{}
	s.step = 0
	s.editing = -1
	return s.store.Delete(s.key)
}

func (s *Session) IsSubmittable() bool { return s.test.Complete() }

// Test returns a copy of the draft.
func (s *Session) Test() quiz.MockTest { return s.test.Clone() }

func (s *Session) Step() int { return s.step }

// CurrentStep returns the active preamble step, or false once the preamble
// is complete.
func (s *Session) CurrentStep() (Step, bool) {
	if s.step < 0 || s.step >= PreambleLen {
		return Step{}, false
	}
	return Steps[s.step], true
}

func (s *Session) InQuestionMode() bool { return s.step >= PreambleLen }

func (s *Session) Editing() (int, bool) { return s.editing, s.editing >= 0 }

// PendingValue is the value already stored for the active step, used to
// pre-fill the prompt after a restore.
func (s *Session) PendingValue() string {
	st, ok := s.CurrentStep()
	if !ok {
		return ""
	}
	switch st.Field {
	case "title":
		return s.test.Title
	case "description":
		return s.test.Description
	case "duration":
		if s.test.Duration > 0 {
			return strconv.Itoa(s.test.Duration)
		}
	}
	return ""
}
