package quiz

// OptionCount is the fixed number of choices on every question.
const OptionCount = 4

// PracticeChunkSize is how many practice questions go into one stored group.
const PracticeChunkSize = 20

type Question struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// MockTest is both the authoring draft and the uploaded record.
type MockTest struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"` // minutes
	Questions   []Question `json:"questions"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

type Notification struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Date        string `json:"date"`
	Description string `json:"description"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

type PracticeUpload struct {
	Topic     string     `json:"topic"`
	Subtopic  string     `json:"subtopic"`
	Questions []Question `json:"questions"`
}

// PracticeGroup is one stored chunk of a topic/subtopic practice set.
type PracticeGroup struct {
	DocID     string     `json:"doc_id"` // questions1, questions2, ...
	Seq       int        `json:"seq"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"created_at"`
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// Clone returns a deep copy of the test.
func (t MockTest) Clone() MockTest {
	qs := make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		qs[i] = q.Clone()
	}
	t.Questions = qs
	return t
}
