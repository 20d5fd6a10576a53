package catalog

import (
	"context"
	"errors"

	"github.com/mind-engage/mocktest-admin/internal/quiz"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoQuestions  = errors.New("no questions to upload")
	ErrMissingTopic = errors.New("topic and subtopic required")
)

// PracticeResult describes one practice upload.
type PracticeResult struct {
	Uploaded int      `json:"uploaded"`
	Groups   int      `json:"groups"`
	DocIDs   []string `json:"doc_ids"`
}

type Store interface {
	PutMockTest(ctx context.Context, t quiz.MockTest) (quiz.MockTest, error)
	GetMockTest(ctx context.Context, id string) (quiz.MockTest, error)
	PutNotification(ctx context.Context, n quiz.Notification) (quiz.Notification, error)
	AppendPractice(ctx context.Context, topic, subtopic string, qs []quiz.Question) (PracticeResult, error)
	ListPractice(ctx context.Context, topic, subtopic string) ([]quiz.PracticeGroup, error)
}

// Chunk splits qs into consecutive groups of at most size.
func Chunk(qs []quiz.Question, size int) [][]quiz.Question {
	if size <= 0 {
		size = quiz.PracticeChunkSize
	}
	var out [][]quiz.Question
	for i := 0; i < len(qs); i += size {
		end := i + size
		if end > len(qs) {
			end = len(qs)
		}
		out = append(out, qs[i:end])
	}
	return out
}
