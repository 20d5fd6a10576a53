package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mocktest-admin/internal/quiz"
)

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) PutMockTest(ctx context.Context, t quiz.MockTest) (quiz.MockTest, error) {
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return quiz.MockTest{}, err
	}
	t.ID = uuid.NewString()
	t.CreatedAt = s.now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO mock_tests (id,title,description,duration,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.Title, t.Description, t.Duration, string(qj), t.CreatedAt)
	if err != nil {
		return quiz.MockTest{}, err
	}
	return t, nil
}

func (s *SQLStore) GetMockTest(ctx context.Context, id string) (quiz.MockTest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,duration,questions_json,created_at FROM mock_tests WHERE id=$1`, id)
	var t quiz.MockTest
	var qjson string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Duration, &qjson, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.MockTest{}, ErrNotFound
		}
		return quiz.MockTest{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return quiz.MockTest{}, err
	}
	return t, nil
}

func (s *SQLStore) PutNotification(ctx context.Context, n quiz.Notification) (quiz.Notification, error) {
	n.ID = uuid.NewString()
	n.CreatedAt = s.now().Unix()
	_, err := s.db.ExecContext(ctx, `INSERT INTO notifications (id,title,subject,date,description,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.Title, n.Subject, n.Date, n.Description, n.CreatedAt)
	if err != nil {
		return quiz.Notification{}, err
	}
	return n, nil
}

// AppendPractice stores qs in groups of quiz.PracticeChunkSize, numbered
// after the groups already stored for topic/subtopic. All groups are written
// in one transaction.
func (s *SQLStore) AppendPractice(ctx context.Context, topic, subtopic string, qs []quiz.Question) (PracticeResult, error) {
	if topic == "" || subtopic == "" {
		return PracticeResult{}, ErrMissingTopic
	}
	if len(qs) == 0 {
		return PracticeResult{}, ErrNoQuestions
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PracticeResult{}, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq),0) FROM practice_question_groups WHERE topic=$1 AND subtopic=$2`,
		topic, subtopic).Scan(&existing); err != nil {
		return PracticeResult{}, err
	}

	now := s.now().Unix()
	res := PracticeResult{Uploaded: len(qs)}
	for i, chunk := range Chunk(qs, quiz.PracticeChunkSize) {
		seq := existing + i + 1
		docID := fmt.Sprintf("questions%d", seq)
		cj, err := json.Marshal(chunk)
		if err != nil {
			return PracticeResult{}, err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO practice_question_groups (topic,subtopic,seq,doc_id,questions_json,created_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			topic, subtopic, seq, docID, string(cj), now); err != nil {
			return PracticeResult{}, err
		}
		res.DocIDs = append(res.DocIDs, docID)
	}
	if err := tx.Commit(); err != nil {
		return PracticeResult{}, err
	}
	res.Groups = len(res.DocIDs)
	return res, nil
}

func (s *SQLStore) ListPractice(ctx context.Context, topic, subtopic string) ([]quiz.PracticeGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_id,seq,questions_json,created_at FROM practice_question_groups
		WHERE topic=$1 AND subtopic=$2 ORDER BY seq`, topic, subtopic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []quiz.PracticeGroup{}
	for rows.Next() {
		var g quiz.PracticeGroup
		var qjson string
		if err := rows.Scan(&g.DocID, &g.Seq, &qjson, &g.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(qjson), &g.Questions); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
