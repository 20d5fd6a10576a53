package draft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mind-engage/mocktest-admin/internal/quiz"
	"github.com/mind-engage/mocktest-admin/internal/storage"
)

// snapshot is the durable form of a session. Edit state is not included.
type snapshot struct {
	TestData    *quiz.MockTest `json:"testData"`
	CurrentStep int            `json:"currentStep"`
}

func (s *Session) Persist() error {
	b, err := json.Marshal(snapshot{TestData: &s.test, CurrentStep: s.step})
	if err != nil {
		return err
	}
	if _, err := s.store.Put(s.key, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("persist draft: %w", err)
	}
	return nil
}

// Restore loads the stored snapshot. Missing or unusable data leaves the
// session empty and returns false.
func (s *Session) Restore() bool {
	rc, err := s.store.Get(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("draft: read snapshot %q: %v", s.key, err)
		}
		return false
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("draft: read snapshot %q: %v", s.key, err)
		return false
	}
	snap, err := decodeSnapshot(b)
	if err != nil {
		log.Printf("draft: ignoring saved draft %q: %v", s.key, err)
		return false
	}
	s.test = *snap.TestData
	s.step = snap.CurrentStep
	s.editing = -1
	return true
}

func decodeSnapshot(b []byte) (snapshot, error) {
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return snapshot{}, err
	}
	if snap.TestData == nil {
		return snapshot{}, errors.New("missing testData")
	}
	if snap.CurrentStep < 0 || snap.CurrentStep > PreambleLen {
		return snapshot{}, fmt.Errorf("currentStep %d out of range", snap.CurrentStep)
	}
	if err := preambleFilled(snap.TestData, snap.CurrentStep); err != nil {
		return snapshot{}, err
	}
	if err := quiz.ValidateAll(snap.TestData.Questions); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// preambleFilled checks that every step before step has a value.
func preambleFilled(t *quiz.MockTest, step int) error {
	for i := 0; i < step && i < PreambleLen; i++ {
		var empty bool
		switch Steps[i].Field {
		case "title":
			empty = strings.TrimSpace(t.Title) == ""
		case "description":
			empty = strings.TrimSpace(t.Description) == ""
		case "duration":
			empty = t.Duration <= 0
		}
		if empty {
			return fmt.Errorf("currentStep %d but %s is empty", step, Steps[i].Field)
		}
	}
	return nil
}
