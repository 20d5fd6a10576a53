package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/mocktest-admin/internal/authoring"
	"github.com/mind-engage/mocktest-admin/internal/client"
	"github.com/mind-engage/mocktest-admin/internal/console"
	"github.com/mind-engage/mocktest-admin/internal/draft"
	"github.com/mind-engage/mocktest-admin/internal/quiz"
	"github.com/mind-engage/mocktest-admin/internal/storage"
)

type recorder struct {
	tests []quiz.MockTest
	notes []quiz.Notification
}

func (r *recorder) SubmitTest(_ context.Context, t quiz.MockTest) (string, error) {
	r.tests = append(r.tests, t)
	return "Test uploaded successfully!", nil
}

func (r *recorder) SubmitPracticeQuestions(_ context.Context, _, _ string, qs []quiz.Question) (client.PracticeReceipt, error) {
	return client.PracticeReceipt{Message: "ok", Uploaded: len(qs), Groups: 1}, nil
}

func (r *recorder) SubmitNotification(_ context.Context, n quiz.Notification) (string, error) {
	r.notes = append(r.notes, n)
	return "Notification uploaded successfully!", nil
}

func run(t *testing.T, st storage.BlobStore, rem *recorder, script ...string) (*draft.Session, string) {
	t.Helper()
	sess := draft.NewSession(st, "")
	var out bytes.Buffer
	c := console.New(authoring.NewController(sess, rem), &out)
	if err := c.Run(context.Background(), strings.NewReader(strings.Join(script, "\n")+"\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sess, out.String()
}

func TestAuthorAndSubmit(t *testing.T) {
	rem := &recorder{}
	sess, out := run(t, storage.NewMemStore(), rem,
		"", // blank step input is ignored
		"Geography",
		"Capitals of Europe",
		"twenty",
		"20",
		"Capital of France?", "Berlin", "Madrid", "Paris", "Rome", "3",
		"/list",
		"/submit",
	)
	if !strings.Contains(out, "Duration must be a whole number of minutes.") {
		t.Errorf("missing duration error in output:\n%s", out)
	}
	if !strings.Contains(out, "Q1: Capital of France?") {
		t.Errorf("missing list output:\n%s", out)
	}
	if !strings.Contains(out, "✅ Test uploaded successfully!") {
		t.Errorf("missing upload status:\n%s", out)
	}
	if len(rem.tests) != 1 {
		t.Fatalf("uploaded %d tests", len(rem.tests))
	}
	got := rem.tests[0]
	if got.Title != "Geography" || got.Duration != 20 || got.Questions[0].CorrectIndex != 2 {
		t.Fatalf("uploaded %+v", got)
	}
	if sess.Step() != 0 {
		t.Fatal("draft not reset after upload")
	}
}

func TestEditKeepsBlankFields(t *testing.T) {
	sess, _ := run(t, storage.NewMemStore(), &recorder{},
		"T", "D", "10",
		"Old text", "a", "b", "c", "d", "1",
		"/edit 1",
		"New text", "", "", "", "", "4",
	)
	qs := sess.Test().Questions
	if len(qs) != 1 || qs[0].Question != "New text" || qs[0].Options[0] != "a" || qs[0].CorrectIndex != 3 {
		t.Fatalf("questions %+v", qs)
	}
}

func TestPasteResumeAndReset(t *testing.T) {
	st := storage.NewMemStore()
	_, out := run(t, st, &recorder{},
		"T", "D",
		"/paste",
		"Q: What is 2+2?",
		"Option 1: 3", "Option 2: 4", "Option 3: 5", "Option 4: 6",
		"Correct option: 2",
		"/end",
		"/quit",
	)
	if !strings.Contains(out, "Added 1 question(s) from paste.") {
		t.Fatalf("paste status missing:\n%s", out)
	}

	// a new run picks the draft up at the duration step
	sess, out := run(t, st, &recorder{}, "/reset", "y")
	if !strings.Contains(out, "Restored your previous work.") || !strings.Contains(out, "Step 3/3 Duration (minutes)") {
		t.Fatalf("restore output:\n%s", out)
	}
	if !strings.Contains(out, "Form reset.") || sess.Step() != 0 || len(sess.Test().Questions) != 0 {
		t.Fatalf("reset failed:\n%s", out)
	}
}

func TestInvalidQuestionIsNotSaved(t *testing.T) {
	sess, out := run(t, storage.NewMemStore(), &recorder{},
		"T", "D", "10",
		"Q", "a", "", "c", "d", "2",
		"/submit",
	)
	if len(sess.Test().Questions) != 0 {
		t.Fatal("question with empty option was saved")
	}
	if !strings.Contains(out, "Question not saved") || !strings.Contains(out, "Please complete all fields") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestNotify(t *testing.T) {
	rem := &recorder{}
	_, out := run(t, storage.NewMemStore(), rem, "/notify", "Mock test", "Physics", "2026-11-02", "Chapter 3")
	if len(rem.notes) != 1 || rem.notes[0].Subject != "Physics" {
		t.Fatalf("notes %+v", rem.notes)
	}
	if !strings.Contains(out, "Notification uploaded successfully!") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestBlankLineKeepsRestoredValue(t *testing.T) {
	st := storage.NewMemStore()
	st.Put(draft.DefaultKey, strings.NewReader(`{"testData":{"title":"T","description":"draft desc","duration":0,"questions":[]},"currentStep":1}`))

	sess, out := run(t, st, &recorder{}, "", "30")
	if !strings.Contains(out, "Step 2/3 Description [draft desc]") {
		t.Fatalf("prompt missing restored value:\n%s", out)
	}
	if sess.Step() != 3 {
		t.Fatalf("step = %d, want 3", sess.Step())
	}
	if got := sess.Test(); got.Description != "draft desc" || got.Duration != 30 {
		t.Fatalf("draft %+v", got)
	}
}

func TestCancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	sess := draft.NewSession(storage.NewMemStore(), "")
	c := console.New(authoring.NewController(sess, &recorder{}), io.Discard)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx, pr) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked after cancel")
	}
	if sess.Step() != 0 {
		t.Fatal("input handled after cancel")
	}
}
