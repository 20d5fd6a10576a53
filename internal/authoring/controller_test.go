package authoring_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mind-engage/mocktest-admin/internal/authoring"
	"github.com/mind-engage/mocktest-admin/internal/client"
	"github.com/mind-engage/mocktest-admin/internal/draft"
	"github.com/mind-engage/mocktest-admin/internal/quiz"
	"github.com/mind-engage/mocktest-admin/internal/storage"
)

type fakeRemote struct {
	err        error
	tests      []quiz.MockTest
	practice   []quiz.PracticeUpload
	notes      []quiz.Notification
	testMsg    string
	receiptMsg string
}

func (f *fakeRemote) SubmitTest(_ context.Context, t quiz.MockTest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.tests = append(f.tests, t)
	return f.testMsg, nil
}

func (f *fakeRemote) SubmitPracticeQuestions(_ context.Context, topic, subtopic string, qs []quiz.Question) (client.PracticeReceipt, error) {
	if f.err != nil {
		return client.PracticeReceipt{}, f.err
	}
	f.practice = append(f.practice, quiz.PracticeUpload{Topic: topic, Subtopic: subtopic, Questions: qs})
	return client.PracticeReceipt{Message: f.receiptMsg, Uploaded: len(qs), Groups: 1}, nil
}

func (f *fakeRemote) SubmitNotification(_ context.Context, n quiz.Notification) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.notes = append(f.notes, n)
	return "Notification uploaded successfully!", nil
}

const paste = `Q: What is 2+2?
Option 1: 3
Option 2: 4
Option 3: 5
Option 4: 6
Correct option: 2
Q: Broken block
Option 1: only one`

func setup(t *testing.T) (*authoring.Controller, *fakeRemote, *storage.MemStore) {
	t.Helper()
	st := storage.NewMemStore()
	remote := &fakeRemote{testMsg: "Test uploaded successfully!", receiptMsg: "Uploaded 1 questions in 1 document(s)!"}
	return authoring.NewController(draft.NewSession(st, ""), remote), remote, st
}

func fillPreamble(c *authoring.Controller) {
	c.AdvanceStep("Arithmetic")
	c.AdvanceStep("Warm-up quiz")
	c.AdvanceStep("15")
}

func TestStartReportsRestore(t *testing.T) {
	c, _, st := setup(t)
	if s := c.Start(); s.Level != authoring.LevelNone {
		t.Fatalf("fresh start status %+v", s)
	}
	fillPreamble(c)

	again := authoring.NewController(draft.NewSession(st, ""), &fakeRemote{})
	if s := again.Start(); s.Text != "Restored your previous work." {
		t.Fatalf("status %+v", s)
	}
	if !again.Session().InQuestionMode() {
		t.Fatal("restored session lost its step")
	}
}

func TestAdvanceStepDurationMessages(t *testing.T) {
	c, _, _ := setup(t)
	c.AdvanceStep("T")
	c.AdvanceStep("D")
	if s := c.AdvanceStep("abc"); s.Level != authoring.LevelFailure || s.Text != "Duration must be a whole number of minutes." {
		t.Fatalf("status %+v", s)
	}
	if s := c.AdvanceStep("-5"); s.Text != "Duration must be greater than zero." {
		t.Fatalf("status %+v", s)
	}
	if s := c.AdvanceStep(""); s.Level != authoring.LevelNone {
		t.Fatalf("blank input should be silent, got %+v", s)
	}
}

func TestQuestionCommands(t *testing.T) {
	c, _, _ := setup(t)
	fillPreamble(c)

	if s := c.SubmitQuestion("", []string{"a", "b", "c", "d"}, 0); s.Level != authoring.LevelNone {
		t.Fatalf("invalid question should be silent, got %+v", s)
	}
	if s := c.SubmitQuestion("First", []string{"a", "b", "c", "d"}, 0); s.Text != "Question 1 added." {
		t.Fatalf("status %+v", s)
	}
	q, s := c.LoadQuestionForEdit(0)
	if q.Question != "First" || s.Level != authoring.LevelInfo {
		t.Fatalf("load = %+v, %+v", q, s)
	}
	if s := c.SubmitQuestion("First (edited)", q.Options, 2); s.Text != "Question updated." {
		t.Fatalf("status %+v", s)
	}
	if _, s := c.LoadQuestionForEdit(5); s.Text != "No question 6." {
		t.Fatalf("status %+v", s)
	}
	if s := c.DeleteQuestion(0); s.Text != "Question deleted." {
		t.Fatalf("status %+v", s)
	}
	if s := c.DeleteQuestion(0); s.Level != authoring.LevelFailure {
		t.Fatalf("deleting from empty list: %+v", s)
	}
}

func TestParseBulkTextSummarises(t *testing.T) {
	c, _, _ := setup(t)
	s := c.ParseBulkText(paste)
	if s.Text != "Added 1 question(s) from paste, skipped 1 block(s)." {
		t.Fatalf("status %+v", s)
	}
	if n := len(c.Session().Test().Questions); n != 1 {
		t.Fatalf("draft has %d questions", n)
	}
	if s := c.ParseBulkText("nothing to see"); s.Text != "Added 0 question(s) from paste." {
		t.Fatalf("status %+v", s)
	}
}

func TestSubmitRemoteRequiresCompleteDraft(t *testing.T) {
	c, remote, _ := setup(t)
	fillPreamble(c)
	if s := c.SubmitRemote(context.Background()); s.Text != "Please complete all fields and add at least one question." {
		t.Fatalf("status %+v", s)
	}
	if len(remote.tests) != 0 {
		t.Fatal("incomplete draft was sent")
	}
}

func TestSubmitRemoteSuccessResets(t *testing.T) {
	c, remote, st := setup(t)
	fillPreamble(c)
	c.ParseBulkText(paste)

	s := c.SubmitRemote(context.Background())
	if s.Level != authoring.LevelSuccess || s.Text != "Test uploaded successfully!" {
		t.Fatalf("status %+v", s)
	}
	if len(remote.tests) != 1 || remote.tests[0].Title != "Arithmetic" || remote.tests[0].Duration != 15 {
		t.Fatalf("sent %+v", remote.tests)
	}
	if c.Session().Step() != 0 || len(c.Session().Test().Questions) != 0 {
		t.Fatal("draft not reset after success")
	}
	if _, err := st.Get(draft.DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("snapshot not removed after success")
	}
}

func TestSubmitRemoteFailureKeepsDraft(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"remote":    {&client.RemoteError{Op: "upload test", Status: 500, Message: "Failed to upload test."}, "Failed to upload test."},
		"transport": {errors.New("connection refused"), "Error uploading test."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, remote, st := setup(t)
			fillPreamble(c)
			c.ParseBulkText(paste)
			remote.err = tc.err

			s := c.SubmitRemote(context.Background())
			if s.Level != authoring.LevelFailure || s.Text != tc.want {
				t.Fatalf("status %+v", s)
			}
			if !c.Session().IsSubmittable() {
				t.Fatal("draft lost after failed submit")
			}
			if _, err := st.Get(draft.DefaultKey); err != nil {
				t.Fatalf("snapshot removed after failed submit: %v", err)
			}
		})
	}
}

func TestSubmitPractice(t *testing.T) {
	c, remote, _ := setup(t)
	if s := c.SubmitPractice(context.Background(), "algebra", "linear"); s.Level != authoring.LevelFailure {
		t.Fatalf("empty draft: %+v", s)
	}
	c.ParseBulkText(paste)
	if s := c.SubmitPractice(context.Background(), " ", "linear"); s.Level != authoring.LevelFailure {
		t.Fatalf("blank topic: %+v", s)
	}
	s := c.SubmitPractice(context.Background(), "algebra", "linear")
	if s.Text != "Uploaded 1 questions in 1 document(s)!" {
		t.Fatalf("status %+v", s)
	}
	if len(remote.practice) != 1 || remote.practice[0].Topic != "algebra" || len(remote.practice[0].Questions) != 1 {
		t.Fatalf("sent %+v", remote.practice)
	}
	if len(c.Session().Test().Questions) != 0 {
		t.Fatal("draft not reset after practice upload")
	}
}

func TestResetClearsEverything(t *testing.T) {
	c, _, st := setup(t)
	fillPreamble(c)
	c.ParseBulkText(paste)
	if s := c.Reset(); s.Text != "Form reset." {
		t.Fatalf("status %+v", s)
	}
	if c.Session().Step() != 0 {
		t.Fatal("step not reset")
	}
	if _, err := st.Get(draft.DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("snapshot survived reset")
	}
}

func TestSubmitNotificationLeavesDraft(t *testing.T) {
	c, remote, _ := setup(t)
	fillPreamble(c)
	if s := c.SubmitNotification(context.Background(), quiz.Notification{Title: "x"}); s.Text != "Please fill all fields" {
		t.Fatalf("status %+v", s)
	}
	n := quiz.Notification{Title: "Mock test", Subject: "Physics", Date: "2026-11-02", Description: "Chapter 3"}
	if s := c.SubmitNotification(context.Background(), n); s.Level != authoring.LevelSuccess {
		t.Fatalf("status %+v", s)
	}
	if len(remote.notes) != 1 || c.Session().Step() != 3 {
		t.Fatal("notification upload changed the draft or was not sent")
	}
}
