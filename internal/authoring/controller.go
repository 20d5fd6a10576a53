// Package authoring exposes the authoring commands a front end invokes and
// turns their outcomes into status lines.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mind-engage/mocktest-admin/internal/bulk"
	"github.com/mind-engage/mocktest-admin/internal/client"
	"github.com/mind-engage/mocktest-admin/internal/draft"
	"github.com/mind-engage/mocktest-admin/internal/quiz"
)

// Submitter is the upload service as seen by the authoring tool.
type Submitter interface {
	SubmitTest(ctx context.Context, t quiz.MockTest) (string, error)
	SubmitPracticeQuestions(ctx context.Context, topic, subtopic string, qs []quiz.Question) (client.PracticeReceipt, error)
	SubmitNotification(ctx context.Context, n quiz.Notification) (string, error)
}

type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelSuccess
	LevelFailure
)

// Status is the one-line outcome of a command. A zero Status means there is
// nothing to show.
type Status struct {
	Level Level
	Text  string
}

func info(format string, a ...any) Status    { return Status{LevelInfo, fmt.Sprintf(format, a...)} }
func success(format string, a ...any) Status { return Status{LevelSuccess, fmt.Sprintf(format, a...)} }
func failure(format string, a ...any) Status { return Status{LevelFailure, fmt.Sprintf(format, a...)} }

const msgIncomplete = "Please complete all fields and add at least one question."

type Controller struct {
	session *draft.Session
	remote  Submitter
}

func NewController(s *draft.Session, remote Submitter) *Controller {
	return &Controller{session: s, remote: remote}
}

// Session gives read access to the draft for rendering.
func (c *Controller) Session() *draft.Session { return c.session }

// Start restores any saved draft.
func (c *Controller) Start() Status {
	if c.session.Restore() {
		return info("Restored your previous work.")
	}
	return Status{}
}

func (c *Controller) AdvanceStep(raw string) Status {
	_, err := c.session.AdvanceStep(raw)
	switch {
	case errors.Is(err, draft.ErrNotANumber):
		return failure("Duration must be a whole number of minutes.")
	case errors.Is(err, draft.ErrNotPositive):
		return failure("Duration must be greater than zero.")
	case err != nil:
		return c.saveFailed(err)
	}
	return Status{}
}

// SubmitQuestion adds or updates a question. correct is zero-based.
func (c *Controller) SubmitQuestion(question string, options []string, correct int) Status {
	_, editing := c.session.Editing()
	ok, err := c.session.SubmitQuestion(quiz.Question{
		Question:     strings.TrimSpace(question),
		Options:      options,
		CorrectIndex: correct,
	})
	if err != nil {
		return c.saveFailed(err)
	}
	if !ok {
		return Status{}
	}
	if editing {
		return success("Question updated.")
	}
	return success("Question %d added.", len(c.session.Test().Questions))
}

func (c *Controller) LoadQuestionForEdit(i int) (quiz.Question, Status) {
	q, err := c.session.LoadQuestionForEdit(i)
	if err != nil {
		return quiz.Question{}, failure("No question %d.", i+1)
	}
	return q, info("Editing question %d.", i+1)
}

func (c *Controller) DeleteQuestion(i int) Status {
	if err := c.session.DeleteQuestion(i); err != nil {
		if errors.Is(err, draft.ErrIndexOutOfRange) {
			return failure("No question %d.", i+1)
		}
		return c.saveFailed(err)
	}
	return success("Question deleted.")
}

func (c *Controller) CancelEdit() Status {
	c.session.CancelEdit()
	return Status{}
}

func (c *Controller) Reset() Status {
	if err := c.session.Reset(); err != nil {
		log.Printf("authoring: clear saved draft: %v", err)
	}
	return info("Form reset.")
}

// ParseBulkText appends every complete block in text to the draft.
func (c *Controller) ParseBulkText(text string) Status {
	res := bulk.Parse(text)
	added, err := c.session.AppendQuestions(res.Questions)
	if err != nil {
		return c.saveFailed(err)
	}
	if res.Rejected > 0 {
		return success("Added %d question(s) from paste, skipped %d block(s).", added, res.Rejected)
	}
	return success("Added %d question(s) from paste.", added)
}

// SubmitRemote uploads the draft as a mock test. On success the draft is
// reset; on failure it is left as it was so the user can retry.
func (c *Controller) SubmitRemote(ctx context.Context) Status {
	if !c.session.IsSubmittable() {
		return failure(msgIncomplete)
	}
	msg, err := c.remote.SubmitTest(ctx, c.session.Test())
	if err != nil {
		return remoteFailure("Error uploading test.", err)
	}
	c.Reset()
	return success("%s", msg)
}

// SubmitPractice uploads the draft's questions as a practice set.
func (c *Controller) SubmitPractice(ctx context.Context, topic, subtopic string) Status {
	topic, subtopic = strings.TrimSpace(topic), strings.TrimSpace(subtopic)
	qs := c.session.Test().Questions
	if topic == "" || subtopic == "" || len(qs) == 0 {
		return failure("Please give a topic and subtopic and add at least one question.")
	}
	rc, err := c.remote.SubmitPracticeQuestions(ctx, topic, subtopic, qs)
	if err != nil {
		return remoteFailure("Error uploading practice questions.", err)
	}
	c.Reset()
	return success("%s", rc.Message)
}

// SubmitNotification posts an announcement. It does not touch the draft.
func (c *Controller) SubmitNotification(ctx context.Context, n quiz.Notification) Status {
	if !n.Complete() {
		return failure("Please fill all fields")
	}
	msg, err := c.remote.SubmitNotification(ctx, n)
	if err != nil {
		return remoteFailure("Error uploading notification.", err)
	}
	return success("%s", msg)
}

func remoteFailure(fallback string, err error) Status {
	var re *client.RemoteError
	if errors.As(err, &re) {
		return failure("%s", re.Message)
	}
	log.Printf("authoring: %v", err)
	return failure("%s", fallback)
}

func (c *Controller) saveFailed(err error) Status {
	log.Printf("authoring: %v", err)
	return failure("Could not save draft: %v", err)
}
