// Package console is a line-oriented terminal front end for the authoring
// commands.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mind-engage/mocktest-admin/internal/authoring"
	"github.com/mind-engage/mocktest-admin/internal/quiz"
)

const help = `Commands:
  /list                 show questions
  /edit N               load question N for editing
  /delete N             delete question N
  /cancel               clear the question form
  /paste                bulk import; end with a line containing /end
  /submit               upload the draft as a mock test
  /practice TOPIC SUB   upload the draft's questions as a practice set
  /notify               post a notification
  /reset                discard the draft
  /quit                 exit (the draft is kept)`

// fieldLabels is the question form in entry order.
var fieldLabels = []string{"Question", "Option 1", "Option 2", "Option 3", "Option 4", "Correct option (1-4)"}

var noteLabels = []string{"Title", "Subject", "Date", "Description"}

type Console struct {
	ctrl *authoring.Controller
	out  io.Writer
	ctx  context.Context

	// handle receives the next non-command line; set by render.
	handle func(line string)
	prompt string
	quit   bool

	form    []string // question form values, in fieldLabels order
	prefill []string // values of the question loaded for edit
	paste   []string
	pasting bool
	confirm bool
	note    []string
	noting  bool
}

func New(ctrl *authoring.Controller, out io.Writer) *Console {
	return &Console{ctrl: ctrl, out: out, ctx: context.Background()}
}

// Run restores any saved draft and processes lines from in until EOF, /quit
// or ctx is done. Cancelling ctx returns even while a read is blocked.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.ctx = ctx
	c.status(c.ctrl.Start())
	c.render()

	done := make(chan struct{})
	defer close(done)
	lines, errc := readLines(in, done)
	for !c.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			c.Line(line)
		}
	}
	return nil
}

// readLines feeds lines from in until EOF or done is closed. errc carries the
// scanner error once lines is closed.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 64*1024), 1<<20)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// Line dispatches one input line.
func (c *Console) Line(line string) {
	if c.handle == nil {
		c.render()
	}
	trimmed := strings.TrimSpace(line)
	if c.pasting {
		if strings.EqualFold(trimmed, "/end") {
			c.pasting = false
			c.status(c.ctrl.ParseBulkText(strings.Join(c.paste, "\n")))
			c.paste = nil
			c.render()
			return
		}
		c.paste = append(c.paste, line)
		return
	}
	if strings.HasPrefix(trimmed, "/") {
		c.command(trimmed)
		if !c.quit {
			c.render()
		}
		return
	}
	c.handle(line)
	c.render()
}

func (c *Console) command(cmd string) {
	fields := strings.Fields(cmd)
	switch strings.ToLower(fields[0]) {
	case "/help":
		fmt.Fprintln(c.out, help)
	case "/quit", "/exit":
		c.quit = true
	case "/list":
		c.list()
	case "/edit":
		i, ok := c.index(fields)
		if !ok {
			return
		}
		q, st := c.ctrl.LoadQuestionForEdit(i)
		c.status(st)
		if st.Level != authoring.LevelFailure {
			c.form = nil
			c.prefill = append([]string{q.Question}, q.Options...)
			c.prefill = append(c.prefill, strconv.Itoa(q.CorrectIndex+1))
		}
	case "/delete":
		if i, ok := c.index(fields); ok {
			c.status(c.ctrl.DeleteQuestion(i))
			c.clearForm()
		}
	case "/cancel":
		c.status(c.ctrl.CancelEdit())
		c.clearForm()
	case "/paste":
		c.pasting = true
		c.paste = nil
		fmt.Fprintln(c.out, "Paste questions, then /end on its own line.")
	case "/submit":
		fmt.Fprintln(c.out, "Uploading...")
		c.status(c.ctrl.SubmitRemote(c.ctx))
		if !c.ctrl.Session().InQuestionMode() {
			c.clearForm()
		}
	case "/practice":
		if len(fields) < 3 {
			fmt.Fprintln(c.out, "usage: /practice TOPIC SUBTOPIC")
			return
		}
		fmt.Fprintln(c.out, "Uploading...")
		c.status(c.ctrl.SubmitPractice(c.ctx, fields[1], strings.Join(fields[2:], " ")))
		if len(c.ctrl.Session().Test().Questions) == 0 {
			c.clearForm()
		}
	case "/notify":
		c.noting = true
		c.note = nil
	case "/reset":
		c.confirm = true
	default:
		fmt.Fprintf(c.out, "unknown command %s (try /help)\n", fields[0])
	}
}

// render lays out the current screen and binds the handler for the next
// input line.
func (c *Console) render() {
	s := c.ctrl.Session()
	switch {
	case c.confirm:
		c.prompt = "Are you sure you want to reset everything? (y/N)"
		c.handle = c.onConfirm
	case c.noting:
		c.prompt = "Notification " + noteLabels[len(c.note)]
		c.handle = c.onNoteField
	case !s.InQuestionMode():
		st, _ := s.CurrentStep()
		c.prompt = fmt.Sprintf("Step %d/3 %s", s.Step()+1, st.Label)
		if v := s.PendingValue(); v != "" {
			c.prompt += " [" + v + "]"
		}
		c.handle = c.onStep
	default:
		n := len(c.form)
		label := fieldLabels[n]
		if i, ok := s.Editing(); ok {
			label = fmt.Sprintf("Q%d %s", i+1, label)
		} else {
			label = fmt.Sprintf("Q%d %s", len(s.Test().Questions)+1, label)
		}
		if n < len(c.prefill) {
			label += " [" + c.prefill[n] + "]"
		}
		c.prompt = label
		c.handle = c.onQuestionField
	}
	fmt.Fprintf(c.out, "%s: ", c.prompt)
}

// onStep accepts a blank line as the value shown in brackets, if any.
func (c *Console) onStep(line string) {
	if strings.TrimSpace(line) == "" {
		line = c.ctrl.Session().PendingValue()
	}
	c.status(c.ctrl.AdvanceStep(line))
	if c.ctrl.Session().InQuestionMode() {
		fmt.Fprintln(c.out, "Details saved. Add questions, or /help for commands.")
	}
}

// onQuestionField moves to the next form field on each line, like pressing
// Enter in a form, and submits after the correct option.
func (c *Console) onQuestionField(line string) {
	v := strings.TrimSpace(line)
	n := len(c.form)
	if v == "" && n < len(c.prefill) {
		v = c.prefill[n]
	}
	c.form = append(c.form, v)
	if len(c.form) < len(fieldLabels) {
		return
	}

	correct := -1
	if k, err := strconv.Atoi(c.form[5]); err == nil && k >= 1 && k <= quiz.OptionCount {
		correct = k - 1
	}
	st := c.ctrl.SubmitQuestion(c.form[0], c.form[1:5], correct)
	if st.Level == authoring.LevelNone {
		fmt.Fprintln(c.out, "Question not saved: fill in the question, all four options and a correct option from 1 to 4.")
	}
	c.status(st)
	c.form = nil
	if st.Level == authoring.LevelSuccess {
		c.prefill = nil
	}
}

func (c *Console) onConfirm(line string) {
	c.confirm = false
	if strings.EqualFold(strings.TrimSpace(line), "y") || strings.EqualFold(strings.TrimSpace(line), "yes") {
		c.status(c.ctrl.Reset())
		c.clearForm()
	}
}

func (c *Console) onNoteField(line string) {
	c.note = append(c.note, strings.TrimSpace(line))
	if len(c.note) < len(noteLabels) {
		return
	}
	c.noting = false
	n := quiz.Notification{Title: c.note[0], Subject: c.note[1], Date: c.note[2], Description: c.note[3]}
	c.note = nil
	fmt.Fprintln(c.out, "Uploading...")
	c.status(c.ctrl.SubmitNotification(c.ctx, n))
}

func (c *Console) list() {
	qs := c.ctrl.Session().Test().Questions
	if len(qs) == 0 {
		fmt.Fprintln(c.out, "No questions yet.")
		return
	}
	for i, q := range qs {
		text := q.Question
		if r := []rune(text); len(r) > 40 {
			text = string(r[:40]) + "..."
		}
		fmt.Fprintf(c.out, "Q%d: %s\n", i+1, text)
	}
}

func (c *Console) index(fields []string) (int, bool) {
	if len(fields) < 2 {
		fmt.Fprintf(c.out, "usage: %s N\n", fields[0])
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(c.out, "usage: %s N\n", fields[0])
		return 0, false
	}
	return n - 1, true
}

func (c *Console) clearForm() {
	c.form = nil
	c.prefill = nil
}

func (c *Console) status(s authoring.Status) {
	switch s.Level {
	case authoring.LevelNone:
	case authoring.LevelSuccess:
		fmt.Fprintln(c.out, "✅ "+s.Text)
	case authoring.LevelFailure:
		fmt.Fprintln(c.out, "❌ "+s.Text)
	default:
		fmt.Fprintln(c.out, s.Text)
	}
}
