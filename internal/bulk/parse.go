// Package bulk turns pasted question text into question records.
//
// A block looks like:
//
//	Q: What is 2+2?
//	Solution: optional explanation, discarded
//	Option 1: 3
//	Option 2: 4
//	Option 3: 5
//	Option 4: 6
//	Correct option: 2
//
// Markers are case-insensitive. Text outside a block is ignored.
package bulk

import (
	"regexp"
	"strings"

	"github.com/mind-engage/mocktest-admin/internal/quiz"
)

var (
	reQuestion = regexp.MustCompile(`(?i)^q:\s*(.*)$`)
	reSolution = regexp.MustCompile(`(?i)^solution:`)
	reOption1  = regexp.MustCompile(`(?i)^option\s*1\s*:`)
	reOption   = regexp.MustCompile(`(?i)^option\s*\d+\s*:\s*(.+)$`)
	reCorrect  = regexp.MustCompile(`(?i)^correct\s+option\s*:\s*(.*)$`)
	reAnswer   = regexp.MustCompile(`(?i)^(?:option\s*-?\s*)?([1-4])$`)
)

// Result is the outcome of one Parse call. Rejected counts blocks that
// started with "Q:" but did not yield a complete record.
type Result struct {
	Questions []quiz.Question
	Accepted  int
	Rejected  int
}

// Parse is pure: the same text always gives the same Result.
func Parse(text string) Result {
	p := parser{lines: splitLines(text)}
	var res Result
	for p.i < len(p.lines) {
		if !reQuestion.MatchString(p.lines[p.i]) {
			p.i++
			continue
		}
		if q, ok := p.block(); ok {
			res.Questions = append(res.Questions, q)
			res.Accepted++
		} else {
			res.Rejected++
		}
	}
	return res
}

type parser struct {
	lines []string
	i     int
}

func (p *parser) peek() (string, bool) {
	if p.i >= len(p.lines) {
		return "", false
	}
	return p.lines[p.i], true
}

// block consumes one block starting at a "Q:" line. It always consumes at
// least that line. Only the solution and option phases treat a later "Q:"
// line as the start of the next block.
func (p *parser) block() (quiz.Question, bool) {
	var text []string
	if m := reQuestion.FindStringSubmatch(p.lines[p.i]); strings.TrimSpace(m[1]) != "" {
		text = append(text, strings.TrimSpace(m[1]))
	}
	p.i++

	for {
		l, ok := p.peek()
		if !ok || reSolution.MatchString(l) || reOption1.MatchString(l) {
			break
		}
		// a "Q:" line here is part of the question text
		text = append(text, l)
		p.i++
	}
	if len(text) == 0 {
		return quiz.Question{}, false
	}

	if l, ok := p.peek(); ok && reSolution.MatchString(l) {
		p.i++
		for {
			l, ok := p.peek()
			if !ok || reOption1.MatchString(l) || reQuestion.MatchString(l) {
				break
			}
			p.i++
		}
	}

	opts := make([]string, 0, quiz.OptionCount)
	for len(opts) < quiz.OptionCount {
		l, ok := p.peek()
		if !ok {
			break
		}
		m := reOption.FindStringSubmatch(l)
		if m == nil {
			break
		}
		opts = append(opts, strings.TrimSpace(m[1]))
		p.i++
	}

	correct := -1
	if l, ok := p.peek(); ok {
		if m := reCorrect.FindStringSubmatch(l); m != nil {
			correct = answerIndex(m[1])
			p.i++
		}
	}

	q := quiz.Question{
		Question:     strings.TrimSpace(strings.Join(text, " ")),
		Options:      opts,
		CorrectIndex: correct,
	}
	if q.Validate() != nil {
		return quiz.Question{}, false
	}
	return q, true
}

// answerIndex maps "2" or "Option 2" to 1. Anything else, including
// multi-digit values like "10", is -1.
func answerIndex(v string) int {
	m := reAnswer.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return -1
	}
	return int(m[1][0] - '1')
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(strings.TrimSuffix(l, "\r")); l != "" {
			out = append(out, l)
		}
	}
	return out
}
