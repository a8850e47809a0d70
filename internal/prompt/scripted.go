package prompt

import (
	"context"
	"sync"
)

// Answer is one scripted response. Err, when set, is returned instead of the
// value.
type Answer struct {
	Text string
	Yes  bool
	Err  error
}

// Scripted replays canned answers in order. Input validators run against the
// scripted text, and a rejected answer consumes the next one, the way a user
// would retype it.
type Scripted struct {
	mu      sync.Mutex
	answers []Answer
	asked   []string
	info    []string
}

var _ Driver = (*Scripted)(nil)

// NewScripted returns a driver that replays answers.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) next(message string) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, message)
	if len(s.answers) == 0 {
		return Answer{}, ErrScriptExhausted
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *Scripted) Input(ctx context.Context, cfg InputConfig) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		a, err := s.next(cfg.Message)
		if err != nil {
			return "", err
		}
		if a.Err != nil {
			return "", a.Err
		}
		text := a.Text
		if text == "" {
			text = cfg.Default
		}
		if cfg.Validator != nil {
			if verr := cfg.Validator(text); verr != nil {
				continue
			}
		}
		return text, nil
	}
}

func (s *Scripted) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	a, err := s.next(cfg.Message)
	if err != nil {
		return false, err
	}
	return a.Yes, a.Err
}

func (s *Scripted) Info(_ context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = append(s.info, msg)
	return nil
}

// Asked returns the prompt messages in order.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// Printed returns the Info messages in order.
func (s *Scripted) Printed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.info...)
}

// Remaining reports how many answers are left.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}
