package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

type stubPicker struct {
	action core.Action
	err    error
	calls  int
}

func (s *stubPicker) Greedy(core.Observation) (core.Action, error) {
	s.calls++
	return s.action, s.err
}

func TestGreedyPolicyFollowsPicker(t *testing.T) {
	var buf bytes.Buffer
	picker := &stubPicker{action: core.ActionRight}
	policy := greedyPolicy(picker, core.ActionLeft, log.New(&buf))

	if got := policy(core.Observation{0}); got != core.ActionRight {
		t.Errorf("policy() = %v, want %v", got, core.ActionRight)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}

func TestGreedyPolicyLogsFallbackOnce(t *testing.T) {
	var buf bytes.Buffer
	picker := &stubPicker{err: errors.New("qlearn: observation has 3 dimensions, bounds have 4")}
	policy := greedyPolicy(picker, core.ActionLeft, log.New(&buf))

	for range 3 {
		if got := policy(core.Observation{1, 2, 3}); got != core.ActionLeft {
			t.Fatalf("policy() = %v, want fallback %v", got, core.ActionLeft)
		}
	}
	if picker.calls != 3 {
		t.Errorf("picker called %d times, want 3", picker.calls)
	}
	out := buf.String()
	if n := strings.Count(out, "policy failed"); n != 1 {
		t.Errorf("logged %d failures, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "bounds have 4") {
		t.Errorf("log should carry the error, got %q", out)
	}
}
