// Package testing provides test utilities for TUI screens.
package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TestRenderer captures the output of a Bubble Tea model without requiring a real terminal.
type TestRenderer struct {
	// Output contains the last rendered view
	Output string

	// Commands contains all commands returned by Update calls
	Commands []tea.Cmd

	// UpdateCount tracks how many times Update was called
	UpdateCount int
}

// NewTestRenderer creates a new test renderer.
func NewTestRenderer() *TestRenderer {
	return &TestRenderer{}
}

// Update sends a message to the model and captures the result.
func (r *TestRenderer) Update(model tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	r.UpdateCount++

	newModel, cmd := model.Update(msg)
	if cmd != nil {
		r.Commands = append(r.Commands, cmd)
	}
	r.Output = newModel.View()

	return newModel, cmd
}

// Settle runs every pending command, feeds the resulting messages back to
// the model, and repeats until nothing matching keep is left. Batches are
// expanded. Messages rejected by keep are dropped, which stops spinner
// ticks from looping forever.
func (r *TestRenderer) Settle(model tea.Model, keep func(tea.Msg) bool) tea.Model {
	for len(r.Commands) > 0 {
		pending := r.Commands
		r.Commands = nil
		for _, msg := range Collect(pending...) {
			if keep != nil && !keep(msg) {
				continue
			}
			model, _ = r.Update(model, msg)
		}
	}
	return model
}

// Collect runs the commands and returns their messages, expanding batches.
func Collect(cmds ...tea.Cmd) []tea.Msg {
	var msgs []tea.Msg
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			msgs = append(msgs, Collect(batch...)...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// StripANSI removes ANSI escape codes from the output for content-only testing.
func (r *TestRenderer) StripANSI() string {
	return StripANSI(r.Output)
}
