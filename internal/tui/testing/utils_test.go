package testing

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type pingMsg struct{ n int }

func TestCollectExpandsBatches(t *testing.T) {
	ping := func(n int) tea.Cmd {
		return func() tea.Msg { return pingMsg{n: n} }
	}

	msgs := Collect(ping(1), nil, tea.Batch(ping(2), ping(3)))

	assert.Equal(t, []tea.Msg{pingMsg{1}, pingMsg{2}, pingMsg{3}}, msgs)
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "hola", StripANSI("\x1b[1;34mhola\x1b[0m"))
}

func TestContainsInOrder(t *testing.T) {
	assert.True(t, ContainsInOrder("a b c", "a", "c"))
	assert.False(t, ContainsInOrder("a b c", "c", "a"))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b", NormalizeWhitespace("  a \n\t b "))
}
