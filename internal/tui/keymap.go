package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Scanner
	Gallery key.Binding
	Camera  key.Binding
	Scan    key.Binding
	Results key.Binding

	// Results
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Send   key.Binding
	Back   key.Binding

	// Confirmation and modals
	Confirm key.Binding
	Cancel  key.Binding
	Dismiss key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Gallery: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "galería"),
		),
		Camera: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cámara"),
		),
		Scan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "escanear"),
		),
		Results: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resultados"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "arriba"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "abajo"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "x"),
			key.WithHelp("espacio", "seleccionar"),
		),
		Send: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "enviar"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "volver"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "sí"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/Esc", "no"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("Enter/Esc", "cerrar"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ayuda"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "salir"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "forzar salida"),
		),
	}
}

// scannerHelp exposes the scanner bindings to the help view.
type scannerHelp struct{ KeyMap }

func (k scannerHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Gallery, k.Camera, k.Scan, k.Results, k.Quit}
}

func (k scannerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Gallery, k.Camera, k.Scan, k.Results},
		{k.Confirm, k.Cancel, k.Dismiss},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// resultsHelp exposes the results bindings to the help view.
type resultsHelp struct{ KeyMap }

func (k resultsHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Send, k.Back}
}

func (k resultsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Send, k.Confirm, k.Cancel, k.Dismiss},
		{k.Back, k.Help, k.Quit, k.ForceQuit},
	}
}
