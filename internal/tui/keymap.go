package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	NextItem key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Jump     key.Binding

	// Actions
	Toggle      key.Binding
	Period      key.Binding
	OrderStatus key.Binding
	Refresh     key.Binding
	Theme       key.Binding

	// Application
	Help        key.Binding
	Quit        key.Binding
	ClearScreen key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "вверх"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "вниз"),
		),
		NextItem: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "след. таблица"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp", "страница вверх"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn", "страница вниз"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "перейти"),
		),

		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "раскрыть"),
		),
		Period: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "период"),
		),
		OrderStatus: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "статус заказов"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "обновить"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "тема"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "помощь"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "выход"),
		),
		ClearScreen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "перерисовать"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Period, k.OrderStatus, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextItem, k.Jump},
		{k.PageUp, k.PageDown, k.Toggle},
		{k.Period, k.OrderStatus, k.Refresh, k.Theme},
		{k.Help, k.ClearScreen, k.Quit},
	}
}
