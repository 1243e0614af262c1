package components

// JumpSelectedMsg is sent when an item is picked in the jump prompt.
type JumpSelectedMsg struct {
	Index int
}

// JumpCanceledMsg closes the jump prompt without a selection.
type JumpCanceledMsg struct{}
