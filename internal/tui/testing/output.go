package testing

import (
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// ContainsInOrder reports whether output contains every string in order.
func ContainsInOrder(output string, expected ...string) bool {
	rest := output
	for _, exp := range expected {
		i := strings.Index(rest, exp)
		if i == -1 {
			return false
		}
		rest = rest[i+len(exp):]
	}
	return true
}

// LineWith returns the first line of output containing s, or "".
func LineWith(output, s string) string {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, s) {
			return line
		}
	}
	return ""
}

// Drive feeds msgs to model in order and returns the final model and the
// command returned by the last update. Commands are not executed.
func Drive(model tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		model, cmd = model.Update(msg)
	}
	return model, cmd
}

// Exec runs cmd and flattens batches, returning every produced message.
// Only use it with commands that return immediately.
func Exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, Exec(c)...)
	}
	return out
}
