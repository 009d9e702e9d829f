package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"valign/internal/driver"
)

// Run renders progress for files on out until events is closed. The
// caller closes events when the run is over.
func Run(out io.Writer, title string, files []string, events <-chan driver.Event) error {
	p := tea.NewProgram(
		NewProgressModel(title, files, events),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)
	_, err := p.Run()
	return err
}
