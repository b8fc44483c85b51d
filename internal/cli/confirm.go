package cli

import (
	"errors"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// errNeedsConfirmation is returned when a prompt is required but stdin is
// not a terminal.
var errNeedsConfirmation = errors.New("confirmation required: rerun with --yes")

// confirm reports whether to go ahead: yes skips the prompt, otherwise the
// user is asked.
func (app *App) confirm(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	if app.IsInteractive == nil || !app.IsInteractive() {
		return false, errNeedsConfirmation
	}
	ask := app.Confirm
	if ask == nil {
		ask = huhConfirm
	}
	return ask(title, description)
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(arborHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

func arborHuhTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}
