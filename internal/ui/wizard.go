package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist/internal/shared"
)

// wizard field indexes, in display order.
const (
	fieldClientID = iota
	fieldClientSecret
	fieldRedirectURI
	fieldCount
)

// Wizard is the interactive credential form for `setlist config`.
//
// Implements bubbletea's standard Init/Update/View pattern: one text input
// per Spotify credential, enter advances, the last enter submits.
type Wizard struct {
	inputs    []textinput.Model
	focused   int
	keys      wizardKeyMap
	cancelled bool
}

// wizardKeyMap defines the [key.Binding] mapping for the wizard.
type wizardKeyMap struct {
	next key.Binding
	prev key.Binding
	quit key.Binding
}

func newWizardKeyMap() wizardKeyMap {
	return wizardKeyMap{
		next: key.NewBinding(key.WithKeys("enter", "tab", "down"), key.WithHelp("enter", "next")),
		prev: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "back")),
		quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// NewWizard creates a credential wizard pre-filled from the current config.
func NewWizard(current shared.SpotifyConfig) *Wizard {
	labels := []struct {
		placeholder string
		value       string
		secret      bool
	}{
		{"Spotify client ID", current.ClientID, false},
		{"Spotify client secret", current.ClientSecret, true},
		{"Redirect URI", current.RedirectURI, false},
	}

	inputs := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		input := textinput.New()
		input.Placeholder = l.placeholder
		input.SetValue(l.value)
		input.CharLimit = 256
		input.Width = 48
		if l.secret {
			input.EchoMode = textinput.EchoPassword
		}
		inputs[i] = input
	}
	inputs[fieldClientID].Focus()

	return &Wizard{inputs: inputs, keys: newWizardKeyMap()}
}

// Init implements [tea.Model].
func (w *Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model].
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, w.keys.quit):
			w.cancelled = true
			return w, tea.Quit
		case key.Matches(msg, w.keys.next):
			if w.focused == fieldCount-1 {
				return w, tea.Quit
			}
			w.setFocus(w.focused + 1)
			return w, nil
		case key.Matches(msg, w.keys.prev):
			if w.focused > 0 {
				w.setFocus(w.focused - 1)
			}
			return w, nil
		}
	}

	cmds := make([]tea.Cmd, len(w.inputs))
	for i := range w.inputs {
		w.inputs[i], cmds[i] = w.inputs[i].Update(msg)
	}
	return w, tea.Batch(cmds...)
}

// View implements [tea.Model].
func (w *Wizard) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Spotify credentials"))
	b.WriteString("\n")

	labels := []string{"Client ID", "Client secret", "Redirect URI"}
	for i, input := range w.inputs {
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", labels[i], input.View()))
	}

	b.WriteString(styles.help.Render("enter: next field · esc: cancel"))
	b.WriteString("\n")

	return b.String()
}

func (w *Wizard) setFocus(i int) {
	w.inputs[w.focused].Blur()
	w.focused = i
	w.inputs[w.focused].Focus()
}

// Cancelled reports whether the user abandoned the wizard.
func (w *Wizard) Cancelled() bool {
	return w.cancelled
}

// Credentials returns the entered values as a [shared.SpotifyConfig].
func (w *Wizard) Credentials() shared.SpotifyConfig {
	return shared.SpotifyConfig{
		ClientID:     strings.TrimSpace(w.inputs[fieldClientID].Value()),
		ClientSecret: strings.TrimSpace(w.inputs[fieldClientSecret].Value()),
		RedirectURI:  strings.TrimSpace(w.inputs[fieldRedirectURI].Value()),
	}
}
