// Package ui implements interactive terminal forms using bubbletea's Elm architecture.
//
// The [Wizard] collects Spotify API credentials for `setlist config`: one
// text input per field, enter advancing focus and submitting on the last
// field. It implements bubbletea's standard Init/Update/View pattern, with
// styling from lipgloss via the shared [Palette].
package ui
