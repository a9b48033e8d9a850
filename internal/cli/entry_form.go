package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/nvetter/fieldline/internal/cli/formatter"
	"github.com/nvetter/fieldline/internal/domain"
)

// fieldlineHuhTheme returns a huh theme matching the formatter palette.
func fieldlineHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// entryFormInput pairs a field ID with the destination for its typed value.
type entryFormInput struct {
	FieldID string
	Value   string
}

// newEntryForm builds an interactive form over the thread's active fields in
// display order. Group fields themselves take no value; their children are
// labeled "Group.Child". Returns nil when the thread has no value-taking
// fields.
func newEntryForm(set domain.FieldSet, body *string, inputs []*entryFormInput) *huh.Form {
	byID := make(map[string]*entryFormInput, len(inputs))
	for _, in := range inputs {
		byID[in.FieldID] = in
	}

	fields := []huh.Field{
		huh.NewText().
			Title("Entry").
			Placeholder("What happened?").
			Value(body),
	}

	for _, f := range set.TopLevel() {
		if f.IsGroup {
			for _, c := range set.Children(f.ID) {
				fields = append(fields, huh.NewInput().
					Title(f.Name+"."+c.Name).
					Value(&byID[c.ID].Value))
			}
			continue
		}
		fields = append(fields, huh.NewInput().
			Title(f.Name).
			Value(&byID[f.ID].Value))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(fieldlineHuhTheme()).
		WithShowHelp(false)
}

// valueInputs allocates one form input per value-taking active field, in
// display order.
func valueInputs(set domain.FieldSet) []*entryFormInput {
	var inputs []*entryFormInput
	for _, f := range set.TopLevel() {
		if f.IsGroup {
			for _, c := range set.Children(f.ID) {
				inputs = append(inputs, &entryFormInput{FieldID: c.ID})
			}
			continue
		}
		inputs = append(inputs, &entryFormInput{FieldID: f.ID})
	}
	return inputs
}
