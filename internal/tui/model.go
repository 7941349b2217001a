// Package tui is the interactive terminal calculator. Every keystroke
// recomputes the breakdown; ctrl+r resets the form.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/splitzytip/internal/calculator"
)

type field int

const (
	fieldBill field = iota
	fieldPeople
	fieldTip
	fieldCustom
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Width(18)
	focusedLabel = labelStyle.Foreground(lipgloss.Color("212"))
	chipStyle    = lipgloss.NewStyle().Padding(0, 1)
	selectedChip = chipStyle.Background(lipgloss.Color("212")).Foreground(lipgloss.Color("0"))
	resultBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).MarginTop(1)
	amountStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Model is the bubbletea model of the calculator.
type Model struct {
	bill   textinput.Model
	people textinput.Model
	custom textinput.Model

	options  []calculator.TipSelection
	selected int
	focus    field

	result calculator.TipResult
}

// New returns a calculator in its reset state with the bill focused.
func New() Model {
	options := make([]calculator.TipSelection, 0, len(calculator.Presets())+1)
	for _, p := range calculator.Presets() {
		sel, _ := calculator.PresetTip(p)
		options = append(options, sel)
	}
	options = append(options, calculator.CustomTip)

	m := Model{
		bill:    newInput("0.00"),
		people:  newInput("1"),
		custom:  newInput("e.g. 12.5"),
		options: options,
	}
	m.load(calculator.Reset())
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 16
	return ti
}

// load replaces the form contents and focuses the bill.
func (m *Model) load(in calculator.TipInput) {
	m.bill.SetValue(in.BillAmount)
	m.people.SetValue(in.PeopleCount)
	m.custom.SetValue(in.CustomTip)
	m.selected = 0
	for i, opt := range m.options {
		if opt == in.Tip {
			m.selected = i
		}
	}
	m.setFocus(fieldBill)
	m.recompute()
}

// Input returns the form contents.
func (m Model) Input() calculator.TipInput {
	return calculator.TipInput{
		BillAmount:  m.bill.Value(),
		PeopleCount: m.people.Value(),
		Tip:         m.options[m.selected],
		CustomTip:   m.custom.Value(),
	}
}

// Result returns the breakdown of the current input.
func (m Model) Result() calculator.TipResult {
	return m.result
}

func (m *Model) recompute() {
	m.result = calculator.Compute(m.Input())
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.bill.Blur()
	m.people.Blur()
	m.custom.Blur()
	switch f {
	case fieldBill:
		return m.bill.Focus()
	case fieldPeople:
		return m.people.Focus()
	case fieldCustom:
		return m.custom.Focus()
	}
	return nil
}

// fields lists the focusable fields; the custom input only while custom is selected.
func (m Model) fields() []field {
	fs := []field{fieldBill, fieldPeople, fieldTip}
	if m.options[m.selected].IsCustom() {
		fs = append(fs, fieldCustom)
	}
	return fs
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	fs := m.fields()
	idx := 0
	for i, f := range fs {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fs)) % len(fs)
	return m.setFocus(fs[idx])
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		cmd := m.updateFocused(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+r":
		m.load(calculator.Reset())
		return m, textinput.Blink
	case "tab", "down", "enter":
		cmd = m.moveFocus(1)
	case "shift+tab", "up":
		cmd = m.moveFocus(-1)
	case "left", "h":
		if m.focus != fieldTip {
			cmd = m.updateFocused(msg)
			break
		}
		m.selected = (m.selected - 1 + len(m.options)) % len(m.options)
	case "right", "l":
		if m.focus != fieldTip {
			cmd = m.updateFocused(msg)
			break
		}
		m.selected = (m.selected + 1) % len(m.options)
	default:
		cmd = m.updateFocused(msg)
	}

	m.recompute()
	return m, cmd
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldBill:
		m.bill, cmd = m.bill.Update(msg)
	case fieldPeople:
		m.people, cmd = m.people.Update(msg)
	case fieldCustom:
		m.custom, cmd = m.custom.Update(msg)
	}
	return cmd
}

func (m Model) label(f field, text string) string {
	if m.focus == f {
		return focusedLabel.Render("> " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SplitzyTip"))
	b.WriteString("\n")

	b.WriteString(m.label(fieldBill, "Bill amount ($)") + m.bill.View() + "\n")
	b.WriteString(m.label(fieldPeople, "Number of people") + m.people.View() + "\n")

	chips := make([]string, len(m.options))
	for i, opt := range m.options {
		text := "Custom"
		if p, ok := opt.Percent(); ok {
			text = fmt.Sprintf("%v%%", p)
		}
		if i == m.selected {
			chips[i] = selectedChip.Render(text)
		} else {
			chips[i] = chipStyle.Render(text)
		}
	}
	b.WriteString(m.label(fieldTip, "Tip") + lipgloss.JoinHorizontal(lipgloss.Top, chips...) + "\n")

	if m.options[m.selected].IsCustom() {
		b.WriteString(m.label(fieldCustom, "Custom tip (%)") + m.custom.View() + "\n")
	}

	d := m.result.Display()
	rows := []string{
		"Tip amount        " + amountStyle.Render(d.TipAmount),
		"Total             " + amountStyle.Render(d.TotalAmount),
		"Tip per person    " + amountStyle.Render(d.TipPerPerson),
		"Total per person  " + amountStyle.Render(d.TotalPerPerson),
	}
	if !d.Valid {
		rows = append(rows, invalidStyle.Render("Enter a bill over $0 and at least 1 person."))
	}
	b.WriteString(resultBox.Render(strings.Join(rows, "\n")))

	b.WriteString(helpStyle.Render("\ntab/shift+tab move • ←/→ change tip • ctrl+r reset • esc quit"))
	b.WriteString("\n")
	return b.String()
}
