// Package tui is the terminal front end: the same three fields and the same
// request flow as the web page, driven by Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccastromar/backend-code-generator/internal/form"
	"github.com/ccastromar/backend-code-generator/internal/generator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#4338ca")).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2563eb")).Padding(0, 1)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Background(lipgloss.Color("#1f2937")).Padding(0, 1)
	codeStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#4b5563"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d6dbe7"))
)

const (
	fieldTechStack = iota
	fieldDBSchema
	fieldAPIDesc
	fieldCount
)

var fieldLabels = [fieldCount]string{"Tech Stack", "Database Schema", "API Description"}

var fieldPlaceholders = [fieldCount]string{
	"e.g., Node.js, Express, TypeScript, PostgreSQL",
	"Describe your database schema",
	"Describe your API requirements",
}

const emptyHint = "Your generated code will appear here\nEnter specifications and press ctrl+s"

type generatedMsg struct {
	out string
	err error
}

// Model owns its form state; Update is the only place it changes.
type Model struct {
	ctx     context.Context
	gen     generator.Generator
	state   form.State
	fields  [fieldCount]textarea.Model
	focus   int
	spinner spinner.Model
	output  viewport.Model
	width   int
	height  int
}

func New(ctx context.Context, gen generator.Generator) Model {
	m := Model{
		ctx:     ctx,
		gen:     gen,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		output:  viewport.New(80, 12),
	}
	for i := range m.fields {
		ta := textarea.New()
		ta.Placeholder = fieldPlaceholders[i]
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetWidth(60)
		ta.SetHeight(3)
		m.fields[i] = ta
	}
	m.fields[fieldTechStack].Focus()
	m.output.SetContent(emptyHint)
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			return m, m.setFocus((m.focus + 1) % fieldCount)

		case "shift+tab":
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

		case "ctrl+s":
			return m, m.submit()

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generatedMsg:
		_ = generator.Apply(&m.state, msg.out, msg.err)
		m.refreshOutput()
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	m.syncInputs()
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = i
	return m.fields[m.focus].Focus()
}

func (m *Model) syncInputs() {
	m.state.SetTechStack(m.fields[fieldTechStack].Value())
	m.state.SetDBSchema(m.fields[fieldDBSchema].Value())
	m.state.SetAPIDesc(m.fields[fieldAPIDesc].Value())
}

// submit is a no-op unless the form can be submitted.
func (m *Model) submit() tea.Cmd {
	m.syncInputs()
	if !m.state.CanSubmit() {
		return nil
	}
	in, err := m.state.Begin()
	if err != nil {
		return nil
	}
	m.refreshOutput()
	return tea.Batch(m.spinner.Tick, generateCmd(m.ctx, m.gen, in))
}

func generateCmd(ctx context.Context, gen generator.Generator, in form.Inputs) tea.Cmd {
	return func() tea.Msg {
		out, err := gen.Generate(ctx, in)
		return generatedMsg{out: out, err: err}
	}
}

func (m *Model) refreshOutput() {
	if m.state.Output() == "" {
		m.output.SetContent(emptyHint)
	} else {
		m.output.SetContent(m.state.Output())
	}
	m.output.GotoTop()
}

func (m *Model) resize() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	for i := range m.fields {
		m.fields[i].SetWidth(w)
	}
	// title, three labelled fields, error, button, header, status and help
	h := m.height - (2 + fieldCount*(m.fields[0].Height()+1) + 9)
	if h < 3 {
		h = 3
	}
	m.output.Width = w
	m.output.Height = h
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Backend Code Generator"))
	b.WriteString("\n\n")

	for i := range m.fields {
		label := labelStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = focusedStyle.Render(fieldLabels[i])
		}
		b.WriteString(label + "\n")
		b.WriteString(m.fields[i].View())
		b.WriteString("\n")
	}

	if msg := m.state.ErrorMessage(); msg != "" {
		b.WriteString(errorStyle.Render("Error: " + msg))
		b.WriteString("\n")
	}

	switch {
	case m.state.Loading():
		b.WriteString(disabledStyle.Render(m.spinner.View() + " Generating Code..."))
	case m.state.CanSubmit():
		b.WriteString(buttonStyle.Render("Generate Backend Code"))
	default:
		b.WriteString(disabledStyle.Render("Generate Backend Code"))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Generated Code"))
	b.WriteString("\n")
	b.WriteString(codeStyle.Render(m.output.View()))
	b.WriteString("\n")

	status := "Ready"
	if m.state.Output() != "" {
		status = "Code generated"
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("Status: %s", status)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/shift+tab: switch field • ctrl+s: generate • pgup/pgdown: scroll • ctrl+c: quit"))
	b.WriteString("\n")

	return b.String()
}
