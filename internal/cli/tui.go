package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/qrsheet/pkg/errors"
	"github.com/matzehuels/qrsheet/pkg/pipeline"
)

// pollInterval is how often the progress view drains the event channel.
const pollInterval = 100 * time.Millisecond

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	formLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	formFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	formInputStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// =============================================================================
// ProgressModel - Live progress of a background run
// =============================================================================

type tickMsg time.Time

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ProgressModel follows the event channel of [pipeline.Runner.Start].
// Interrupt keys are refused; the model quits once the channel closes.
type ProgressModel struct {
	Title  string
	Status string
	Done   int
	Total  int
	Notice string
	Final  pipeline.Event
	Width  int

	events   <-chan pipeline.Event
	finished bool
}

// NewProgressModel creates a progress model reading from events.
func NewProgressModel(events <-chan pipeline.Event, title string) ProgressModel {
	return ProgressModel{Title: title, Status: "Starting", Width: 40, events: events}
}

func (m ProgressModel) Init() tea.Cmd {
	return pollTick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m.drain()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Notice = refuseNotice
		}
	case tea.WindowSizeMsg:
		m.Width = min(max(msg.Width-20, 10), 60)
	}
	return m, nil
}

// drain applies every event that is already queued without blocking.
func (m ProgressModel) drain() (tea.Model, tea.Cmd) {
	for {
		select {
		case e, ok := <-m.events:
			if !ok {
				m.finished = true
				return m, tea.Quit
			}
			m.apply(e)
		default:
			return m, pollTick()
		}
	}
}

func (m *ProgressModel) apply(e pipeline.Event) {
	switch e.Kind {
	case pipeline.EventStatus:
		m.Status = e.Message
	case pipeline.EventProgress:
		m.Done, m.Total = e.Done, e.Total
	default:
		m.Final = e
		if e.Total > 0 {
			m.Done, m.Total = e.Done, e.Total
		}
	}
}

func (m ProgressModel) percent() float64 {
	return pipeline.Event{Done: m.Done, Total: m.Total}.Percent()
}

func (m ProgressModel) View() string {
	if m.finished {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")
	b.WriteString(renderBar(m.percent(), m.Width))
	b.WriteString(fmt.Sprintf(" %3.0f%%", m.percent()))
	if m.Total > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", m.Done, m.Total)))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.Status))
	b.WriteString("\n")
	if m.Notice != "" {
		b.WriteString(StyleWarning.Render(m.Notice))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBar draws a bar of width cells filled to pct percent.
func renderBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// runProgressView shows the progress view until the run ends and returns
// the terminal event.
func runProgressView(events <-chan pipeline.Event, title string) (pipeline.Event, error) {
	p := tea.NewProgram(NewProgressModel(events, title), tea.WithoutSignalHandler())
	out, err := p.Run()
	if err != nil {
		return pipeline.Event{}, err
	}
	return out.(ProgressModel).Final, nil
}

// =============================================================================
// FormModel - Range and output entry
// =============================================================================

const (
	fieldStart = iota
	fieldEnd
	fieldOutput
	fieldCount
)

// rangeHint is shown when the range fields do not hold a valid range.
const rangeHint = "Please enter two integers where end > start."

// FormModel asks for the start, the end and the output path.
type FormModel struct {
	Values [fieldCount]string
	Focus  int
	Err    string

	// Submitted is set on a valid submit, Cancelled on esc or ctrl+c.
	Submitted bool
	Cancelled bool

	format string
}

// NewFormModel creates an empty form. format names the extension of the
// suggested output file.
func NewFormModel(format, output string) FormModel {
	m := FormModel{format: format}
	m.Values[fieldOutput] = output
	return m
}

func (m FormModel) Init() tea.Cmd {
	return nil
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.Focus = (m.Focus + 1) % fieldCount
	case tea.KeyShiftTab, tea.KeyUp:
		m.Focus = (m.Focus + fieldCount - 1) % fieldCount
	case tea.KeyBackspace:
		if v := []rune(m.Values[m.Focus]); len(v) > 0 {
			m.Values[m.Focus] = string(v[:len(v)-1])
		}
	case tea.KeyEnter:
		if m.Focus < fieldOutput && m.Values[m.Focus] != "" {
			m.Focus++
			return m, nil
		}
		if _, _, err := m.Range(); err != nil {
			m.Err = rangeHint
			return m, nil
		}
		m.Submitted = true
		return m, tea.Quit
	case tea.KeyRunes, tea.KeySpace:
		m.Values[m.Focus] += string(key.Runes)
		m.Err = ""
	}
	return m, nil
}

// Range parses the start and end fields and checks end > start.
func (m FormModel) Range() (int, int, error) {
	start, err1 := strconv.Atoi(strings.TrimSpace(m.Values[fieldStart]))
	end, err2 := strconv.Atoi(strings.TrimSpace(m.Values[fieldEnd]))
	if err1 != nil || err2 != nil || end <= start {
		return 0, 0, errors.New(errors.ErrCodeInvalidRange, rangeHint)
	}
	return start, end, nil
}

// Output returns the output path, or the default name for the range when
// the field is empty.
func (m FormModel) Output() string {
	if out := strings.TrimSpace(m.Values[fieldOutput]); out != "" {
		return out
	}
	start, end, err := m.Range()
	if err != nil {
		return ""
	}
	return pipeline.DefaultOutputName(start, end, m.format)
}

func (m FormModel) View() string {
	if m.Submitted || m.Cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render("QR label sheet"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab: next field  enter: generate  esc: quit"))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Start", "End", "Output"}
	for i, label := range labels {
		cursor := "  "
		value := formInputStyle.Render(m.Values[i])
		if i == m.Focus {
			cursor = formFocusStyle.Render("▸ ")
			value += formFocusStyle.Render("_")
		}
		if i == fieldOutput && m.Values[i] == "" {
			if def := m.Output(); def != "" {
				value += StyleDim.Render(def)
			}
		}
		b.WriteString(cursor + formLabelStyle.Render(label) + value + "\n")
	}

	if m.Err != "" {
		b.WriteString("\n" + StyleError.Render(m.Err) + "\n")
	}
	return b.String()
}

// formResult is what the form collected.
type formResult struct {
	start, end int
	output     string
	cancelled  bool
}

func runForm(format, output string) (formResult, error) {
	out, err := tea.NewProgram(NewFormModel(format, output)).Run()
	if err != nil {
		return formResult{}, err
	}
	m := out.(FormModel)
	if !m.Submitted {
		return formResult{cancelled: true}, nil
	}
	start, end, _ := m.Range()
	return formResult{start: start, end: end, output: m.Output()}, nil
}
