package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// TraceStatus classifies the effect of one traced stroke
type TraceStatus int

const (
	TraceIdle     TraceStatus = iota // No effect
	TraceMoved                       // Focus moved, value unchanged
	TraceAccepted                    // Value changed
)

// TraceRow is one line of a keystroke trace
type TraceRow struct {
	Label  string // The stroke, e.g. `type "1"`
	Cell   int    // Cell the stroke was applied to
	Value  string // Value after the stroke
	Note   string // Optional, e.g. "focus 0 → 1"
	Status TraceStatus
}

// Trace renders a list of strokes with a bar showing how many segments
// ended up filled
type Trace struct {
	Title  string
	Rows   []TraceRow
	Filled int // Filled segments after the last stroke
	Total  int // Segment count
	Width  int
	bar    progress.Model
}

// NewTrace creates a trace display
func NewTrace(title string, total int) *Trace {
	t := &Trace{Title: title, Total: total}
	return t.SetWidth(GetTerminalWidth())
}

// SetWidth sets the terminal width for responsive rendering
func (t *Trace) SetWidth(width int) *Trace {
	t.Width = width
	t.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(min(max(width-30, 20), 50)),
	)
	return t
}

// Add appends a row
func (t *Trace) Add(row TraceRow) *Trace {
	t.Rows = append(t.Rows, row)
	return t
}

// Percent returns the filled fraction shown by the bar
func (t *Trace) Percent() float64 {
	if t.Total <= 0 {
		return 0
	}
	return float64(t.Filled) / float64(t.Total)
}

// Render returns the styled trace as a string
func (t *Trace) Render() string {
	var b strings.Builder

	if t.Title != "" {
		b.WriteString(HeaderTitleStyle.Render(t.Title))
		b.WriteString("\n\n")
	}

	for i, row := range t.Rows {
		b.WriteString(t.renderRow(i+1, row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(
		fmt.Sprintf("%s  [%d/%d segments]", t.bar.ViewAs(t.Percent()), t.Filled, t.Total)))

	return b.String()
}

func (t *Trace) renderRow(n int, row TraceRow) string {
	var (
		marker string
		style  lipgloss.Style
	)
	switch row.Status {
	case TraceAccepted:
		marker, style = MarkerAccepted, StepAcceptedStyle
	case TraceMoved:
		marker, style = MarkerMoved, StepMovedStyle
	default:
		marker, style = MarkerIdle, StepIdleStyle
	}

	width := len(fmt.Sprint(len(t.Rows)))
	prefix := fmt.Sprintf("  [%*d] cell %d ", width, n, row.Cell)

	label := style.Render(row.Label)
	padding := max(24-lipgloss.Width(row.Label), 1)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(label)
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(style.Render(marker))
	b.WriteString("  ")
	b.WriteString(ResultValueStyle.Render(row.Value))
	if row.Note != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + row.Note + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (t *Trace) String() string {
	return t.Render()
}
