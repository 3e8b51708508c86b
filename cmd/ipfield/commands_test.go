package main

import (
	"strings"
	"testing"

	"github.com/muurk/ipfield/internal/segment"
	"github.com/muurk/ipfield/internal/ui"
)

func TestBuildTrace(t *testing.T) {
	strokes, err := segment.ParseScript("192,left")
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	editor := segment.NewEditor("")
	trace := buildTrace(segment.Replay(editor, strokes), editor.Segments())

	if len(trace.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(trace.Rows))
	}

	tests := []struct {
		row    int
		label  string
		status ui.TraceStatus
		note   string
	}{
		{0, `type '1'`, ui.TraceAccepted, ""},
		{2, `type '2'`, ui.TraceAccepted, "focus 0 → 1"},
		{3, "key left", ui.TraceMoved, "focus 1 → 0"},
	}
	for _, tt := range tests {
		row := trace.Rows[tt.row]
		if row.Label != tt.label {
			t.Errorf("row %d Label = %q, want %q", tt.row, row.Label, tt.label)
		}
		if row.Status != tt.status {
			t.Errorf("row %d Status = %v, want %v", tt.row, row.Status, tt.status)
		}
		if row.Note != tt.note {
			t.Errorf("row %d Note = %q, want %q", tt.row, row.Note, tt.note)
		}
	}

	if trace.Filled != 1 {
		t.Errorf("Filled = %d, want 1", trace.Filled)
	}
	if !strings.Contains(trace.Render(), "192...") {
		t.Error("rendered trace does not show the value")
	}
}

func TestStrokeLabel(t *testing.T) {
	tests := []struct {
		stroke segment.Stroke
		want   string
	}{
		{segment.Stroke{Kind: segment.StrokeType, Char: '7'}, `type '7'`},
		{segment.Stroke{Kind: segment.StrokeKey, Key: segment.KeyBackspace}, "key " + segment.KeyBackspace.String()},
		{segment.Stroke{Kind: segment.StrokeSet, Text: "10.0.0.1"}, "set:10.0.0.1"},
		{segment.Stroke{Kind: segment.StrokeFocus, Index: 2}, "focus:2"},
	}
	for _, tt := range tests {
		if got := strokeLabel(tt.stroke); got != tt.want {
			t.Errorf("strokeLabel(%v) = %q, want %q", tt.stroke, got, tt.want)
		}
	}
}
