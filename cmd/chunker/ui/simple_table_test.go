package ui

import (
	"strings"
	"testing"
)

func summaryLines(t *testing.T, table *SimpleTable) []string {
	t.Helper()
	view := table.View(NewStyles(LightTheme()))
	if view == "" {
		t.Fatal("expected a rendered table")
	}
	return strings.Split(strings.TrimRight(view, "\n"), "\n")
}

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Chunks", Column{Header: "#", Numeric: true}, Column{Header: "Emails", Numeric: true})
	table.AddRow("1", "25")
	table.AddRow("2", "3")

	view := table.View(NewStyles(LightTheme()))

	if !strings.Contains(view, "Chunks") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "Emails") || !strings.Contains(view, "25") {
		t.Errorf("View missing content:\n%s", view)
	}
}

func TestSimpleTable_NumericColumnsAlignRight(t *testing.T) {
	table := NewSimpleTable("", Column{Header: "Length", Numeric: true}, Column{Header: "First"})
	table.AddRow("120", "a@x.com")
	table.AddRow("7", "b@x.com")

	lines := summaryLines(t, table)
	// header, divider, two rows
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	long := strings.Index(lines[2], "120")
	short := strings.Index(lines[3], "7")
	if long < 0 || short < 0 || short != long+2 {
		t.Errorf("expected right-aligned numbers, got:\n%s\n%s", lines[2], lines[3])
	}
	if strings.Index(lines[2], "a@x.com") != strings.Index(lines[3], "b@x.com") {
		t.Errorf("expected left-aligned text column:\n%s\n%s", lines[2], lines[3])
	}
}

func TestSimpleTable_TruncatesWideCells(t *testing.T) {
	table := NewSimpleTable("", Column{Header: "First", MaxWidth: 8})
	table.AddRow("someone.long@example.com")

	lines := summaryLines(t, table)
	if !strings.Contains(lines[2], "someone…") {
		t.Errorf("expected truncated cell, got %q", lines[2])
	}
	if strings.Contains(lines[2], "example") {
		t.Errorf("cell not truncated: %q", lines[2])
	}
}

func TestSimpleTable_Footer(t *testing.T) {
	table := NewSimpleTable("", Column{Header: "Chunk", Numeric: true}, Column{Header: "Length", Numeric: true})
	table.AddRow("1", "2", "dropped")
	table.SetFooter("Total", "2")

	lines := summaryLines(t, table)
	// header, divider, row, divider, footer
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[4], "Total") {
		t.Errorf("expected footer last, got %q", lines[4])
	}
	if strings.Contains(strings.Join(lines, "\n"), "dropped") {
		t.Error("cells past the last column should be dropped")
	}
}

func TestSimpleTable_EmptyRendersNothing(t *testing.T) {
	table := NewSimpleTable("Chunks", Column{Header: "#"})
	if got := table.View(NewStyles(LightTheme())); got != "" {
		t.Errorf("expected empty view, got %q", got)
	}
}
