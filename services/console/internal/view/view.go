// Package view prints fetched data and error states. It only formats; it
// never calls the backend.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table or json)", s)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	keyStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

type Renderer struct {
	w      io.Writer
	format Format
}

func New(w io.Writer, format Format) *Renderer {
	if format == "" {
		format = FormatTable
	}
	return &Renderer{w: w, format: format}
}

func (r *Renderer) Format() Format { return r.format }

// Column is one table column (or one key/value line) of a record type.
type Column[T any] struct {
	Title string
	Value func(T) string
}

// List prints rows as a table, or in JSON mode as the array itself.
func List[T any](r *Renderer, title string, cols []Column[T], rows []T) error {
	if r.format == FormatJSON {
		if rows == nil {
			rows = []T{}
		}
		return r.json(rows)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.w, mutedStyle.Render("No "+title+" found."))
		return err
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Title
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, item := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Value(item)
		}
		t.Row(cells...)
	}
	_, err := fmt.Fprintln(r.w, t.String())
	return err
}

// Record prints one item as aligned key/value lines.
func Record[T any](r *Renderer, cols []Column[T], item T) error {
	if r.format == FormatJSON {
		return r.json(item)
	}
	width := 0
	for _, c := range cols {
		width = max(width, lipgloss.Width(c.Title))
	}
	var b strings.Builder
	for _, c := range cols {
		value := c.Value(item)
		if value == "" {
			value = mutedStyle.Render("-")
		}
		fmt.Fprintf(&b, "%s  %s\n", keyStyle.Width(width).Render(c.Title), value)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Message prints a confirmation line such as "Service deleted.".
func (r *Renderer) Message(msg string) error {
	if r.format == FormatJSON {
		return r.json(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.w, CapitalizeFirstWord(msg))
	return err
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CapitalizeFirstWord upper-cases the first letter and leaves the rest as is.
func CapitalizeFirstWord(s string) string {
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}
