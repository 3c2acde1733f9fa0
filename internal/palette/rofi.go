package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// runner executes a launcher with stdin and returns its trimmed stdout and
// exit code.
type runner func(command string, args []string, stdin string) (string, int, error)

type launcher struct {
	command string
	// byIndex launchers print the selected row number instead of its text.
	byIndex bool
	// markup launchers render pango markup in rows.
	markup bool
	run    runner
}

func newLauncher(command string, run runner) *launcher {
	l := &launcher{command: command, run: run}
	switch command {
	case "rofi":
		l.byIndex, l.markup = true, true
	case "fuzzel":
		l.byIndex = true
	case "wofi":
		l.markup = true
	}
	return l
}

func (l *launcher) Name() string { return l.command }

func (l *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	rows := make([]Item, len(items))
	copy(rows, items)
	if !l.byIndex {
		disambiguate(rows)
	}

	lines := make([]string, len(rows))
	for i, item := range rows {
		lines[i] = l.formatRow(item)
	}

	out, code, err := l.run(l.command, l.args(prompt, message, rows), strings.Join(lines, "\n"))
	if err != nil {
		return Item{}, err
	}
	// 1 is "no selection" and 130 is Ctrl+C for every supported launcher.
	if out == "" || code == 1 || code == 130 {
		return Item{}, ErrCancelled
	}

	item, err := l.parseSelection(out, rows)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (l *launcher) args(prompt, message string, rows []Item) []string {
	switch l.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if active := indicesWhere(rows, func(it Item) bool { return it.IsActive && !it.IsHeader }); active != "" {
			args = append(args, "-a", active)
		}
		if urgent := indicesWhere(rows, func(it Item) bool { return it.IsUrgent && !it.IsHeader }); urgent != "" {
			args = append(args, "-u", urgent)
		}
		if row, ok := firstSelectable(rows); ok {
			args = append(args, "-selected-row", strconv.Itoa(row))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
		return args
	case "fuzzel":
		args := []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		return args
	case "wofi":
		args := []string{"--dmenu", "--allow-markup"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		return args
	default:
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}
}

func (l *launcher) formatRow(item Item) string {
	display := sanitizeLabel(item.Label)
	if l.markup {
		display = html.EscapeString(display)
		if item.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if l.command != "rofi" {
		return display
	}

	// rofi row properties: one NUL, then key/value pairs separated by \x1f.
	var attrs []string
	if item.IsHeader {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if item.Info != "" {
		attrs = append(attrs, "info", sanitizeRofiField(item.Info))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, rows []Item) (Item, error) {
	if l.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return rows[idx], nil
		}
	}
	for _, item := range rows {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

// disambiguate suffixes duplicate labels so text-matching launchers can
// tell rows apart.
func disambiguate(rows []Item) {
	seen := make(map[string]int)
	for i := range rows {
		if rows[i].IsHeader {
			continue
		}
		key := sanitizeLabel(rows[i].Label)
		if key == "" {
			continue
		}
		if count := seen[key]; count > 0 {
			rows[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
		}
		seen[key]++
	}
}

func firstSelectable(rows []Item) (int, bool) {
	first := -1
	for i, item := range rows {
		if item.IsHeader {
			continue
		}
		if item.IsActive {
			return i, true
		}
		if first == -1 {
			first = i
		}
	}
	return first, first != -1
}

func indicesWhere(rows []Item, keep func(Item) bool) string {
	var parts []string
	for i, item := range rows {
		if keep(item) {
			parts = append(parts, strconv.Itoa(i))
		}
	}
	return strings.Join(parts, ",")
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	r := strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ")
	return strings.TrimSpace(r.Replace(value))
}

func runCommand(command string, args []string, stdin string) (string, int, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err == nil {
		return selection, 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return "", 0, fmt.Errorf("%s failed: %w", command, err)
	}
	code := exitErr.ExitCode()
	if code == 1 || code == 130 {
		return selection, code, nil
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", code, fmt.Errorf("%s failed: %s", command, msg)
	}
	return "", code, fmt.Errorf("%s failed: %w", command, err)
}
