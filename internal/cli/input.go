package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/timex"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// interactive reports whether r is a terminal a human can answer prompts on.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question; only "y" or "yes" count as consent.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	answer, err := GetSimpleText(reader, prompt+" [y/N]", w)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	out := make([]int64, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}

func parseStatus(s string) (models.ScholarshipStatus, error) {
	for _, st := range models.ScholarshipStatuses {
		if strings.EqualFold(string(st), s) || strings.EqualFold(strings.ReplaceAll(string(st), " ", "-"), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (want one of %s)", s, joinValues(models.ScholarshipStatuses))
}

func parseDocumentType(s string) (models.DocumentType, error) {
	for _, t := range models.DocumentTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q (want one of %s)", s, joinValues(models.DocumentTypes))
}

func parseDocumentStatus(s string) (models.DocumentStatus, error) {
	for _, st := range models.DocumentStatuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid document status %q (want one of %s)", s, joinValues(models.DocumentStatuses))
}

// parseTemplateItem reads "text" or "text|note".
func parseTemplateItem(s string) (models.TemplateItem, error) {
	text, note, _ := strings.Cut(s, "|")
	text = strings.TrimSpace(text)
	if text == "" {
		return models.TemplateItem{}, fmt.Errorf("template item %q has no text", s)
	}
	return models.TemplateItem{Text: text, Note: strings.TrimSpace(note)}, nil
}

func (a *App) parseDate(s string) (time.Time, error) {
	return timex.ParseDate(s, a.now().Location())
}

func joinValues[T ~string](vs []T) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
