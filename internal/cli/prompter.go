package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/taxonomy"
)

// ErrInputTerminated is returned when stdin closes before an answer is given.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks interactive questions on a terminal.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading answers from r and writing to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: NewLineReader(r),
		writer: w,
	}
}

// Confirm asks a yes/no question. An empty answer means no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	choice, err := p.promptChoice(ctx, question+" [s/N]", []string{"", "s", "sim", "y", "yes", "n", "nao", "não", "no"})
	if err != nil {
		return false, err
	}

	switch choice {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// SelectCategory lists the taxonomy and lets the user pick an entry by
// number or key.
func (p *Prompter) SelectCategory(ctx context.Context, tax *taxonomy.Taxonomy) (model.Category, error) {
	categories := tax.Categories()

	if err := RenderCategories(p.writer, tax); err != nil {
		return model.Category{}, fmt.Errorf("failed to list categories: %w", err)
	}

	valid := make([]string, 0, 2*len(categories))
	for i, c := range categories {
		valid = append(valid, strconv.Itoa(i+1), c.Key)
	}

	choice, err := p.promptChoice(ctx, "Categoria", valid)
	if err != nil {
		return model.Category{}, err
	}

	if n, convErr := strconv.Atoi(choice); convErr == nil {
		return categories[n-1], nil
	}
	c, _ := tax.Lookup(choice)
	return c, nil
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrInputTerminated
			}
			return "", err
		}

		choice := strings.ToLower(input)
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Opção inválida, tente novamente.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}
