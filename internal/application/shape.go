package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/expense-bot/internal/domain"
)

var errArity = errors.New("wrong number of arguments")

type FieldKind int

const (
	FieldString FieldKind = iota
	FieldAmount
)

type Field struct {
	Name string
	Kind FieldKind
}

// Shape describes the positional arguments of a command. Trailing, when set,
// names a free-text field built from every remaining token joined by single
// spaces; it may be empty.
type Shape struct {
	Fields   []Field
	Trailing string
}

func (s Shape) Parse(tokens []string) (Args, error) {
	args := Args{text: map[string]string{}, amounts: map[string]domain.Amount{}}

	// Commands without arguments ignore whatever the user typed after them.
	if len(s.Fields) == 0 && s.Trailing == "" {
		return args, nil
	}

	if s.Trailing == "" && len(tokens) != len(s.Fields) {
		return Args{}, fmt.Errorf("%w: want %d, got %d", errArity, len(s.Fields), len(tokens))
	}
	if len(tokens) < len(s.Fields) {
		return Args{}, fmt.Errorf("%w: want at least %d, got %d", errArity, len(s.Fields), len(tokens))
	}

	for i, field := range s.Fields {
		switch field.Kind {
		case FieldAmount:
			amount, err := domain.ParseAmount(tokens[i])
			if err != nil {
				return Args{}, fmt.Errorf("%s: %w", field.Name, err)
			}
			args.amounts[field.Name] = amount
		default:
			args.text[field.Name] = tokens[i]
		}
	}

	if s.Trailing != "" {
		args.text[s.Trailing] = strings.Join(tokens[len(s.Fields):], " ")
	}

	return args, nil
}

type Args struct {
	text    map[string]string
	amounts map[string]domain.Amount
}

func (a Args) Text(name string) string {
	return a.text[name]
}

func (a Args) Amount(name string) domain.Amount {
	return a.amounts[name]
}
