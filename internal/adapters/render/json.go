package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/expense-bot/internal/ports"
)

const jsonIndent = "  "

// JSON re-encodes a gateway body with sorted object keys and two-space
// indentation. Numbers keep their original literal form.
func JSON(raw []byte) (string, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return "", fmt.Errorf("decode json: %w", err)
	}

	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", jsonIndent)
	if err := encoder.Encode(value); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	return strings.TrimRight(out.String(), "\n"), nil
}

type JSONRenderer struct{}

var _ ports.JSONRenderer = JSONRenderer{}

func (JSONRenderer) RenderJSON(raw []byte) (string, error) {
	return JSON(raw)
}
