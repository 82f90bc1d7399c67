package extraction

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

//go:embed prompt.md
var defaultPrompt string

// Prompt is the embedded template plus operator instructions. The
// instructions are plain text and are appended after rendering.
type Prompt struct {
	tmpl         *template.Template
	instructions string
}

type promptData struct {
	FileName string
	Kind     domain.FileKind
}

// LoadPrompt builds the extraction prompt from the embedded default plus
// every *.md file in dir (sorted, README.md skipped). An empty dir means
// the default prompt only.
func LoadPrompt(dir string) (*Prompt, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(strings.TrimSpace(defaultPrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	prompt := &Prompt{tmpl: tmpl}

	if dir != "" {
		extra, err := readInstructions(dir)
		if err != nil {
			return nil, err
		}
		prompt.instructions = strings.Join(extra, "\n\n")
	}

	return prompt, nil
}

func readInstructions(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}
	sort.Strings(paths)

	var parts []string
	for _, path := range paths {
		if strings.EqualFold(filepath.Base(path), "README.md") {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %q: %w", path, err)
		}

		if text := strings.TrimSpace(string(data)); text != "" {
			parts = append(parts, text)
		}
	}

	return parts, nil
}

func (p *Prompt) Render(file *domain.ReceiptFile) (string, error) {
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, promptData{FileName: file.Name, Kind: file.Kind}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	if p.instructions != "" {
		sb.WriteString("\n\n")
		sb.WriteString(p.instructions)
	}

	return sb.String(), nil
}
