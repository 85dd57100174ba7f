package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors for notebook loading.
var (
	ErrNotFound          = errors.New("notebook file not found")
	ErrInvalidNotebook   = errors.New("invalid notebook document")
	ErrUnsupportedFormat = errors.New("unsupported nbformat version")
)

// MaxFileSize bounds the notebook files Load accepts (64MB).
var MaxFileSize int64 = 64 << 20

// Load reads and parses the notebook at path.
// Returns ErrNotFound wrapping the path when the file does not exist.
func Load(path string) (*Notebook, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat notebook: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrInvalidNotebook, path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path resolved by caller under the notebook directory
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}

	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Parse decodes a notebook document, upgrading nbformat 3 to 4.
func Parse(data []byte) (*Notebook, error) {
	var head struct {
		Format *int `json:"nbformat"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	if head.Format == nil {
		return nil, fmt.Errorf("%w: missing nbformat field", ErrInvalidNotebook)
	}

	switch *head.Format {
	case 4:
		var nb Notebook
		if err := json.Unmarshal(data, &nb); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
		}
		if err := validateCells(nb.Cells); err != nil {
			return nil, err
		}
		return &nb, nil
	case 3:
		return parseV3(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, *head.Format)
	}
}

func validateCells(cells []Cell) error {
	for i, c := range cells {
		switch c.Type {
		case CellCode, CellMarkdown, CellRaw:
		default:
			return fmt.Errorf("%w: cell %d has unknown type %q", ErrInvalidNotebook, i, c.Type)
		}
	}
	return nil
}

// v3 document shapes.
type (
	v3Notebook struct {
		Metadata   v3Metadata    `json:"metadata"`
		Worksheets []v3Worksheet `json:"worksheets"`
	}

	v3Metadata struct {
		Name string `json:"name"`
	}

	v3Worksheet struct {
		Cells []v3Cell `json:"cells"`
	}

	v3Cell struct {
		Type         string          `json:"cell_type"`
		Input        MultilineString `json:"input"`
		Source       MultilineString `json:"source"`
		Language     string          `json:"language"`
		Level        int             `json:"level"`
		PromptNumber *int            `json:"prompt_number"`
		Outputs      []v3Output      `json:"outputs"`
		Metadata     map[string]any  `json:"metadata"`
	}

	v3Output struct {
		Type         string                     `json:"output_type"`
		Stream       string                     `json:"stream"`
		PromptNumber *int                       `json:"prompt_number"`
		EName        string                     `json:"ename"`
		EValue       string                     `json:"evalue"`
		Traceback    []string                   `json:"traceback"`
		Metadata     map[string]any             `json:"metadata"`
		Text         MultilineString            `json:"text"`
		Raw          map[string]json.RawMessage `json:"-"`
	}
)

// v3MimeKeys maps nbformat 3 output keys to MIME types.
var v3MimeKeys = map[string]string{
	"text":       "text/plain",
	"html":       "text/html",
	"svg":        "image/svg+xml",
	"png":        "image/png",
	"jpeg":       "image/jpeg",
	"latex":      "text/latex",
	"json":       "application/json",
	"javascript": "application/javascript",
	"markdown":   "text/markdown",
	"pdf":        "application/pdf",
}

func parseV3(data []byte) (*Notebook, error) {
	var old v3Notebook
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}

	nb := &Notebook{
		Format:      4,
		FormatMinor: 0,
		Metadata:    Metadata{Title: old.Metadata.Name},
	}

	for _, ws := range old.Worksheets {
		for i, c := range ws.Cells {
			cell, err := upgradeCell(c)
			if err != nil {
				return nil, fmt.Errorf("%w: cell %d: %v", ErrInvalidNotebook, i, err)
			}
			if cell.Type == CellCode && c.Language != "" && nb.Metadata.LanguageInfo == nil {
				nb.Metadata.LanguageInfo = &LanguageInfo{Name: c.Language}
			}
			nb.Cells = append(nb.Cells, cell)
		}
	}
	return nb, nil
}

func upgradeCell(c v3Cell) (Cell, error) {
	switch c.Type {
	case CellCode:
		cell := Cell{
			Type:           CellCode,
			Source:         c.Input,
			ExecutionCount: c.PromptNumber,
			Metadata:       c.Metadata,
			Outputs:        make([]Output, 0, len(c.Outputs)),
		}
		for _, o := range c.Outputs {
			cell.Outputs = append(cell.Outputs, upgradeOutput(o))
		}
		return cell, nil
	case "heading":
		level := min(max(c.Level, 1), 6)
		src := strings.Repeat("#", level) + " " + strings.ReplaceAll(string(c.Source), "\n", " ")
		return Cell{Type: CellMarkdown, Source: MultilineString(src), Metadata: c.Metadata}, nil
	case CellMarkdown, CellRaw:
		return Cell{Type: c.Type, Source: c.Source, Metadata: c.Metadata}, nil
	case "html":
		return Cell{Type: CellMarkdown, Source: c.Source, Metadata: c.Metadata}, nil
	default:
		return Cell{}, fmt.Errorf("unknown cell type %q", c.Type)
	}
}

func upgradeOutput(o v3Output) Output {
	switch o.Type {
	case "stream":
		name := o.Stream
		if name == "" {
			name = "stdout"
		}
		return Output{Type: OutputStream, Name: name, Text: o.Text}
	case "pyerr":
		return Output{Type: OutputError, EName: o.EName, EValue: o.EValue, Traceback: o.Traceback}
	}

	out := Output{Type: OutputDisplayData, Metadata: o.Metadata, Data: MimeBundle{}}
	if o.Type == "pyout" {
		out.Type = OutputExecuteResult
		out.ExecutionCount = o.PromptNumber
	}
	for key, mime := range v3MimeKeys {
		value, ok := o.Raw[key]
		if !ok {
			continue
		}
		var ml MultilineString
		if err := json.Unmarshal(value, &ml); err == nil {
			out.Data[mime] = string(ml)
		} else {
			out.Data[mime] = string(value)
		}
	}
	return out
}

// UnmarshalJSON keeps the raw fields so MIME keys can be collected.
func (o *v3Output) UnmarshalJSON(data []byte) error {
	type plain v3Output
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &p.Raw); err != nil {
		return err
	}
	*o = v3Output(p)
	return nil
}
