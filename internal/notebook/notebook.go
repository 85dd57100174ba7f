// Package notebook loads Jupyter notebook documents and selects cell ranges.
//
// Documents in nbformat 4 are decoded directly. Older nbformat 3 documents
// (worksheets, "input" sources, pyout/pyerr outputs) are upgraded in memory so
// the rest of the pipeline only ever sees the version 4 shape.
package notebook

import (
	"encoding/json"
	"maps"
	"strings"
)

// Cell types.
const (
	CellCode     = "code"
	CellMarkdown = "markdown"
	CellRaw      = "raw"
)

// Output types.
const (
	OutputStream        = "stream"
	OutputDisplayData   = "display_data"
	OutputExecuteResult = "execute_result"
	OutputError         = "error"
)

// defaultLanguage is reported when the notebook metadata names no kernel language.
const defaultLanguage = "python"

// Notebook is an ordered sequence of cells plus document metadata.
type Notebook struct {
	Cells       []Cell   `json:"cells"`
	Metadata    Metadata `json:"metadata"`
	Format      int      `json:"nbformat"`
	FormatMinor int      `json:"nbformat_minor"`
}

// Metadata holds the notebook-level metadata used during rendering.
type Metadata struct {
	KernelSpec   *KernelSpec   `json:"kernelspec,omitempty"`
	LanguageInfo *LanguageInfo `json:"language_info,omitempty"`
	Title        string        `json:"title,omitempty"`
}

// KernelSpec describes the kernel the notebook was written for.
type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

// LanguageInfo describes the kernel language.
type LanguageInfo struct {
	Name           string `json:"name"`
	PygmentsLexer  string `json:"pygments_lexer,omitempty"`
	FileExtension  string `json:"file_extension,omitempty"`
	CodemirrorMode any    `json:"codemirror_mode,omitempty"`
}

// Cell is one unit of a notebook: code, markdown or raw text.
type Cell struct {
	Type           string                `json:"cell_type"`
	Source         MultilineString       `json:"source"`
	ExecutionCount *int                  `json:"execution_count,omitempty"`
	Outputs        []Output              `json:"outputs,omitempty"`
	Attachments    map[string]MimeBundle `json:"attachments,omitempty"`
	Metadata       map[string]any        `json:"metadata,omitempty"`
}

// Output is one result attached to a code cell.
type Output struct {
	Type           string          `json:"output_type"`
	Name           string          `json:"name,omitempty"`
	Text           MultilineString `json:"text,omitempty"`
	Data           MimeBundle      `json:"data,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	EName          string          `json:"ename,omitempty"`
	EValue         string          `json:"evalue,omitempty"`
	Traceback      []string        `json:"traceback,omitempty"`
}

// MimeBundle maps MIME types to their content. Binary types hold base64 text;
// JSON-valued types hold their compact JSON encoding.
type MimeBundle map[string]string

// UnmarshalJSON accepts strings, lists of strings and arbitrary JSON values.
func (b *MimeBundle) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(MimeBundle, len(raw))
	for mime, value := range raw {
		var ml MultilineString
		if err := json.Unmarshal(value, &ml); err == nil {
			out[mime] = string(ml)
			continue
		}
		out[mime] = string(value)
	}
	*b = out
	return nil
}

// MultilineString is a notebook text field, stored on disk either as a single
// string or as a list of lines.
type MultilineString string

// UnmarshalJSON joins list-of-lines values.
func (s *MultilineString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = MultilineString(single)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*s = MultilineString(strings.Join(lines, ""))
	return nil
}

// String returns the joined text.
func (s MultilineString) String() string {
	return string(s)
}

// Language reports the kernel language, falling back to python.
func (nb *Notebook) Language() string {
	if nb.Metadata.LanguageInfo != nil && nb.Metadata.LanguageInfo.Name != "" {
		return nb.Metadata.LanguageInfo.Name
	}
	if nb.Metadata.KernelSpec != nil && nb.Metadata.KernelSpec.Language != "" {
		return nb.Metadata.KernelSpec.Language
	}
	return defaultLanguage
}

// Clone returns a deep copy of the notebook.
func (nb *Notebook) Clone() *Notebook {
	if nb == nil {
		return nil
	}
	c := *nb
	c.Metadata = nb.Metadata.clone()
	if nb.Cells != nil {
		c.Cells = make([]Cell, len(nb.Cells))
		for i := range nb.Cells {
			c.Cells[i] = nb.Cells[i].Clone()
		}
	}
	return &c
}

func (m Metadata) clone() Metadata {
	c := m
	if m.KernelSpec != nil {
		ks := *m.KernelSpec
		c.KernelSpec = &ks
	}
	if m.LanguageInfo != nil {
		li := *m.LanguageInfo
		c.LanguageInfo = &li
	}
	return c
}

// Clone returns a deep copy of the cell.
func (c Cell) Clone() Cell {
	out := c
	out.ExecutionCount = cloneInt(c.ExecutionCount)
	out.Metadata = cloneAnyMap(c.Metadata)
	if c.Outputs != nil {
		out.Outputs = make([]Output, len(c.Outputs))
		for i := range c.Outputs {
			out.Outputs[i] = c.Outputs[i].Clone()
		}
	}
	if c.Attachments != nil {
		out.Attachments = make(map[string]MimeBundle, len(c.Attachments))
		for name, bundle := range c.Attachments {
			out.Attachments[name] = maps.Clone(bundle)
		}
	}
	return out
}

// Clone returns a deep copy of the output.
func (o Output) Clone() Output {
	out := o
	out.Data = maps.Clone(o.Data)
	out.Metadata = cloneAnyMap(o.Metadata)
	out.ExecutionCount = cloneInt(o.ExecutionCount)
	if o.Traceback != nil {
		out.Traceback = append([]string(nil), o.Traceback...)
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneAnyMap copies decoded JSON values; nested maps and slices are copied too.
func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneAnyMap(t)
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = cloneAny(t[i])
		}
		return s
	default:
		return v
	}
}
