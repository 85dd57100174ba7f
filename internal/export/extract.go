package export

import (
	"encoding/base64"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-nbtag/internal/notebook"
)

// DefaultOutputFilenameTemplate names extracted outputs when no template is set.
const DefaultOutputFilenameTemplate = "{unique_key}_{cell_index}_{index}{extension}"

// DefaultUniqueKey is the {unique_key} value used when Config.UniqueKey is empty.
const DefaultUniqueKey = "output"

// attachmentKey replaces {unique_key} for extracted Markdown attachments.
const attachmentKey = "attachment"

// filenamesKey is the output metadata entry mapping MIME types to extracted names.
const filenamesKey = "filenames"

// extractMIMETypes lists the output types moved out of the HTML into files.
var extractMIMETypes = []string{"image/png", "image/jpeg", "image/svg+xml", "application/pdf"}

// mimeExtensions maps extracted MIME types to file extensions.
var mimeExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
}

// OutputFilename expands a filename template. Supported placeholders are
// {unique_key}, {cell_index}, {index} and {extension}.
func OutputFilename(tmpl, uniqueKey string, cellIndex int, index, extension string) string {
	if tmpl == "" {
		tmpl = DefaultOutputFilenameTemplate
	}
	r := strings.NewReplacer(
		"{unique_key}", uniqueKey,
		"{cell_index}", strconv.Itoa(cellIndex),
		"{index}", index,
		"{extension}", extension,
	)
	// Templates are slash-separated like URLs; keep them that way on every OS.
	return path.Clean(r.Replace(tmpl))
}

// extractOutputs moves binary outputs of every code cell into res.Outputs and
// records the generated names under each output's "filenames" metadata.
// nb must be a private copy: its outputs are modified.
func extractOutputs(nb *notebook.Notebook, cfg Config, res *Resources) error {
	for i := range nb.Cells {
		cell := &nb.Cells[i]
		if cell.Type != notebook.CellCode {
			continue
		}
		cellIndex := cfg.CellOffset + i
		for j := range cell.Outputs {
			out := &cell.Outputs[j]
			if out.Type != notebook.OutputDisplayData && out.Type != notebook.OutputExecuteResult {
				continue
			}
			for _, mime := range extractMIMETypes {
				content, ok := out.Data[mime]
				if !ok {
					continue
				}
				data, err := decodeOutputData(mime, content)
				if err != nil {
					return fmt.Errorf("cell %d output %d: %w", cellIndex, j, err)
				}
				name := OutputFilename(cfg.OutputFilenameTemplate, cfg.uniqueKey(), cellIndex, strconv.Itoa(j), mimeExtensions[mime])
				res.Outputs[name] = data
				setExtractedName(out, mime, name)
			}
		}
	}
	return nil
}

// resolveAttachments returns a resolver for the attachment:<name> references
// of one Markdown cell. With extraction enabled, attachments are written to
// res.Outputs; otherwise they are inlined as data URIs.
func resolveAttachments(cell notebook.Cell, cellIndex int, cfg Config, res *Resources) (func(string) (string, bool), error) {
	names := make([]string, 0, len(cell.Attachments))
	for name := range cell.Attachments {
		names = append(names, name)
	}
	sort.Strings(names)

	urls := make(map[string]string, len(names))
	for idx, name := range names {
		mime, content, ok := pickImage(cell.Attachments[name])
		if !ok {
			continue
		}
		if !cfg.ExtractOutputs {
			urls[name] = dataURI(mime, content)
			continue
		}
		data, err := decodeOutputData(mime, content)
		if err != nil {
			return nil, fmt.Errorf("cell %d attachment %q: %w", cellIndex, name, err)
		}
		ext := mimeExtensions[mime]
		if ext == "" {
			ext = path.Ext(name)
		}
		filename := OutputFilename(cfg.OutputFilenameTemplate, attachmentKey, cellIndex, strconv.Itoa(idx), ext)
		res.Outputs[filename] = data
		urls[name] = filename
	}

	return func(name string) (string, bool) {
		u, ok := urls[name]
		return u, ok
	}, nil
}

// pickImage returns the first image representation of an attachment bundle.
func pickImage(bundle notebook.MimeBundle) (mime, content string, ok bool) {
	for _, m := range []string{"image/png", "image/jpeg", "image/gif", "image/svg+xml"} {
		if c, found := bundle[m]; found {
			return m, c, true
		}
	}
	return "", "", false
}

// decodeOutputData returns the bytes of an output. SVG is stored as text;
// every other extracted type is base64.
func decodeOutputData(mime, content string) ([]byte, error) {
	if mime == "image/svg+xml" {
		return []byte(content), nil
	}
	data, err := base64.StdEncoding.DecodeString(stripWhitespace(content))
	if err != nil {
		return nil, fmt.Errorf("decoding %s data: %w", mime, err)
	}
	return data, nil
}

func dataURI(mime, content string) string {
	if mime == "image/svg+xml" {
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(content))
	}
	return "data:" + mime + ";base64," + stripWhitespace(content)
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}

func setExtractedName(out *notebook.Output, mime, name string) {
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	filenames, _ := out.Metadata[filenamesKey].(map[string]any)
	if filenames == nil {
		filenames = map[string]any{}
		out.Metadata[filenamesKey] = filenames
	}
	filenames[mime] = name
}

// extractedName returns the file an output MIME type was extracted to.
func extractedName(out notebook.Output, mime string) (string, bool) {
	filenames, _ := out.Metadata[filenamesKey].(map[string]any)
	name, ok := filenames[mime].(string)
	return name, ok
}
