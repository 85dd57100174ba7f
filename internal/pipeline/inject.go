package pipeline

import (
	"context"
	"strings"
)

// HeadInjector defines the contract for markup injection into the document head.
type HeadInjector interface {
	InjectHead(ctx context.Context, htmlContent, markup string) string
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// HeadInjection inserts trusted markup, such as the notebook header, into
// the document head.
type HeadInjection struct{}

// InjectHead inserts markup before </head>, falling back to after <body>
// and then to prepending. Markup is inserted verbatim.
func (h *HeadInjection) InjectHead(ctx context.Context, htmlContent, markup string) string {
	if markup == "" || ctx.Err() != nil {
		return htmlContent
	}
	return insertInHead(htmlContent, markup)
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}
	return insertInHead(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

func insertInHead(htmlContent, block string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + block + htmlContent[insertPos:]
		}
	}

	return block + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
