package export

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attachmentScheme prefixes image sources that refer to cell attachments.
const attachmentScheme = "attachment:"

// RewriteAttachments replaces attachment:<name> image sources in rendered
// Markdown with the URL returned by resolve. Sources resolve cannot map are
// left unchanged. Returns the fragment unchanged when it has no attachment
// references.
func RewriteAttachments(fragment string, resolve func(name string) (string, bool)) (string, error) {
	if !strings.Contains(fragment, attachmentScheme) {
		return fragment, nil
	}

	nodes, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	for _, n := range nodes {
		rewriteAttachmentNode(n, resolve)
	}
	return renderFragment(nodes)
}

func rewriteAttachmentNode(n *html.Node, resolve func(string) (string, bool)) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !strings.HasPrefix(attr.Val, attachmentScheme) {
				continue
			}
			if url, ok := resolve(strings.TrimPrefix(attr.Val, attachmentScheme)); ok {
				n.Attr[i].Val = url
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteAttachmentNode(c, resolve)
	}
}

// parseFragment parses HTML in a <body> context so no wrapper elements are added.
func parseFragment(content string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	return html.ParseFragment(strings.NewReader(content), context)
}

func renderFragment(nodes []*html.Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
