package nbtag

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSplitTag - Tag name and markup
// ---------------------------------------------------------------------------

func TestSplitTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		inner      string
		wantName   string
		wantMarkup string
	}{
		{inner: " notebook demo.ipynb ", wantName: "notebook", wantMarkup: " demo.ipynb"},
		{inner: "notebook\n  demo.ipynb cells[1:2]", wantName: "notebook", wantMarkup: "\n  demo.ipynb cells[1:2]"},
		{inner: " notebook ", wantName: "notebook", wantMarkup: ""},
		{inner: "img /a.png", wantName: "img", wantMarkup: " /a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.inner, func(t *testing.T) {
			t.Parallel()

			name, markup := splitTag(tt.inner)
			if name != tt.wantName || markup != tt.wantMarkup {
				t.Errorf("splitTag(%q) = (%q, %q), want (%q, %q)", tt.inner, name, markup, tt.wantName, tt.wantMarkup)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpand - Tags in page text
// ---------------------------------------------------------------------------

func TestExpand(t *testing.T) {
	t.Parallel()

	s := newSite(t, map[string]string{"demo.ipynb": fixtureV4})
	p := newTestProcessor(t, s.options(WithExporter(&fakeExporter{css: "x"}))...)

	page := "# Post\n\n{% notebook demo.ipynb cells[1:2] %}\n\n" +
		"{% img /images/a.png %}\n\n" +
		"{%notebook demo.ipynb%}\n"

	got, err := p.Expand(context.Background(), page)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	if strings.Contains(got, "{% notebook") || strings.Contains(got, "{%notebook") {
		t.Errorf("notebook tags should be replaced:\n%s", got)
	}
	if !strings.Contains(got, "{% img /images/a.png %}") {
		t.Errorf("unknown tags must be left untouched:\n%s", got)
	}
	if !strings.HasPrefix(got, "# Post\n\n") {
		t.Errorf("surrounding text changed:\n%s", got)
	}

	restored := p.Stash().(*HTMLStash).Restore(got)
	if strings.Count(restored, "<div>fake</div>") != 2 {
		t.Errorf("restored page should hold two fragments:\n%s", restored)
	}
}

func TestExpand_NoTags(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t, WithExporter(&fakeExporter{}))
	page := "plain text with {{ braces }} and % signs"

	got, err := p.Expand(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	if got != page {
		t.Errorf("Expand() = %q, want input unchanged", got)
	}
}

func TestExpand_Errors(t *testing.T) {
	t.Parallel()

	s := newSite(t, nil)
	p := newTestProcessor(t, s.options(WithExporter(&fakeExporter{}))...)

	tests := []struct {
		name    string
		page    string
		wantErr error
	}{
		{name: "missing path", page: "{% notebook %}", wantErr: ErrMalformedDirective},
		{name: "missing file", page: "text {% notebook nope.ipynb %}", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := p.Expand(context.Background(), tt.page)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expand() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Expand(ctx, "{% notebook nope.ipynb %}")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expand() error = %v, want context.Canceled", err)
		}
	})
}
