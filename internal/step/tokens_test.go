package step

import "testing"

func TestParseTokens(t *testing.T) {
	toks := ParseTokens("https://example.com/{site}/search?q={query}&l={lang:en:[en,de, fr]}&s={sort:[asc,desc]:asc}")
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(toks))
	}
	if toks[0].Name != "site" || toks[0].Default != nil || toks[0].Options != nil {
		t.Fatalf("unexpected first token: %+v", toks[0])
	}
	lang := toks[2]
	if lang.Name != "lang" || lang.Default == nil || *lang.Default != "en" {
		t.Fatalf("unexpected lang token: %+v", lang)
	}
	if len(lang.Options) != 3 || lang.Options[2] != "fr" {
		t.Fatalf("unexpected lang options: %v", lang.Options)
	}
	sort := toks[3]
	if sort.Default == nil || *sort.Default != "asc" || len(sort.Options) != 2 {
		t.Fatalf("options before default not parsed: %+v", sort)
	}
}

func TestFromTemplateNoTokens(t *testing.T) {
	if c := FromTemplate("https://example.com"); c != nil {
		t.Fatalf("expected nil chain for template without tokens")
	}
	c := FromTemplate("echo {a} {b:1}")
	if c.Len() != 2 {
		t.Fatalf("expected 2 steps, got %d", c.Len())
	}
}

func TestExpand(t *testing.T) {
	tpl := "https://x.test/?q={query}&l={lang:en}"
	got, err := Expand(tpl, map[string]string{"query": "go"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "https://x.test/?q=go&l=en" {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if _, err := Expand(tpl, nil); err == nil {
		t.Fatalf("expected error for missing query")
	}
}
