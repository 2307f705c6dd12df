package pageindex

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func TestSegments(t *testing.T) {
	tests := []struct {
		rel  string
		want []string
	}{
		{"index.md", nil},
		{"about.md", []string{"about"}},
		{"guides/index.md", []string{"guides"}},
		{"guides/setup.md", []string{"guides", "setup"}},
		{"a/b/c/index.md", []string{"a", "b", "c"}},
		{"a/b/c/leaf.md", []string{"a", "b", "c", "leaf"}},
	}
	for _, tt := range tests {
		got := segments(filepath.FromSlash(tt.rel))
		if len(got) != len(tt.want) {
			t.Errorf("segments(%q) = %v, want %v", tt.rel, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("segments(%q)[%d] = %q, want %q", tt.rel, i, got[i], tt.want[i])
			}
		}
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		segs []string
		want string
	}{
		{nil, "https://example.com/"},
		{[]string{"guides"}, "https://example.com/guides/"},
		{[]string{"guides", "setup"}, "https://example.com/guides/setup/"},
	}
	for _, tt := range tests {
		if got := pageURL("https://example.com", tt.segs); got != tt.want {
			t.Errorf("pageURL(%v) = %q, want %q", tt.segs, got, tt.want)
		}
	}
}

func TestBuildLeafPage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "guides/setup.md", `---
title: "Setup Guide"
tags: [intro]
---
Body text.
`)

	records, err := Build(root, Config{
		BaseLevel: "Docs",
		BaseURL:   "https://example.com",
		TagFields: []string{"tags"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.ObjectID != 1 {
		t.Errorf("objectID = %d, want 1", rec.ObjectID)
	}
	if rec.URL != "https://example.com/guides/setup/" {
		t.Errorf("url = %q", rec.URL)
	}
	wantLevels := []string{"Docs", "guides", "Setup Guide"}
	for i, want := range wantLevels {
		got := rec.Hierarchy.Get(i)
		if got == nil || *got != want {
			t.Errorf("hierarchy lvl%d = %v, want %q", i, got, want)
		}
	}
	if rec.Hierarchy.Get(3) != nil {
		t.Errorf("hierarchy lvl3 should be null")
	}
	if got := rec.HierarchyComplete.Get(2); got == nil || *got != "Docs > guides > Setup Guide" {
		t.Errorf("hierarchy_complete lvl2 = %v", got)
	}
	if got := rec.HierarchyComplete.Get(0); got == nil || *got != "Docs" {
		t.Errorf("hierarchy_complete lvl0 = %v, want bare base level", got)
	}
	for i := 0; i < NumLevels; i++ {
		radio := rec.HierarchyRadio.Get(i)
		if i == 2 {
			if radio == nil || *radio != "Setup Guide" {
				t.Errorf("hierarchy_radio lvl2 = %v, want Setup Guide", radio)
			}
		} else if radio != nil {
			t.Errorf("hierarchy_radio lvl%d = %q, want null", i, *radio)
		}
	}
	if rec.Type != "lvl2" {
		t.Errorf("type = %q, want lvl2", rec.Type)
	}
	if len(rec.Tags) != 1 || rec.Tags[0] != "intro" {
		t.Errorf("tags = %v, want [intro]", rec.Tags)
	}
	if rec.Anchor != nil {
		t.Errorf("anchor = %v, want null", rec.Anchor)
	}
	if rec.Weight != (Weight{Position: 1, Level: 2, PageRank: 0}) {
		t.Errorf("weight = %+v", rec.Weight)
	}
}

func TestBuildRootIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "Welcome home.\n")

	records, err := Build(root, Config{BaseLevel: "Docs", BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.URL != "https://example.com/" {
		t.Errorf("url = %q, want single trailing slash", rec.URL)
	}
	if got := rec.Hierarchy.Get(0); got == nil || *got != "Docs" {
		t.Errorf("hierarchy lvl0 = %v, want Docs", got)
	}
	if rec.Hierarchy.Get(1) != nil {
		t.Errorf("hierarchy lvl1 should be null for the root index page")
	}
	if rec.Type != "lvl0" {
		t.Errorf("type = %q, want lvl0", rec.Type)
	}
	if got := rec.HierarchyRadio.Get(0); got == nil || *got != "Docs" {
		t.Errorf("hierarchy_radio lvl0 = %v, want Docs", got)
	}
	if rec.Weight.Level != 0 {
		t.Errorf("weight.level = %d, want 0", rec.Weight.Level)
	}
}

func TestBuildRootIndexKeepsBaseLevel(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", `---
title: "Shiny Homepage"
---
Welcome.
`)

	records, err := Build(root, Config{BaseLevel: "Docs", BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// lvl0 is always the base level name, even when the root index page
	// declares a title.
	if got := records[0].Hierarchy.Get(0); got == nil || *got != "Docs" {
		t.Errorf("hierarchy lvl0 = %v, want Docs", got)
	}
}

func TestBuildLinktitleBeatsTitle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "guides/setup.md", `---
title: "Setup Guide"
linktitle: "Setup"
---
Body.
`)

	records, err := Build(root, Config{BaseLevel: "Docs", BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := records[0].Hierarchy.Get(2); got == nil || *got != "Setup" {
		t.Errorf("hierarchy lvl2 = %v, want linktitle value", got)
	}
	if got := records[0].HierarchyRadio.Get(2); got == nil || *got != "Setup" {
		t.Errorf("hierarchy_radio lvl2 = %v, want linktitle value", got)
	}
}

func TestBuildWalkOrderIsLexical(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "c.md", "c\n")
	writeFile(t, root, "a.md", "a\n")
	writeFile(t, root, "b/x.md", "x\n")

	records, err := Build(root, Config{BaseLevel: "Docs", BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var urls []string
	for i, rec := range records {
		if rec.ObjectID != i+1 {
			t.Errorf("objectID[%d] = %d, want contiguous from 1", i, rec.ObjectID)
		}
		urls = append(urls, rec.URL)
	}
	want := []string{
		"http://localhost/a/",
		"http://localhost/b/x/",
		"http://localhost/c/",
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("url[%d] = %q, want %q (lexical walk order)", i, urls[i], want[i])
		}
	}
}

func TestBuildDeclaredContentSoftError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page.md", `---
content: "declared text"
---
Body that should be ignored.
`)

	var diag bytes.Buffer
	records, err := Build(root, Config{BaseLevel: "Docs", BaseURL: "http://localhost", Diag: &diag})
	if err != nil {
		t.Fatalf("Build should continue on a declared content key: %v", err)
	}
	if records[0].Content != "declared text" {
		t.Errorf("content = %q, want declared value verbatim", records[0].Content)
	}
	if !strings.Contains(diag.String(), "Frontmatter key 'content' exists") {
		t.Errorf("expected soft error on diagnostic channel, got: %q", diag.String())
	}
}

func TestBuildMalformedFrontmatterFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.md", "fine\n")
	writeFile(t, root, "zbad.md", "---\ntags: [one, two\n---\nbody\n")

	_, err := Build(root, Config{BaseLevel: "Docs", BaseURL: "http://localhost"})
	if err == nil {
		t.Fatal("expected malformed frontmatter to abort the run")
	}
	if !strings.Contains(err.Error(), "zbad.md") {
		t.Errorf("error should name the offending file, got: %v", err)
	}
}

func TestBuildMissingRoot(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nope"), Config{BaseLevel: "Docs"}); err == nil {
		t.Fatal("expected error for a missing content dir")
	}
}

func TestEncodeShape(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "guides/setup.md", `---
title: "A <em>fancy</em> title"
---
Text with <angle> brackets & ampersands.
`)

	records, err := Build(root, Config{BaseLevel: "Docs", BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var out bytes.Buffer
	if err := Encode(&out, records); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s := out.String()

	// All seven hierarchy slots are always serialized.
	for _, key := range []string{"lvl0", "lvl1", "lvl2", "lvl3", "lvl4", "lvl5", "lvl6"} {
		if !strings.Contains(s, "\""+key+"\"") {
			t.Errorf("output missing hierarchy key %s", key)
		}
	}
	if !strings.Contains(s, "\"anchor\": null") {
		t.Error("anchor should serialize as null")
	}
	if !strings.Contains(s, "\"tags\": []") {
		t.Error("tags should serialize as an empty array, not null")
	}
	if strings.Contains(s, `\u003c`) || strings.Contains(s, `\u0026`) {
		t.Error("HTML characters should not be escaped in the output")
	}
	if !strings.Contains(s, "<em>") {
		t.Error("expected literal angle brackets in the output")
	}
}

func TestEncodeEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := Encode(&out, []PageRecord{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("empty index should encode as [], got %q", out.String())
	}
}
