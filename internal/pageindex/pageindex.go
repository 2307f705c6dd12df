// Package pageindex builds a docsearch-compatible JSON index from a tree of
// Hugo markdown files with YAML frontmatter.
package pageindex

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	markdownExt = ".md"
	// indexFile represents its containing directory rather than a leaf page.
	indexFile = "index.md"
	// crumbSep joins breadcrumb prefixes in hierarchy_complete.
	crumbSep = " > "
)

// Config holds one indexing run's settings, built once from parsed flags and
// threaded through the run. No mutation after construction.
type Config struct {
	// BaseLevel is the lvl0 breadcrumb name for every record.
	BaseLevel string
	// BaseURL prefixes every record URL. No trailing slash; the URL join
	// supplies one.
	BaseURL string
	// TagFields lists the frontmatter fields aggregated, in order, into each
	// record's tags.
	TagFields []string
	Verbose   bool
	// Diag receives diagnostics; defaults to os.Stderr.
	Diag io.Writer
}

func (c Config) diag() io.Writer {
	if c.Diag != nil {
		return c.Diag
	}
	return os.Stderr
}

// Build walks root and assembles one PageRecord per markdown file.
// filepath.WalkDir yields lexical order, so objectIDs are reproducible
// across runs on an unchanged tree.
//
// A frontmatter parse failure aborts the whole run. A page whose
// frontmatter already declares content is a soft error: logged, run
// continues with the declared value.
func Build(root string, cfg Config) ([]PageRecord, error) {
	records := []PageRecord{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), markdownExt) {
			return nil
		}
		rec, err := buildRecord(p, root, len(records)+1, cfg)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		fmt.Fprintf(cfg.diag(), "Done indexing %s files in '%s'\n", markdownExt, root)
	}
	return records, nil
}

func buildRecord(filePath, root string, id int, cfg Config) (PageRecord, error) {
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		return PageRecord{}, err
	}
	segs := segments(rel)
	url := pageURL(cfg.BaseURL, segs)

	if cfg.Verbose {
		fmt.Fprintf(cfg.diag(), "Indexing '%s' (%s)\n", filePath, url)
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return PageRecord{}, fmt.Errorf("read %s: %w", filePath, err)
	}
	page, err := ParsePage(raw)
	if err != nil {
		return PageRecord{}, fmt.Errorf("%s: %w", filePath, err)
	}
	if page.ContentDeclared {
		fmt.Fprintf(cfg.diag(), "ERROR: Could not store content for '%s'. Frontmatter key 'content' exists!\n", filePath)
	}

	list := append([]string{cfg.BaseLevel}, segs...)
	// The display title replaces the leaf segment, but never the base level:
	// hierarchy lvl0 is the base level name for every record.
	if len(list) > 1 {
		if t := page.DisplayTitle(); t != "" {
			list[len(list)-1] = t
		}
	}
	depth := len(list) - 1

	rec := PageRecord{
		ObjectID: id,
		URL:      url,
		Content:  page.Content,
		Tags:     page.TagValues(cfg.TagFields),
		Type:     fmt.Sprintf("lvl%d", depth),
	}
	for lvl := 0; lvl < NumLevels && lvl < len(list); lvl++ {
		rec.Hierarchy.Set(lvl, list[lvl])
		rec.HierarchyComplete.Set(lvl, strings.Join(list[:lvl+1], crumbSep))
	}
	rec.HierarchyRadio.Set(depth, list[depth])

	w := defaultWeight
	w.Level = depth
	rec.Weight = w

	return rec, nil
}

// segments derives the breadcrumb segments for a markdown file from its
// path relative to the content root. An index file represents its containing
// directory and contributes no segment of its own; any other file becomes a
// synthetic leaf named after it with the extension stripped.
func segments(rel string) []string {
	rel = filepath.ToSlash(rel)
	dir, name := path.Split(rel)
	dir = strings.Trim(dir, "/")

	var segs []string
	if dir != "" {
		segs = strings.Split(dir, "/")
	}
	if name != indexFile {
		segs = append(segs, strings.TrimSuffix(name, markdownExt))
	}
	return segs
}

// pageURL joins the base URL, the segments, and a trailing empty segment so
// every URL ends in a slash. An empty segment list collapses to baseURL plus
// a single slash.
func pageURL(base string, segs []string) string {
	parts := make([]string, 0, len(segs)+2)
	parts = append(parts, base)
	parts = append(parts, segs...)
	parts = append(parts, "")
	return strings.Join(parts, "/")
}

// Encode writes records as a pretty-printed JSON array with HTML characters
// left unescaped, the shape the docsearch bulk upload expects.
func Encode(w io.Writer, records []PageRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
