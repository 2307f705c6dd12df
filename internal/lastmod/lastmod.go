// Package lastmod rewrites the lastmod field inside a markdown file's YAML
// frontmatter block, as a single-pass line filter.
package lastmod

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

// DefaultField is the frontmatter field rewritten when none is configured.
const DefaultField = "lastmod"

// Options control a rewrite run.
type Options struct {
	// Field is the frontmatter field to rewrite; defaults to "lastmod".
	Field   string
	Verbose bool
	// Debug emits every input line, quoted, to the diagnostic channel.
	Debug bool
	// DryRun computes everything but writes nothing.
	DryRun bool
	// Now supplies the timestamp; defaults to time.Now.
	Now func() time.Time
	// Diag receives diagnostics; defaults to os.Stderr.
	Diag io.Writer
}

func (o Options) field() string {
	if o.Field == "" {
		return DefaultField
	}
	return o.Field
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) diag() io.Writer {
	if o.Diag != nil {
		return o.Diag
	}
	return os.Stderr
}

// Timestamp formats t as ISO 8601 local time with a colon in the zone
// offset, the form Hugo expects in lastmod.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05-07:00")
}

// Rewrite copies src to dst line by line. Inside the first frontmatter block
// (between two lines starting with "---"), lines beginning with the field
// name are replaced by a fresh timestamp line; if the block closes without
// one, the timestamp line is inserted immediately before the closing
// delimiter. Everything else passes through unchanged, line endings
// included. Returns the number of input lines read.
func (o Options) Rewrite(src io.Reader, dst io.Writer) (int, error) {
	diag := o.diag()
	stamp := o.field() + ": " + Timestamp(o.now()) + "\n"
	r := bufio.NewReader(src)

	var (
		inBlock bool
		closed  bool
		found   bool
		lines   int
	)
	for {
		line, readErr := r.ReadString('\n')
		if line != "" {
			lines++
			if o.Debug {
				fmt.Fprintf(diag, "DEBUG: %q\n", line)
			}
			switch {
			case !closed && strings.HasPrefix(line, "---"):
				if inBlock {
					inBlock = false
					closed = true
					if !found {
						if _, err := io.WriteString(dst, stamp); err != nil {
							return lines, err
						}
					}
				} else {
					inBlock = true
				}
				if _, err := io.WriteString(dst, line); err != nil {
					return lines, err
				}
			case inBlock && strings.HasPrefix(line, o.field()):
				found = true
				if _, err := io.WriteString(dst, stamp); err != nil {
					return lines, err
				}
			default:
				if _, err := io.WriteString(dst, line); err != nil {
					return lines, err
				}
			}
		}
		if readErr == io.EOF {
			return lines, nil
		}
		if readErr != nil {
			return lines, readErr
		}
	}
}

// RewriteFile rewrites path in place, or to outPath when non-empty. The
// whole file is read up front so an in-place write never races the read.
func (o Options) RewriteFile(path, outPath string) error {
	diag := o.diag()
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if o.Verbose {
		fmt.Fprintf(diag, "Reading from file: '%s'\n", path)
	}

	var buf bytes.Buffer
	n, err := o.Rewrite(bytes.NewReader(raw), &buf)
	if err != nil {
		return err
	}
	if o.Verbose {
		fmt.Fprintf(diag, "Read %d lines from file '%s'.\n", n, path)
	}

	dest := outPath
	if dest == "" {
		dest = path
	}
	if o.DryRun {
		if o.Verbose {
			fmt.Fprintf(diag, "Dryrun: Not writing to '%s'\n", dest)
		}
		return nil
	}
	if o.Verbose {
		fmt.Fprintf(diag, "Saving to '%s'\n", dest)
	}

	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(dest, buf.Bytes(), mode); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// RewriteStream rewrites src to dst, or to outPath when non-empty. Used for
// the stdin path, where there is no source file to write back to.
func (o Options) RewriteStream(src io.Reader, dst io.Writer, outPath string) error {
	diag := o.diag()
	if o.Verbose {
		fmt.Fprintf(diag, "Reading from stdin\n")
	}

	var buf bytes.Buffer
	n, err := o.Rewrite(src, &buf)
	if err != nil {
		return err
	}
	if o.Verbose {
		fmt.Fprintf(diag, "Read %d lines from stdin.\n", n)
	}

	if o.DryRun {
		if o.Verbose {
			target := outPath
			if target == "" {
				target = "stdout"
			}
			fmt.Fprintf(diag, "Dryrun: Not writing to '%s'\n", target)
		}
		return nil
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		return nil
	}
	_, err = dst.Write(buf.Bytes())
	return err
}
