// Package tools provides the background file-command model: parsing,
// the ordered spec registry, and asynchronous execution.
package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Command is a parsed, ready-to-run background operation. A Command is
// immutable after parse and is consumed exactly once by Execute, which runs
// on its own goroutine and touches nothing but the filesystem.
type Command interface {
	// Name returns the command's registered name, for logging.
	Name() string

	// Execute performs the operation and returns a human-readable success
	// message or the underlying filesystem error.
	Execute(ctx context.Context) (string, error)
}

// splitLines splits text into lines the way the offset arithmetic expects:
// a trailing newline does not produce an empty final line, and empty text
// has no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineStartOffset walks line boundaries and returns the byte offset of the
// start of the 1-based target line, summing len(line)+1 for every prior
// line. Out-of-range targets fall through to whatever partial sum was
// reached, clamped to the end of text.
func lineStartOffset(text string, line int) int {
	offset := 0
	for i, l := range splitLines(text) {
		if i+1 == line {
			break
		}
		offset += len(l) + 1
	}
	if offset > len(text) {
		offset = len(text)
	}
	return offset
}

// ----- touch -----

type touchCommand struct {
	path string
}

func (c *touchCommand) Name() string { return "touch" }

func (c *touchCommand) Execute(ctx context.Context) (string, error) {
	if err := os.WriteFile(c.path, []byte{}, 0644); err != nil {
		return "", err
	}
	return "File created", nil
}

// ----- rm -----

type rmCommand struct {
	path string
}

func (c *rmCommand) Name() string { return "rm" }

func (c *rmCommand) Execute(ctx context.Context) (string, error) {
	if err := os.Remove(c.path); err != nil {
		return "", err
	}
	return "File deleted", nil
}

// ----- write -----

type writeCommand struct {
	path    string
	content string
}

func (c *writeCommand) Name() string { return "write" }

func (c *writeCommand) Execute(ctx context.Context) (string, error) {
	if err := os.WriteFile(c.path, []byte(c.content), 0644); err != nil {
		return "", err
	}
	return "File written", nil
}

// ----- find -----

type findCommand struct {
	pattern string
	root    string
}

func (c *findCommand) Name() string { return "find" }

func (c *findCommand) Execute(ctx context.Context) (string, error) {
	var found []string
	err := filepath.WalkDir(c.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(d.Name(), c.pattern) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Matched %d files:\n%s", len(found), strings.Join(found, "\n")), nil
}

// ----- edit-at -----

type editAtCommand struct {
	path    string
	line    int
	col     int
	content string
}

func (c *editAtCommand) Name() string { return "edit-at" }

func (c *editAtCommand) Execute(ctx context.Context) (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", err
	}
	text := string(data)

	offset := 0
	for i, l := range splitLines(text) {
		if i+1 == c.line {
			offset += min(c.col, len(l))
			break
		}
		offset += len(l) + 1
	}
	if offset > len(text) {
		offset = len(text)
	}

	text = text[:offset] + c.content + text[offset:]
	if err := os.WriteFile(c.path, []byte(text), 0644); err != nil {
		return "", err
	}
	return "Content inserted", nil
}

// ----- move-content -----

type moveContentCommand struct {
	src       string
	startLine int
	endLine   int
	dst       string
	dstLine   int
}

func (c *moveContentCommand) Name() string { return "move-content" }

func (c *moveContentCommand) Execute(ctx context.Context) (string, error) {
	srcData, err := os.ReadFile(c.src)
	if err != nil {
		return "", err
	}
	dstData, err := os.ReadFile(c.dst)
	if err != nil {
		return "", err
	}
	dstText := string(dstData)

	lines := splitLines(string(srcData))
	start := c.startLine - 1
	if start < 0 {
		start = 0
	}
	end := min(c.endLine, len(lines))
	if start > end {
		start = end
	}
	moving := strings.Join(lines[start:end], "\n")

	var newSrc strings.Builder
	for i, l := range lines {
		if i < start || i >= end {
			newSrc.WriteString(l)
			newSrc.WriteByte('\n')
		}
	}

	offset := lineStartOffset(dstText, c.dstLine)
	newDst := dstText[:offset] + moving + "\n" + dstText[offset:]

	if err := os.WriteFile(c.src, []byte(newSrc.String()), 0644); err != nil {
		return "", err
	}
	if err := os.WriteFile(c.dst, []byte(newDst), 0644); err != nil {
		return "", err
	}
	return "Content moved", nil
}
