package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec maps a command name to a parse function. Specs are stateless and
// registered once at startup.
type Spec struct {
	Name  string
	Parse func(args string) (Command, bool)
}

// Registry holds the ordered list of command specs. Parsing scans the list
// positionally: the first spec whose name matches is asked to parse, and a
// failed parse lets the scan continue (names are unique today, so in
// practice a failed parse fails the whole lookup).
type Registry struct {
	specs []Spec
}

// NewRegistry returns a registry with all builtin command specs registered
// in their canonical order.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(touchSpec())
	r.Register(rmSpec())
	r.Register(writeSpec())
	r.Register(findSpec())
	r.Register(editAtSpec())
	r.Register(moveContentSpec())
	return r
}

// Register appends a spec to the scan order.
func (r *Registry) Register(spec Spec) {
	r.specs = append(r.specs, spec)
}

// Parse recognizes `:name args...` input and produces a Command, or reports
// false for chat input and for malformed command syntax alike. Malformed
// command syntax is deliberately indistinguishable from "no command" here;
// the caller drops such input instead of sending it to the model.
func (r *Registry) Parse(input string) (Command, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, ":") {
		return nil, false
	}

	name, args, _ := strings.Cut(trimmed[1:], " ")
	for _, spec := range r.specs {
		if spec.Name != name {
			continue
		}
		if cmd, ok := spec.Parse(args); ok {
			return cmd, true
		}
	}
	return nil, false
}

// parseUint parses a non-negative integer argument token.
func parseUint(tok string) (int, bool) {
	n, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func touchSpec() Spec {
	return Spec{
		Name: "touch",
		Parse: func(args string) (Command, bool) {
			fields := strings.Fields(args)
			if len(fields) == 0 {
				return nil, false
			}
			return &touchCommand{path: fields[0]}, true
		},
	}
}

func rmSpec() Spec {
	return Spec{
		Name: "rm",
		Parse: func(args string) (Command, bool) {
			fields := strings.Fields(args)
			if len(fields) == 0 {
				return nil, false
			}
			return &rmCommand{path: fields[0]}, true
		},
	}
}

func writeSpec() Spec {
	return Spec{
		Name: "write",
		Parse: func(args string) (Command, bool) {
			// First token is the path; everything after the first space is
			// kept verbatim, internal spaces included.
			path, content, _ := strings.Cut(args, " ")
			if path == "" {
				return nil, false
			}
			return &writeCommand{path: path, content: content}, true
		},
	}
}

func findSpec() Spec {
	return Spec{
		Name: "find",
		Parse: func(args string) (Command, bool) {
			pattern := ""
			if fields := strings.Fields(args); len(fields) > 0 {
				pattern = fields[0]
			}
			return &findCommand{pattern: pattern, root: "."}, true
		},
	}
}

func editAtSpec() Spec {
	return Spec{
		Name: "edit-at",
		Parse: func(args string) (Command, bool) {
			fields := strings.Fields(args)
			if len(fields) < 3 {
				return nil, false
			}
			path := fields[0]
			line, ok := parseUint(fields[1])
			if !ok {
				return nil, false
			}
			col, ok := parseUint(fields[2])
			if !ok {
				return nil, false
			}

			// The remainder after the three consumed tokens is the verbatim
			// insertion text. Input with irregular whitespace between the
			// tokens yields empty content rather than a guess.
			consumed := fmt.Sprintf("%s %d %d", path, line, col)
			content := ""
			if rest, found := strings.CutPrefix(args, consumed); found {
				if tail, spaced := strings.CutPrefix(rest, " "); spaced {
					content = tail
				}
			}

			return &editAtCommand{path: path, line: line, col: col, content: content}, true
		},
	}
}

func moveContentSpec() Spec {
	return Spec{
		Name: "move-content",
		Parse: func(args string) (Command, bool) {
			fields := strings.Fields(args)
			if len(fields) < 5 {
				return nil, false
			}
			startLine, ok := parseUint(fields[1])
			if !ok {
				return nil, false
			}
			endLine, ok := parseUint(fields[2])
			if !ok {
				return nil, false
			}
			dstLine, ok := parseUint(fields[4])
			if !ok {
				return nil, false
			}
			return &moveContentCommand{
				src:       fields[0],
				startLine: startLine,
				endLine:   endLine,
				dst:       fields[3],
				dstLine:   dstLine,
			}, true
		},
	}
}
