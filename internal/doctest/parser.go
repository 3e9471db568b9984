// Package doctest runs the testable example blocks embedded in markdown
// documentation. A fenced code block opts in with a "testable" annotation:
//
//	```go testable id="create-partner" needs="client" creates="res.partner" expect="result > 0"
//	...example body...
//	```
//
// Blocks tagged js run directly in an embedded interpreter with the injected
// dependencies bridged in. Bodies in other languages are documentation;
// executing them requires a Go function registered under the block's id.
package doctest

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/odoogo/odoogo/internal/common/apperrors"
)

// Block is one testable example extracted from a markdown file.
type Block struct {
	ID      string
	Lang    string
	Needs   []string // dependency names to inject: client, inspector
	Creates string   // model whose created record id should be cleaned up
	Expect  string   // javascript expression evaluated against the result
	Body    string
	File    string
	Line    int // line of the opening fence, 1-based
}

const fenceMarker = "```"

// ParseFile extracts the testable blocks from one markdown file.
func ParseFile(path string) ([]Block, apperrors.Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrParse.Msg("cannot open " + path).Err(err)
	}
	defer f.Close()

	blocks := []Block{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Block
	var body []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if current != nil {
			if trimmed == fenceMarker {
				current.Body = strings.Join(body, "\n")
				blocks = append(blocks, *current)
				current = nil
				body = nil
				continue
			}
			body = append(body, line)
			continue
		}

		if !strings.HasPrefix(trimmed, fenceMarker) {
			continue
		}
		info := strings.TrimPrefix(trimmed, fenceMarker)
		block, ok, perr := parseInfoString(info)
		if perr != nil {
			return nil, perr.Msg(path + " line " + strconv.Itoa(lineNo))
		}
		if !ok {
			// an ordinary fenced block; skip to its closing fence
			for scanner.Scan() {
				lineNo++
				if strings.TrimSpace(scanner.Text()) == fenceMarker {
					break
				}
			}
			continue
		}
		block.File = path
		block.Line = lineNo
		current = &block
	}
	if err := scanner.Err(); err != nil {
		return nil, ErrParse.Msg("cannot read " + path).Err(err)
	}
	if current != nil {
		return nil, ErrParse.Msg(path + ": unterminated testable block " + current.ID)
	}

	seen := map[string]bool{}
	for _, b := range blocks {
		if b.ID == "" {
			return nil, ErrParse.Msg(path + ": testable block without id")
		}
		if seen[b.ID] {
			return nil, ErrParse.Msg(path + ": duplicate block id " + b.ID)
		}
		seen[b.ID] = true
	}
	return blocks, nil
}

// parseInfoString parses a fence info string. Returns ok=false for fences
// without the testable annotation; their info strings are documentation
// (mermaid titles, highlighter options) and are never validated.
func parseInfoString(info string) (Block, bool, apperrors.Error) {
	fields := splitInfo(info)
	testable := false
	for _, field := range fields {
		if field == "testable" {
			testable = true
			break
		}
	}
	if !testable {
		return Block{}, false, nil
	}

	b := Block{}
	for i, field := range fields {
		if i == 0 && !strings.Contains(field, "=") && field != "testable" {
			b.Lang = field
			continue
		}
		if field == "testable" {
			continue
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return Block{}, false, ErrParse.Msg("malformed fence attribute: " + field)
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "id":
			b.ID = value
		case "needs":
			for _, n := range strings.Split(value, ",") {
				if n = strings.TrimSpace(n); n != "" {
					b.Needs = append(b.Needs, n)
				}
			}
		case "creates":
			b.Creates = value
		case "expect":
			b.Expect = value
		default:
			return Block{}, false, ErrParse.Msg("unknown fence attribute: " + key)
		}
	}
	return b, true, nil
}

// splitInfo splits an info string on spaces, keeping quoted values intact.
func splitInfo(info string) []string {
	fields := []string{}
	var b strings.Builder
	inQuote := false
	for _, r := range strings.TrimSpace(info) {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == ' ' && !inQuote:
			if b.Len() > 0 {
				fields = append(fields, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		fields = append(fields, b.String())
	}
	return fields
}

