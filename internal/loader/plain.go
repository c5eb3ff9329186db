package loader

import (
	"bufio"
	"bytes"
	"strings"

	"btt/internal/domain"
)

// Flat .steps layout: optional "case:", "title:" and "priority:" header
// lines, then one natural-language step per line. Blank lines and lines
// starting with # are skipped. A trailing "=> text" names the expected
// result and a trailing "[independent]" marks the step independent.
func (l *Loader) parsePlain(path string, data []byte) ([]*domain.TestCase, error) {
	var (
		id, title, priority string
		steps               []rawStep
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if len(steps) == 0 {
			if v, ok := headerValue(line, "case"); ok {
				id = v
				continue
			}
			if v, ok := headerValue(line, "title"); ok {
				title = v
				continue
			}
			if v, ok := headerValue(line, "priority"); ok {
				priority = v
				continue
			}
		}

		step := rawStep{description: line}
		if rest, ok := strings.CutSuffix(step.description, "[independent]"); ok {
			step.independent = true
			step.description = strings.TrimSpace(rest)
		}
		if cmd, expected, ok := strings.Cut(step.description, "=>"); ok {
			step.description = strings.TrimSpace(cmd)
			step.expected = strings.TrimSpace(expected)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.MalformedSourceError{Source: path, Reason: err.Error()}
	}

	tc, err := buildCase(path, id, title, priority, steps)
	if err != nil {
		return nil, err
	}
	return []*domain.TestCase{tc}, nil
}

// headerValue parses a "key: value" header line, matching the key
// case-insensitively
func headerValue(line, key string) (string, bool) {
	if len(line) <= len(key) || line[len(key)] != ':' {
		return "", false
	}
	if !strings.EqualFold(line[:len(key)], key) {
		return "", false
	}
	return strings.TrimSpace(line[len(key)+1:]), true
}
