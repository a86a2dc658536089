/*
 * vr4300sim - Command parser.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package parser tokenizes and dispatches debug console input lines
// against a running CPU: examine/deposit registers, examine TLB entries
// and cache geometry, single step, free-run, and show pipeline state and
// the cycle count.
package parser

import (
	"errors"
	"strings"
	"unicode"

	cmd "github.com/rcornwell/vr4300sim/command/command"
)

type cmdEntry struct {
	name     string
	min      int
	process  func(*cmdLine, *cmd.Target) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmdEntry{
	{name: "examine", min: 1, process: examine, complete: examineComplete},
	{name: "deposit", min: 1, process: deposit},
	{name: "step", min: 2, process: step},
	{name: "continue", min: 1, process: cont},
	{name: "stop", min: 3, process: stop},
	{name: "show", min: 2, process: show, complete: showComplete},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand executes one console input line against target.
func ProcessCommand(commandLine string, target *cmd.Target) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("unique command not found: " + name)
	}
	return match[0].process(&line, target)
}

// CompleteCmd returns liner tab-completion candidates for commandLine.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	matches := make([]string, len(match))
	for i, m := range match {
		matches[i] = m.name
	}
	return matches
}

func matchCommand(entry cmdEntry, name string) bool {
	if len(name) > len(entry.name) {
		return false
	}
	for i := range name {
		if entry.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= entry.min
}

func matchList(name string) []cmdEntry {
	if name == "" {
		return nil
	}
	var match []cmdEntry
	for _, e := range cmdList {
		if matchCommand(e, name) {
			match = append(match, e)
		}
	}
	return match
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line) || line.line[line.pos] == '#'
}

func (line *cmdLine) getNext() byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	return line.line[line.pos]
}

// getWord returns the next space-delimited lowercase token, or "" at EOL.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}

	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return strings.ToLower(line.line[start:line.pos])
}

// rest returns everything left on the line, trimmed, for commands that
// parse their own argument grammar.
func (line *cmdLine) rest() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	return strings.TrimSpace(line.line[line.pos:])
}
