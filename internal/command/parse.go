// Package command turns a pipe payload into a session switch.
//
// A payload is a shell-quoted argument line such as
//
//	session-select 2 --layout work --cwd ~/src
//
// Parse splits it into words and reads the recognized options; Resolve then
// maps the target onto the session roster, either by position or by name.
package command

import (
	"strings"
	"unicode/utf8"

	"github.com/google/shlex"

	perrors "github.com/zhubert/sessionhop/internal/errors"
)

// DefaultReserved lists the words the invoking command aliases put in front
// of the real arguments. They are never treated as targets.
var DefaultReserved = []string{"session-select", "session-index"}

type option int

const (
	optTarget option = iota
	optCwd
	optLayout
)

var longOptions = map[string]option{
	"target": optTarget,
	"cwd":    optCwd,
	"layout": optLayout,
}

var shortOptions = map[rune]option{
	'c': optCwd,
	'l': optLayout,
}

// Request is a parsed command. Empty Cwd and Layout were not supplied.
type Request struct {
	// Target is a session name or a non-negative position in the roster.
	Target string
	// HasTarget is set once any target was given, even an empty one.
	HasTarget bool
	// Cwd is the working directory for the session.
	Cwd string
	// Layout is the bare layout name, without extension.
	Layout string
}

// Parser parses pipe payloads. The zero value has no reserved words; use
// NewParser for the defaults.
type Parser struct {
	reserved map[string]struct{}
}

// NewParser returns a Parser that ignores the given reserved words as bare
// targets. With no arguments DefaultReserved is used; an explicitly empty
// slice reserves nothing.
func NewParser(reserved ...string) *Parser {
	if reserved == nil {
		reserved = DefaultReserved
	}
	p := &Parser{reserved: make(map[string]struct{}, len(reserved))}
	for _, w := range reserved {
		p.reserved[w] = struct{}{}
	}
	return p
}

// IsReserved reports whether word is excluded from bare targets.
func (p *Parser) IsReserved(word string) bool {
	_, ok := p.reserved[word]
	return ok
}

// Parse splits raw with POSIX shell rules and parses the resulting words.
// A payload that cannot be split (unbalanced quotes, trailing backslash)
// parses as an empty request rather than failing.
func (p *Parser) Parse(raw string) (Request, error) {
	words, err := shlex.Split(raw)
	if err != nil {
		words = nil
	}
	return p.ParseArgs(words)
}

// ParseArgs parses already split words.
//
// Recognized options each take one value, either as the next word or
// attached (--layout=work, -lwork, -l=work). Unknown options are skipped
// without consuming a value. After "--" every word is bare. The first bare
// word that is not reserved becomes the target unless one is already set;
// --target always replaces it.
func (p *Parser) ParseArgs(args []string) (Request, error) {
	var req Request
	optionsDone := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case optionsDone || arg == "-" || !strings.HasPrefix(arg, "-"):
			p.bare(&req, arg)

		case arg == "--":
			optionsDone = true

		case strings.HasPrefix(arg, "--"):
			name, attached, hasAttached := strings.Cut(arg[2:], "=")
			flag := "--" + name
			opt, known := longOptions[name]
			if !known {
				if hasAttached {
					return Request{}, perrors.CommandUnexpectedValue(flag)
				}
				continue
			}
			value := attached
			if !hasAttached {
				if i+1 >= len(args) {
					return Request{}, perrors.CommandMissingValue(flag)
				}
				i++
				value = args[i]
			}
			if err := req.set(opt, flag, value); err != nil {
				return Request{}, err
			}

		default:
			consumedNext, err := p.shortCluster(&req, arg[1:], args[i+1:])
			if err != nil {
				return Request{}, err
			}
			if consumedNext {
				i++
			}
		}
	}
	return req, nil
}

// shortCluster handles "-xyz". The first recognized option takes the rest of
// the cluster as its value, or the next word when the cluster ends there.
func (p *Parser) shortCluster(req *Request, cluster string, rest []string) (bool, error) {
	var unknown rune
	for j, c := range cluster {
		if c == '=' && unknown != 0 {
			return false, perrors.CommandUnexpectedValue("-" + string(unknown))
		}
		opt, known := shortOptions[c]
		if !known {
			unknown = c
			continue
		}

		flag := "-" + string(c)
		_, size := utf8.DecodeRuneInString(cluster[j:])
		tail := cluster[j+size:]
		if tail != "" {
			return false, req.set(opt, flag, strings.TrimPrefix(tail, "="))
		}
		if len(rest) == 0 {
			return false, perrors.CommandMissingValue(flag)
		}
		return true, req.set(opt, flag, rest[0])
	}
	return false, nil
}

func (p *Parser) bare(req *Request, arg string) {
	word := strings.ToValidUTF8(arg, string(utf8.RuneError))
	if req.HasTarget || p.IsReserved(word) {
		return
	}
	req.Target = word
	req.HasTarget = true
}

func (r *Request) set(opt option, flag, value string) error {
	switch opt {
	case optTarget:
		if !utf8.ValidString(value) {
			return perrors.CommandInvalidValue(flag)
		}
		r.Target = value
		r.HasTarget = true
	case optCwd:
		r.Cwd = value
	case optLayout:
		if !utf8.ValidString(value) {
			return perrors.CommandInvalidValue(flag)
		}
		r.Layout = value
	}
	return nil
}
