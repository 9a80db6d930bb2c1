package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LayoutExtension is appended to named layouts to form the layout file.
const LayoutExtension = ".kdl"

// DefaultLayoutFile is the layout reference used when no layout is named.
const DefaultLayoutFile = "default"

// LayoutKind distinguishes the default layout from a named layout file.
type LayoutKind string

const (
	LayoutDefault   LayoutKind = "default"
	LayoutNamedFile LayoutKind = "file"
)

// Layout describes which layout the switched-to session should use.
type Layout struct {
	Kind LayoutKind `json:"kind"`
	Name string     `json:"name,omitempty"`
}

// DefaultLayout returns the default layout descriptor.
func DefaultLayout() Layout {
	return Layout{Kind: LayoutDefault}
}

// NamedLayout returns a descriptor for the layout file called name.
// An empty name yields the default layout.
func NamedLayout(name string) Layout {
	if name == "" {
		return DefaultLayout()
	}
	return Layout{Kind: LayoutNamedFile, Name: name}
}

// IsDefault reports whether l is the default layout.
func (l Layout) IsDefault() bool {
	return l.Kind != LayoutNamedFile
}

// File returns the layout reference handed to the multiplexer: "<name>.kdl"
// for a named layout, "default" otherwise. The name is not validated.
func (l Layout) File() string {
	if l.IsDefault() {
		return DefaultLayoutFile
	}
	return l.Name + LayoutExtension
}

func (l Layout) String() string {
	if l.IsDefault() {
		return "default"
	}
	return "file:" + l.Name
}

// Action is a resolved session switch.
type Action struct {
	Session string `json:"session"`
	Layout  Layout `json:"layout"`
	// Cwd is empty when the command did not name a working directory.
	Cwd string `json:"cwd,omitempty"`
}

func (a Action) String() string {
	if a.Cwd == "" {
		return fmt.Sprintf("%s (layout %s)", a.Session, a.Layout)
	}
	return fmt.Sprintf("%s (layout %s, cwd %s)", a.Session, a.Layout, a.Cwd)
}

// IndexResolver looks up a session by roster position.
type IndexResolver interface {
	ResolveIndex(i int) (string, bool)
}

// Resolve turns req into an Action. It reports false when there is nothing to
// do: no target, an empty target, or a positional target past the end of the
// roster.
// A non-numeric target is used verbatim as the session name, whether or not
// the roster knows it.
func Resolve(req Request, sessions IndexResolver) (Action, bool) {
	if req.Target == "" {
		return Action{}, false
	}

	name := req.Target
	if idx, ok := parseIndex(req.Target); ok {
		if idx > math.MaxInt {
			return Action{}, false
		}
		var found bool
		name, found = sessions.ResolveIndex(int(idx))
		if !found {
			return Action{}, false
		}
	}

	return Action{
		Session: name,
		Layout:  NamedLayout(req.Layout),
		Cwd:     req.Cwd,
	}, true
}

// parseIndex reads s as an unsigned decimal with an optional leading '+'.
// Values that overflow uint64 are not indexes.
func parseIndex(s string) (uint64, bool) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
