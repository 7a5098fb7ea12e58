package synapse

import (
	"fmt"
	"strings"
)

// segmentKind represents the kind of pattern segment
type segmentKind int

const (
	literalSegment segmentKind = iota
	singleWildcard
	multiWildcard
)

// patternSegment is one dot-separated part of a name pattern
type patternSegment struct {
	kind    segmentKind
	literal string
}

// NamePattern matches dotted event names. "*" matches exactly one segment
// and "**" matches any number of segments, including none.
type NamePattern struct {
	raw      string
	segments []patternSegment
}

// NewNamePattern parses and validates a pattern string
func NewNamePattern(pattern string) (*NamePattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("name pattern is empty")
	}

	parts := strings.Split(pattern, ".")
	segments := make([]patternSegment, 0, len(parts))
	for _, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("name pattern %q has an empty segment", pattern)
		case part == "*":
			segments = append(segments, patternSegment{kind: singleWildcard})
		case part == "**":
			segments = append(segments, patternSegment{kind: multiWildcard})
		case strings.Contains(part, "*"):
			return nil, fmt.Errorf("name pattern %q mixes wildcard and literal text in segment %q", pattern, part)
		default:
			segments = append(segments, patternSegment{kind: literalSegment, literal: part})
		}
	}

	return &NamePattern{raw: pattern, segments: segments}, nil
}

// MustNamePattern is NewNamePattern that panics on invalid patterns
func MustNamePattern(pattern string) *NamePattern {
	p, err := NewNamePattern(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Raw returns the original pattern string
func (p *NamePattern) Raw() string {
	return p.raw
}

// Matches reports whether the dotted event name matches the pattern
func (p *NamePattern) Matches(name string) bool {
	if name == "" {
		return false
	}
	return matchSegments(p.segments, strings.Split(name, "."))
}

func matchSegments(pattern []patternSegment, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}

	switch seg := pattern[0]; seg.kind {
	case multiWildcard:
		for i := 0; i <= len(name); i++ {
			if matchSegments(pattern[1:], name[i:]) {
				return true
			}
		}
		return false
	case singleWildcard:
		return len(name) > 0 && matchSegments(pattern[1:], name[1:])
	default:
		return len(name) > 0 && name[0] == seg.literal && matchSegments(pattern[1:], name[1:])
	}
}
