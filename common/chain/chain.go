// Package chain builds the request chain: a dash-joined, append-only list of
// segment ids recording how a request fanned out across service hops.
package chain

import (
	"strings"

	"github.com/google/uuid"
)

// Separator joins the segments of a chain.
const Separator = "-"

// SegmentLength is the number of hex characters in a generated segment.
const SegmentLength = 12

// Generator produces chain segments. Segments must be unique within the process
// and must not contain Separator.
type Generator interface {
	NewSegment() string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() string

func (f GeneratorFunc) NewSegment() string { return f() }

// UUIDGenerator derives segments from random UUIDs with the dashes stripped.
type UUIDGenerator struct{}

func (UUIDGenerator) NewSegment() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:SegmentLength]
}

// Default is the generator used when none is configured.
var Default Generator = UUIDGenerator{}

// Extend appends a new segment to existing. When ok is false a fresh single
// segment chain is returned instead.
func Extend(gen Generator, existing string, ok bool) string {
	if gen == nil {
		gen = Default
	}
	segment := gen.NewSegment()
	if !ok {
		return segment
	}
	return existing + Separator + segment
}

// Segments splits a chain into its segments, oldest first.
func Segments(chain string) []string {
	if chain == "" {
		return nil
	}
	return strings.Split(chain, Separator)
}

// Depth is the number of hops recorded in chain.
func Depth(chain string) int {
	return len(Segments(chain))
}

// Last returns the segment appended by the most recent hop.
func Last(chain string) string {
	if i := strings.LastIndex(chain, Separator); i >= 0 {
		return chain[i+len(Separator):]
	}
	return chain
}
