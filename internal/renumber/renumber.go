// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package renumber rewrites interactive console prompt markers so that
// transcripts carry consecutive cell numbers.
//
// Two marker forms are recognized, bit for bit:
//
//	In [<payload>]:
//	Out[<payload>]:
//
// Every In marker advances the counter (or resets it, see directive.go) and
// every Out marker is rendered with the counter's current value. Text that
// does not match either form is copied through unchanged.
package renumber

import (
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	inMarker  = regexp.MustCompile(`In \[([^\]]*)\]:`)
	outMarker = regexp.MustCompile(`Out\[[^\]]*\]:`)
)

// Stats summarizes one renumbering session.
type Stats struct {
	InMarkers  int `json:"in_markers" yaml:"in_markers"`
	OutMarkers int `json:"out_markers" yaml:"out_markers"`
	Resets     int `json:"resets" yaml:"resets"`
	// Final is the counter value after the last marker.
	Final int `json:"final" yaml:"final"`
}

// Renumberer holds the state of a renumbering session. The zero value is
// ready to use. A Renumberer must not be shared between goroutines.
type Renumberer struct {
	current int
	out     strings.Builder
	stats   Stats
}

// New returns an empty Renumberer.
func New() *Renumberer {
	return &Renumberer{}
}

// Reset sets the counter to 0 and drops any accumulated output.
func (r *Renumberer) Reset() {
	r.current = 0
	r.out.Reset()
	r.stats = Stats{}
}

// Renumber starts a new session, consumes chunks in order and returns the
// renumbered text. Empty chunks are skipped. Counter state carries across
// chunk boundaries.
func (r *Renumberer) Renumber(chunks iter.Seq[string]) string {
	r.Reset()
	for chunk := range chunks {
		r.Feed(chunk)
	}
	return r.Output()
}

// RenumberString renumbers a single block of text.
func (r *Renumberer) RenumberString(text string) string {
	return r.Renumber(slices.Values([]string{text}))
}

// RenumberStrings renumbers a slice of chunks as one session.
func (r *Renumberer) RenumberStrings(chunks []string) string {
	return r.Renumber(slices.Values(chunks))
}

// Feed scans one chunk and appends the result to the session output.
// Use Reset before the first Feed of a session and Output after the last.
func (r *Renumberer) Feed(chunk string) {
	if chunk == "" {
		return
	}
	r.scan(chunk)
}

// Output returns everything produced since the last Reset.
func (r *Renumberer) Output() string {
	return r.out.String()
}

// Current returns the counter value.
func (r *Renumberer) Current() int {
	return r.current
}

// Stats returns the counts gathered since the last Reset.
func (r *Renumberer) Stats() Stats {
	s := r.stats
	s.Final = r.current
	return s
}

// scan walks text left to right, one In marker at a time. The text before
// each In marker, and the tail after the last one, go through Out
// substitution with the counter value in effect at that point.
func (r *Renumberer) scan(text string) {
	for {
		loc := inMarker.FindStringSubmatchIndex(text)
		if loc == nil {
			r.substituteOut(text)
			return
		}
		r.substituteOut(text[:loc[0]])
		r.advance(text[loc[2]:loc[3]])
		r.out.WriteString("In [")
		r.out.WriteString(strconv.Itoa(r.current))
		r.out.WriteString("]:")
		text = text[loc[1]:]
	}
}

func (r *Renumberer) advance(payload string) {
	r.stats.InMarkers++
	if n, ok := parseDirective(payload); ok {
		r.stats.Resets++
		r.current = n
		return
	}
	r.current++
}

func (r *Renumberer) substituteOut(segment string) {
	if segment == "" {
		return
	}
	last := 0
	for _, m := range outMarker.FindAllStringIndex(segment, -1) {
		r.out.WriteString(segment[last:m[0]])
		r.out.WriteString("Out[")
		r.out.WriteString(strconv.Itoa(r.current))
		r.out.WriteString("]:")
		r.stats.OutMarkers++
		last = m[1]
	}
	r.out.WriteString(segment[last:])
}
