package lexer

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/pattern"
)

// EmbeddedSpan is a region of embedded language, as found by a Detector.
type EmbeddedSpan struct {
	Type      nestlex.TokType
	Start     int // offset of start delimiter
	End       int // offset behind end delimiter, or end of input
	StartSkip int // length of start delimiter
	EndSkip   int // length of end delimiter, 0 for unterminated regions
}

// Span returns the character span of an embedded region.
func (es EmbeddedSpan) Span() nestlex.Span {
	return nestlex.Span{es.Start, es.End}
}

// Embedder configures a Detector: a single pair of delimiters, together with
// the token type of the region and the embedded language.
type Embedder struct {
	Start, End pattern.Matcher
	Type       nestlex.TokType
	Inner      string // mime-type of the embedded language
}

// Detector wraps a cursor and hides embedded regions. Before every access it
// probes for the start delimiter at the current index; if found, it skips
// forward behind the end delimiter (or to end of input) and records the
// region. Regions are kept until a client takes them.
type Detector struct {
	in    cursor.Cursor
	embed *Embedder
	spans *treemap.Map // start offset -> EmbeddedSpan
}

var _ cursor.Cursor = (*Detector)(nil)

// NewDetector creates a detector for a cursor. If embed is nil, the detector
// is a transparent wrapper.
func NewDetector(in cursor.Cursor, embed *Embedder) *Detector {
	return &Detector{
		in:    in,
		embed: embed,
		spans: treemap.NewWithIntComparator(),
	}
}

// Read is part of interface cursor.Cursor.
func (d *Detector) Read() rune {
	d.probe()
	return d.in.Read()
}

// Next is part of interface cursor.Cursor.
func (d *Detector) Next() rune {
	d.probe()
	return d.in.Next()
}

// EOF is part of interface cursor.Cursor. EOF is true if only embedded
// regions are left.
func (d *Detector) EOF() bool {
	d.probe()
	return d.in.EOF()
}

// Index is part of interface cursor.Cursor.
func (d *Detector) Index() int {
	return d.in.Index()
}

// SetIndex is part of interface cursor.Cursor. Positioning does not probe.
func (d *Detector) SetIndex(i int) {
	d.in.SetIndex(i)
}

// String is part of interface cursor.Cursor. It returns raw input, including
// embedded regions.
func (d *Detector) String(from, to int) string {
	return d.in.String(from, to)
}

// AtEnd is true if the underlying cursor is at end of input. It does not probe.
func (d *Detector) AtEnd() bool {
	return d.in.EOF()
}

// Skip skips any embedded regions starting at the current index and returns
// the resulting index.
func (d *Detector) Skip() int {
	d.probe()
	return d.in.Index()
}

// probe skips embedded regions at the current index. Regions seen before
// are not matched again.
func (d *Detector) probe() {
	if d.embed == nil {
		return
	}
	for !d.in.EOF() {
		at := d.in.Index()
		if v, found := d.spans.Get(at); found {
			d.in.SetIndex(v.(EmbeddedSpan).End)
			continue
		}
		if !d.embed.Start.Match(d.in) {
			return
		}
		if d.in.Index() == at {
			return // empty delimiter match
		}
		span := EmbeddedSpan{
			Type:      d.embed.Type,
			Start:     at,
			StartSkip: d.in.Index() - at,
		}
		for !d.in.EOF() {
			before := d.in.Index()
			if d.embed.End.Match(d.in) {
				if span.EndSkip = d.in.Index() - before; span.EndSkip > 0 {
					break
				}
			}
			d.in.Read()
		}
		span.End = d.in.Index()
		tracer().Debugf("embedded region %s of %s", span.Span(), d.embed.Inner)
		d.spans.Put(at, span)
	}
}

// Take removes and returns all recorded regions starting within [from…to),
// ordered by position.
func (d *Detector) Take(from, to int) []EmbeddedSpan {
	var taken []EmbeddedSpan
	for {
		k, v := d.spans.Ceiling(from)
		if k == nil || k.(int) >= to {
			break
		}
		taken = append(taken, v.(EmbeddedSpan))
		d.spans.Remove(k)
	}
	return taken
}

// Covered returns the number of characters in [from…to) covered by recorded
// regions.
func (d *Detector) Covered(from, to int) int {
	n := 0
	it := d.spans.Iterator()
	for it.Next() {
		sp := it.Value().(EmbeddedSpan)
		if sp.Start >= to {
			break
		}
		if sp.Start >= from {
			end := sp.End
			if end > to {
				end = to
			}
			n += end - sp.Start
		}
	}
	return n
}

// Inner returns the mime-type of the embedded language, if any.
func (d *Detector) Inner() string {
	if d.embed == nil {
		return ""
	}
	return d.embed.Inner
}

// reset drops all recorded regions.
func (d *Detector) reset() {
	d.spans.Clear()
}
