package cursor

import (
	"io"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCursorRead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.cursor")
	defer teardown()
	//
	input := "aß€!"
	c := New(input)
	for i, r := range []rune(input) {
		if c.EOF() {
			t.Fatalf("unexpected EOF at %d", i)
		}
		if n := c.Next(); n != r {
			t.Errorf("expected peek #%d to be %#U, is %#U", i, r, n)
		}
		if rr := c.Read(); rr != r {
			t.Errorf("expected rune #%d to be %#U, is %#U", i, r, rr)
		}
	}
	if !c.EOF() {
		t.Errorf("expected EOF after %d runes", c.Len())
	}
	if c.Index() != 4 {
		t.Errorf("expected index to be 4, is %d", c.Index())
	}
}

func TestCursorString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.cursor")
	defer teardown()
	//
	c := New("foo bar")
	c.SetIndex(4)
	if c.Read() != 'b' {
		t.Errorf("expected 'b' at index 4")
	}
	if s := c.String(0, 3); s != "foo" {
		t.Errorf("expected substring 'foo', have %q", s)
	}
	c.SetIndex(7) // end of input is a valid position
	if !c.EOF() {
		t.Errorf("expected EOF at index 7")
	}
}

func TestCursorContract(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.cursor")
	defer teardown()
	//
	for i, f := range []func(c *Runes){
		func(c *Runes) { c.Read(); c.Read() },
		func(c *Runes) { c.Read(); c.Next() },
		func(c *Runes) { c.SetIndex(2) },
		func(c *Runes) { c.SetIndex(-1) },
		func(c *Runes) { c.String(0, 5) },
	} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("test %d: expected contract violation to panic", i)
				}
			}()
			f(New("x"))
		}()
	}
}

func TestReader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.cursor")
	defer teardown()
	//
	c := New("x€y")
	c.SetIndex(1)
	rd := NewReader(c)
	r, sz, err := rd.ReadRune()
	if err != nil || r != '€' || sz != 3 {
		t.Errorf("expected €/3, have %#U/%d (%v)", r, sz, err)
	}
	rd.ReadRune()
	if _, _, err = rd.ReadRune(); err != io.EOF {
		t.Errorf("expected io.EOF, have %v", err)
	}
	c.SetIndex(0)
	if n := Advance(c, 4); n != 2 || c.Index() != 2 {
		t.Errorf("expected 4 bytes to be 2 runes, have %d (index %d)", n, c.Index())
	}
}
