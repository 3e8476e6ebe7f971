// Package jsontext converts between JSON text and the decoded values the
// jsonshape core works with.
//
// Decode is built on the github.com/goccy/go-json token decoder. Objects decode
// into *ordered.Map so key order survives a round trip, numbers into
// encoding/json.Number so no precision is lost before a type coerces them.
// Duplicate keys and excessive nesting are reported as jsonshape Issues.
package jsontext

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/jsonshape"
	"github.com/reoring/jsonshape/i18n"
	"github.com/reoring/jsonshape/ordered"
)

// DefaultMaxDepth bounds nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

// Options controls decoding.
type Options struct {
	// MaxDepth limits object/array nesting. 0 means DefaultMaxDepth; a
	// negative value disables the check.
	MaxDepth int
	// AllowDuplicateKeys keeps the last value of a repeated object key instead
	// of reporting duplicate_key.
	AllowDuplicateKeys bool
}

func (o Options) maxDepth() int {
	if o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Decode parses one JSON document. Objects become *ordered.Map, arrays []any,
// numbers encoding/json.Number. Syntax errors, trailing data, nesting beyond
// MaxDepth and duplicate keys are returned as jsonshape.Issues; all duplicate
// keys of a document are reported together.
func Decode(data []byte, opts ...Options) (any, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	return DecodeReader(bytes.NewReader(data), opt)
}

// DecodeReader is like Decode but reads the document from r.
func DecodeReader(r io.Reader, opt Options) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	d := &decoder{dec: dec, opt: opt}

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, parseIssue(jsonshape.RootPath(), "empty input", nil)
	}
	if err != nil {
		return nil, parseIssue(jsonshape.RootPath(), "", err)
	}
	v, err := d.value(tok, jsonshape.RootPath(), 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, parseIssue(jsonshape.RootPath(), "unexpected data after the top-level value", err)
	}
	if len(d.dups) > 0 {
		return nil, d.dups
	}
	return v, nil
}

type decoder struct {
	dec  *j.Decoder
	opt  Options
	dups jsonshape.Issues
}

func (d *decoder) next(p jsonshape.PathRef) (j.Token, error) {
	tok, err := d.dec.Token()
	if err == io.EOF {
		return nil, parseIssue(p, "unexpected end of input", nil)
	}
	if err != nil {
		return nil, parseIssue(p, "", err)
	}
	return tok, nil
}

func (d *decoder) value(tok j.Token, p jsonshape.PathRef, depth int) (any, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			if err := d.enter(p, depth); err != nil {
				return nil, err
			}
			return d.object(p, depth+1)
		case '[':
			if err := d.enter(p, depth); err != nil {
				return nil, err
			}
			return d.array(p, depth+1)
		}
		return nil, parseIssue(p, fmt.Sprintf("unexpected %q", rune(v)), nil)
	case j.Number:
		return stdjson.Number(string(v)), nil
	case float64:
		return v, nil
	case string, bool, nil:
		return v, nil
	}
	return nil, parseIssue(p, fmt.Sprintf("unexpected token %T", tok), nil)
}

func (d *decoder) enter(p jsonshape.PathRef, depth int) error {
	if limit := d.opt.maxDepth(); limit > 0 && depth+1 > limit {
		it := p.Issue(jsonshape.CodeTooDeep, i18n.T(jsonshape.CodeTooDeep, nil), "max_depth", limit)
		return jsonshape.Issues{it}
	}
	return nil
}

func (d *decoder) object(p jsonshape.PathRef, depth int) (any, error) {
	m := ordered.NewMap(0)
	for {
		tok, err := d.next(p)
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == '}' {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, parseIssue(p, fmt.Sprintf("object key must be a string, got %v", tok), nil)
		}
		kp := p.Field(key)
		if m.Has(key) && !d.opt.AllowDuplicateKeys {
			it := kp.Issue(jsonshape.CodeDuplicateKey, i18n.T(jsonshape.CodeDuplicateKey, nil), "key", key)
			d.dups = jsonshape.AppendIssues(d.dups, it)
		}
		vt, err := d.next(kp)
		if err != nil {
			return nil, err
		}
		v, err := d.value(vt, kp, depth)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
}

func (d *decoder) array(p jsonshape.PathRef, depth int) (any, error) {
	out := []any{}
	for i := 0; ; i++ {
		tok, err := d.next(p)
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == ']' {
			return out, nil
		}
		v, err := d.value(tok, p.Index(i), depth)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func parseIssue(p jsonshape.PathRef, msg string, cause error) error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	it := p.Issue(jsonshape.CodeParseError, i18n.T(jsonshape.CodeParseError, nil))
	it.Hint = msg
	it.Cause = cause
	return jsonshape.Issues{it}
}
