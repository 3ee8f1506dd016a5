package vectorize

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxLineBytes bounds a single NDJSON record; 1536 float64 values fit comfortably.
const maxLineBytes = 16 << 20

// EncodeNDJSON writes one JSON object per vector, each terminated by a newline.
// When namespace is non-empty it is applied to records without their own
// namespace; a record's namespace is never overwritten.
func EncodeNDJSON(vectors []Vector, namespace string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, v := range vectors {
		if v.Namespace == "" {
			v.Namespace = namespace
		}
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("vectorize: encode vector %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// AddNamespaceToNDJSON sets namespace on every record of payload that has no
// "namespace" key. Other keys are copied through untouched and blank lines
// are dropped.
func AddNamespaceToNDJSON(payload []byte, namespace string) ([]byte, error) {
	nsValue, err := json.Marshal(namespace)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = scanLines(bytes.NewReader(payload), func(lineNo int, line []byte) error {
		var record map[string]json.RawMessage
		if err := decodeRecord(lineNo, line, &record); err != nil {
			return err
		}
		if _, ok := record["namespace"]; !ok {
			record["namespace"] = nsValue
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("vectorize: re-encode line %d: %w", lineNo, err)
		}
		out.Write(encoded)
		out.WriteByte('\n')
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeNDJSON reads every record from r.
func DecodeNDJSON(r io.Reader) ([]Vector, error) {
	var vectors []Vector
	dec := NewNDJSONDecoder(r)
	for {
		v, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return vectors, nil
		}
		if err != nil {
			return vectors, err
		}
		vectors = append(vectors, v)
	}
}

// NDJSONDecoder reads vectors one record at a time. Blank lines are skipped
// and every non-blank line must hold a JSON object.
type NDJSONDecoder struct {
	sc   *bufio.Scanner
	line int
}

func NewNDJSONDecoder(r io.Reader) *NDJSONDecoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &NDJSONDecoder{sc: sc}
}

// Next returns the next record, or io.EOF once r is exhausted. Malformed
// lines yield a *ValidationError naming the line.
func (d *NDJSONDecoder) Next() (Vector, error) {
	line, err := d.nextLine()
	if err != nil {
		return Vector{}, err
	}
	var v Vector
	if err := decodeRecord(d.line, line, &v); err != nil {
		return Vector{}, err
	}
	return v, nil
}

// Line is the 1-based number of the last line read.
func (d *NDJSONDecoder) Line() int { return d.line }

func (d *NDJSONDecoder) nextLine() ([]byte, error) {
	for d.sc.Scan() {
		d.line++
		line := bytes.TrimSpace(d.sc.Bytes())
		if len(line) > 0 {
			return line, nil
		}
	}
	if err := d.sc.Err(); err != nil {
		return nil, fmt.Errorf("vectorize: read ndjson line %d: %w", d.line+1, err)
	}
	return nil, io.EOF
}

// decodeRecord unmarshals one trimmed, non-blank line into dst. null, scalars
// and arrays are rejected before they can decode into a zero value.
func decodeRecord(lineNo int, line []byte, dst any) error {
	if line[0] != '{' {
		return invalid("ndjson", "line %d: record must be a JSON object", lineNo)
	}
	if err := json.Unmarshal(line, dst); err != nil {
		return invalid("ndjson", "line %d: %v", lineNo, err)
	}
	return nil
}

// scanLines calls fn for each non-blank line of r with its 1-based line number.
func scanLines(r io.Reader, fn func(lineNo int, line []byte) error) error {
	d := NewNDJSONDecoder(r)
	for {
		line, err := d.nextLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(d.line, line); err != nil {
			return err
		}
	}
}
