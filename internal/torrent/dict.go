package torrent

import (
	"bytes"

	"github.com/anacrolix/torrent/bencode"
)

// Dict is a bencode dictionary that preserves key insertion order. The
// info hash depends on byte-exact encoding of the info dictionary, so
// the builder fixes key order explicitly instead of relying on struct
// tags or sorted map keys.
type Dict struct {
	keys   []string
	values map[string]interface{}
}

var _ bencode.Marshaler = (*Dict)(nil)

func NewDict() *Dict {
	return &Dict{values: make(map[string]interface{})}
}

// Set adds a key or replaces its value. A replaced key keeps its
// original position.
func (d *Dict) Set(key string, value interface{}) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (interface{}, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	return len(d.keys)
}

// MarshalBencode encodes the dictionary with keys in insertion order.
// Values are encoded by the codec, so nested Dicts and lists of Dicts
// nest naturally.
func (d *Dict) MarshalBencode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('d')
	for _, key := range d.keys {
		kb, err := bencode.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		vb, err := bencode.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('e')
	return buf.Bytes(), nil
}
