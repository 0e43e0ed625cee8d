// seehuhn.de/go/cidglyph - glyph selection for TrueType-based CIDFonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"bytes"
	"io"
	"maps"
	"slices"
	"sync"
)

// Putter is implemented by object stores which new objects can be written to.
type Putter interface {
	Alloc() Reference
	Put(ref Reference, obj Object) error
	OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error)
}

// Data is an in-memory collection of indirect PDF objects.
// It implements the [Getter] interface and is safe for concurrent use.
type Data struct {
	mu      sync.Mutex
	objects map[Reference]Object
	lastRef uint32
}

// NewData returns a new, empty object store.
func NewData() *Data {
	return &Data{
		objects: map[Reference]Object{},
	}
}

// Alloc allocates a new object number for an indirect object.
func (d *Data) Alloc() Reference {
	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		d.lastRef++
		ref := NewReference(d.lastRef, 0)
		if _, ok := d.objects[ref]; !ok {
			return ref
		}
	}
}

// Get implements the [Getter] interface.
// Streams are returned with their reader positioned at the start of the
// data, so that a stream can be read more than once.
func (d *Data) Get(ref Reference) (Object, error) {
	d.mu.Lock()
	obj := d.objects[ref]
	d.mu.Unlock()

	if s, ok := obj.(*Stream); ok {
		if ss, ok := s.R.(io.Seeker); ok {
			_, err := ss.Seek(0, io.SeekStart)
			if err != nil {
				return nil, err
			}
		}
	}
	return obj, nil
}

// Put stores obj under the given reference.
// Storing nil removes the object.
func (d *Data) Put(ref Reference, obj Object) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if obj == nil {
		delete(d.objects, ref)
	} else {
		d.objects[ref] = obj
	}
	return nil
}

// OpenStream returns a writer for the data of a new stream object.  The
// stream is stored under ref when the writer is closed.  Filters are applied
// in the order given.
func (d *Data) OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error) {
	// Copy dict, so that we don't change the caller's dict.
	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = Dict{}
	}

	var names Array
	var parms Array
	hasParms := false
	for _, f := range filters {
		name, p := f.Info()
		names = append(names, name)
		if p != nil {
			parms = append(parms, p)
			hasParms = true
		} else {
			parms = append(parms, nil)
		}
	}
	switch len(names) {
	case 0:
	case 1:
		streamDict["Filter"] = names[0]
		if hasParms {
			streamDict["DecodeParms"] = parms[0]
		}
	default:
		// The first filter is applied first when writing, so it is undone
		// last when reading.
		slices.Reverse(names)
		slices.Reverse(parms)
		streamDict["Filter"] = names
		if hasParms {
			streamDict["DecodeParms"] = parms
		}
	}

	res := &dataStreamWriter{
		d:    d,
		ref:  ref,
		dict: streamDict,
	}

	var w io.WriteCloser = res
	for i := len(filters) - 1; i >= 0; i-- {
		var err error
		w, err = filters[i].Encode(w)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

type dataStreamWriter struct {
	bytes.Buffer
	d    *Data
	ref  Reference
	dict Dict
}

func (w *dataStreamWriter) Close() error {
	data := bytes.Clone(w.Bytes())
	w.dict["Length"] = Integer(len(data))
	return w.d.Put(w.ref, &Stream{
		Dict: w.dict,
		R:    bytes.NewReader(data),
	})
}
