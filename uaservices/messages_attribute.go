package uaservices

import "github.com/rob-gra/go-opcua/ua"

// TimestampsToReturn selects which timestamps a Read/Publish response
// populates (companion spec part 4, subclass 5.10.2.2).
type TimestampsToReturn int32

const (
	TimestampsSource TimestampsToReturn = iota
	TimestampsServer
	TimestampsBoth
	TimestampsNeither
)

// ReadValueId names one attribute to read or write (companion spec part
// 4, subclass 5.10.2.2).
type ReadValueId struct {
	NodeId       ua.NodeId
	AttributeId  ua.AttributeId
	IndexRange   string
	DataEncoding ua.QualifiedName
}

func (r *ReadValueId) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(r.NodeId)
	e.EncodeUint32(uint32(r.AttributeId))
	e.EncodeString(r.IndexRange == "", r.IndexRange)
	e.EncodeQualifiedName(r.DataEncoding)
}

func (r *ReadValueId) Decode(d *ua.Decoder) error {
	var err error
	if r.NodeId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	attr, err := d.DecodeUint32()
	if err != nil {
		return err
	}
	r.AttributeId = ua.AttributeId(attr)
	if r.IndexRange, _, err = d.DecodeString(); err != nil {
		return err
	}
	if r.DataEncoding, err = d.DecodeQualifiedName(); err != nil {
		return err
	}
	return d.Err()
}

// ReadRequest asks the server for the current value of one or more node
// attributes (spec.md §6, AttributeService family).
type ReadRequest struct {
	MaxAge             float64
	TimestampsToReturn TimestampsToReturn
	NodesToRead        []ReadValueId
}

func (r *ReadRequest) Encode(e *ua.Encoder) {
	e.EncodeDouble(r.MaxAge)
	e.EncodeInt32(int32(r.TimestampsToReturn))
	e.EncodeInt32(int32(len(r.NodesToRead)))
	for i := range r.NodesToRead {
		r.NodesToRead[i].Encode(e)
	}
}

func (r *ReadRequest) Decode(d *ua.Decoder) error {
	var err error
	if r.MaxAge, err = d.DecodeDouble(); err != nil {
		return err
	}
	tr, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	r.TimestampsToReturn = TimestampsToReturn(tr)
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		r.NodesToRead = make([]ReadValueId, n)
		for i := range r.NodesToRead {
			if err := r.NodesToRead[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// ReadResponse answers ReadRequest with one DataValue per NodesToRead
// entry, in the same order.
type ReadResponse struct {
	Results []ua.DataValue
}

func (r *ReadResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(r.Results)))
	for _, v := range r.Results {
		e.EncodeDataValue(v)
	}
	e.EncodeInt32(0) // DiagnosticInfos: never requested
}

func (r *ReadResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		r.Results = make([]ua.DataValue, n)
		for i := range r.Results {
			if r.Results[i], err = d.DecodeDataValue(); err != nil {
				return err
			}
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// WriteValue names the attribute and value of one write (companion spec
// part 4, subclass 5.11.2.2).
type WriteValue struct {
	NodeId      ua.NodeId
	AttributeId ua.AttributeId
	IndexRange  string
	Value       ua.DataValue
}

func (w *WriteValue) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(w.NodeId)
	e.EncodeUint32(uint32(w.AttributeId))
	e.EncodeString(w.IndexRange == "", w.IndexRange)
	e.EncodeDataValue(w.Value)
}

func (w *WriteValue) Decode(d *ua.Decoder) error {
	var err error
	if w.NodeId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	attr, err := d.DecodeUint32()
	if err != nil {
		return err
	}
	w.AttributeId = ua.AttributeId(attr)
	if w.IndexRange, _, err = d.DecodeString(); err != nil {
		return err
	}
	if w.Value, err = d.DecodeDataValue(); err != nil {
		return err
	}
	return d.Err()
}

// WriteRequest writes one or more node attributes.
type WriteRequest struct {
	NodesToWrite []WriteValue
}

func (w *WriteRequest) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(w.NodesToWrite)))
	for i := range w.NodesToWrite {
		w.NodesToWrite[i].Encode(e)
	}
}

func (w *WriteRequest) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		w.NodesToWrite = make([]WriteValue, n)
		for i := range w.NodesToWrite {
			if err := w.NodesToWrite[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// WriteResponse answers WriteRequest with one StatusCode per
// NodesToWrite entry, in the same order.
type WriteResponse struct {
	Results []ua.StatusCode
}

func (w *WriteResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(w.Results)))
	for _, s := range w.Results {
		e.EncodeUint32(uint32(s))
	}
	e.EncodeInt32(0) // DiagnosticInfos: never requested
}

func (w *WriteResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		w.Results = make([]ua.StatusCode, n)
		for i := range w.Results {
			v, err := d.DecodeUint32()
			if err != nil {
				return err
			}
			w.Results[i] = ua.StatusCode(v)
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}
