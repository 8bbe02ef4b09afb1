package ua

import "time"

// RequestHeader precedes every service request body (spec.md §4.4,
// §6). AuthenticationToken is stamped by the Session from its
// CreateSessionResponse (spec.md §4.4's send operation);
// RequestHandle is assigned by the Session from its monotonic counter.
type RequestHeader struct {
	AuthenticationToken NodeId
	Timestamp           time.Time
	RequestHandle       uint32
	ReturnDiagnostics    uint32
	AuditEntryId        string
	TimeoutHint         uint32
	AdditionalHeader    ExtensionObject
}

func (e *Encoder) EncodeRequestHeader(h RequestHeader) {
	if err := e.EncodeNodeId(h.AuthenticationToken); err != nil {
		return
	}
	e.writeUint64(uint64(DateTimeToTicks(h.Timestamp)))
	e.writeUint32(h.RequestHandle)
	e.writeUint32(h.ReturnDiagnostics)
	e.EncodeString(h.AuditEntryId == "", h.AuditEntryId)
	e.writeUint32(h.TimeoutHint)
	e.EncodeExtensionObject(h.AdditionalHeader)
}

func (d *Decoder) DecodeRequestHeader() (RequestHeader, error) {
	var h RequestHeader
	var err error
	if h.AuthenticationToken, err = d.DecodeNodeId(); err != nil {
		return RequestHeader{}, err
	}
	ticks, err := d.readUint64()
	if err != nil {
		return RequestHeader{}, err
	}
	h.Timestamp = TicksToDateTime(int64(ticks))
	if h.RequestHandle, err = d.readUint32(); err != nil {
		return RequestHeader{}, err
	}
	if h.ReturnDiagnostics, err = d.readUint32(); err != nil {
		return RequestHeader{}, err
	}
	if h.AuditEntryId, _, err = d.DecodeString(); err != nil {
		return RequestHeader{}, err
	}
	if h.TimeoutHint, err = d.readUint32(); err != nil {
		return RequestHeader{}, err
	}
	if h.AdditionalHeader, err = d.DecodeExtensionObject(nil); err != nil {
		return RequestHeader{}, err
	}
	return h, nil
}

// DiagnosticInfo is implemented only to the extent the core needs: the
// wire presence mask with no populated sub-fields. Requests never ask for
// diagnostics (ReturnDiagnostics stays 0), so decoding a populated
// DiagnosticInfo is never exercised by this stack.
type DiagnosticInfo struct{}

func (e *Encoder) encodeEmptyDiagnosticInfo() { e.writeByte(0) }

func (d *Decoder) skipDiagnosticInfo() error {
	mask, err := d.readByte()
	if err != nil {
		return err
	}
	if mask == 0 {
		return nil
	}
	return Wrap(KindCodec, ErrUnsupportedEncoding)
}

// ResponseHeader precedes every service response body (spec.md §4.4, §6).
type ResponseHeader struct {
	Timestamp         time.Time
	RequestHandle     uint32
	ServiceResult     StatusCode
	StringTable       []string
	AdditionalHeader  ExtensionObject
}

func (e *Encoder) EncodeResponseHeader(h ResponseHeader) {
	e.writeUint64(uint64(DateTimeToTicks(h.Timestamp)))
	e.writeUint32(h.RequestHandle)
	e.writeUint32(uint32(h.ServiceResult))
	e.encodeEmptyDiagnosticInfo()
	e.writeUint32(uint32(int32(len(h.StringTable))))
	for _, s := range h.StringTable {
		e.writeString(s)
	}
	e.EncodeExtensionObject(h.AdditionalHeader)
}

func (d *Decoder) DecodeResponseHeader() (ResponseHeader, error) {
	var h ResponseHeader
	ticks, err := d.readUint64()
	if err != nil {
		return ResponseHeader{}, err
	}
	h.Timestamp = TicksToDateTime(int64(ticks))
	if h.RequestHandle, err = d.readUint32(); err != nil {
		return ResponseHeader{}, err
	}
	result, err := d.readUint32()
	if err != nil {
		return ResponseHeader{}, err
	}
	h.ServiceResult = StatusCode(result)
	if err := d.skipDiagnosticInfo(); err != nil {
		return ResponseHeader{}, err
	}
	n, err := d.readUint32()
	if err != nil {
		return ResponseHeader{}, err
	}
	if int32(n) > 0 {
		h.StringTable = make([]string, 0, n)
		for i := uint32(0); i < n; i++ {
			s, err := d.readString()
			if err != nil {
				return ResponseHeader{}, err
			}
			h.StringTable = append(h.StringTable, s)
		}
	}
	if h.AdditionalHeader, err = d.DecodeExtensionObject(nil); err != nil {
		return ResponseHeader{}, err
	}
	return h, nil
}
