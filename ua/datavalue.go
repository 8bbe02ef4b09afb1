package ua

import "time"

// epochOffset is the number of 100ns ticks between the OPC UA DateTime
// epoch (1601-01-01 UTC) and the Unix epoch (1970-01-01 UTC).
const epochOffset int64 = 116444736000000000

// DateTimeToTicks converts t to OPC UA DateTime wire ticks (100ns units
// since 1601-01-01 UTC).
func DateTimeToTicks(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()/100 + epochOffset
}

// TicksToDateTime converts OPC UA DateTime wire ticks to a time.Time.
func TicksToDateTime(ticks int64) time.Time {
	if ticks == 0 {
		return time.Time{}
	}
	return time.Unix(0, (ticks-epochOffset)*100).UTC()
}

// DataValue presence mask bits, companion spec part 6, subclass 5.2.2.17.
const (
	dataValueHasValue             byte = 0x01
	dataValueHasStatus            byte = 0x02
	dataValueHasSourceTimestamp   byte = 0x04
	dataValueHasServerTimestamp   byte = 0x08
	dataValueHasSourcePicoseconds byte = 0x10
	dataValueHasServerPicoseconds byte = 0x20
)

// DataValue carries a Variant value alongside quality and timing metadata
// (spec.md §3). Has* fields record which optional members were present on
// the wire, since a zero time.Time or zero StatusCode is itself a valid
// value.
type DataValue struct {
	Value             Variant
	HasValue          bool
	Status            StatusCode
	HasStatus         bool
	SourceTimestamp   time.Time
	HasSourceTimestamp bool
	ServerTimestamp   time.Time
	HasServerTimestamp bool
	SourcePicoseconds uint16
	HasSourcePicoseconds bool
	ServerPicoseconds uint16
	HasServerPicoseconds bool
}

// EncodeDataValue writes the presence mask followed by whichever members
// are present, in fixed wire order.
func (e *Encoder) EncodeDataValue(dv DataValue) {
	mask := byte(0)
	if dv.HasValue {
		mask |= dataValueHasValue
	}
	if dv.HasStatus {
		mask |= dataValueHasStatus
	}
	if dv.HasSourceTimestamp {
		mask |= dataValueHasSourceTimestamp
	}
	if dv.HasServerTimestamp {
		mask |= dataValueHasServerTimestamp
	}
	if dv.HasSourcePicoseconds {
		mask |= dataValueHasSourcePicoseconds
	}
	if dv.HasServerPicoseconds {
		mask |= dataValueHasServerPicoseconds
	}
	e.writeByte(mask)
	if dv.HasValue {
		if err := e.EncodeVariant(dv.Value); err != nil {
			return
		}
	}
	if dv.HasStatus {
		e.writeUint32(uint32(dv.Status))
	}
	if dv.HasSourceTimestamp {
		e.writeUint64(uint64(DateTimeToTicks(dv.SourceTimestamp)))
	}
	if dv.HasServerTimestamp {
		e.writeUint64(uint64(DateTimeToTicks(dv.ServerTimestamp)))
	}
	if dv.HasSourcePicoseconds {
		e.writeUint16(dv.SourcePicoseconds)
	}
	if dv.HasServerPicoseconds {
		e.writeUint16(dv.ServerPicoseconds)
	}
}

// DecodeDataValue reads a DataValue, populating only the members whose
// presence bit was set.
func (d *Decoder) DecodeDataValue() (DataValue, error) {
	mask, err := d.readByte()
	if err != nil {
		return DataValue{}, err
	}
	var dv DataValue
	if mask&dataValueHasValue != 0 {
		dv.Value, err = d.DecodeVariant()
		if err != nil {
			return DataValue{}, err
		}
		dv.HasValue = true
	}
	if mask&dataValueHasStatus != 0 {
		v, err := d.readUint32()
		if err != nil {
			return DataValue{}, err
		}
		dv.Status = StatusCode(v)
		dv.HasStatus = true
	}
	if mask&dataValueHasSourceTimestamp != 0 {
		v, err := d.readUint64()
		if err != nil {
			return DataValue{}, err
		}
		dv.SourceTimestamp = TicksToDateTime(int64(v))
		dv.HasSourceTimestamp = true
	}
	if mask&dataValueHasServerTimestamp != 0 {
		v, err := d.readUint64()
		if err != nil {
			return DataValue{}, err
		}
		dv.ServerTimestamp = TicksToDateTime(int64(v))
		dv.HasServerTimestamp = true
	}
	if mask&dataValueHasSourcePicoseconds != 0 {
		v, err := d.readUint16()
		if err != nil {
			return DataValue{}, err
		}
		dv.SourcePicoseconds = v
		dv.HasSourcePicoseconds = true
	}
	if mask&dataValueHasServerPicoseconds != 0 {
		v, err := d.readUint16()
		if err != nil {
			return DataValue{}, err
		}
		dv.ServerPicoseconds = v
		dv.HasServerPicoseconds = true
	}
	return dv, nil
}
