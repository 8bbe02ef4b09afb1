package ua

// QualifiedName is a namespace-scoped name (spec.md §3), used for
// BrowseName and similar attributes.
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

func (q QualifiedName) String() string { return q.Name }

// EncodeQualifiedName writes the namespace index followed by the name
// string; an empty name is written with length 0, never as null.
func (e *Encoder) EncodeQualifiedName(q QualifiedName) {
	e.writeUint16(q.NamespaceIndex)
	e.writeString(q.Name)
}

func (d *Decoder) DecodeQualifiedName() (QualifiedName, error) {
	ns, err := d.readUint16()
	if err != nil {
		return QualifiedName{}, err
	}
	name, err := d.readString()
	if err != nil {
		return QualifiedName{}, err
	}
	return QualifiedName{NamespaceIndex: ns, Name: name}, nil
}

// localizedText presence bits, companion spec part 6, subclass 5.2.2.14.
const (
	localizedTextLocalePresent byte = 0x01
	localizedTextTextPresent   byte = 0x02
)

// LocalizedText is a (locale, text) pair (spec.md §3). Either field may be
// absent on the wire; Go's zero string represents "absent" on encode and
// is indistinguishable from "present but empty" on decode, matching how
// the rest of the stack treats it (no caller needs the distinction).
type LocalizedText struct {
	Locale string
	Text   string
}

func (l LocalizedText) String() string { return l.Text }

// EncodeLocalizedText writes the presence mask followed by whichever of
// locale/text are non-empty.
func (e *Encoder) EncodeLocalizedText(l LocalizedText) {
	mask := byte(0)
	if l.Locale != "" {
		mask |= localizedTextLocalePresent
	}
	if l.Text != "" {
		mask |= localizedTextTextPresent
	}
	e.writeByte(mask)
	if mask&localizedTextLocalePresent != 0 {
		e.writeString(l.Locale)
	}
	if mask&localizedTextTextPresent != 0 {
		e.writeString(l.Text)
	}
}

func (d *Decoder) DecodeLocalizedText() (LocalizedText, error) {
	mask, err := d.readByte()
	if err != nil {
		return LocalizedText{}, err
	}
	var out LocalizedText
	if mask&localizedTextLocalePresent != 0 {
		if out.Locale, err = d.readString(); err != nil {
			return LocalizedText{}, err
		}
	}
	if mask&localizedTextTextPresent != 0 {
		if out.Text, err = d.readString(); err != nil {
			return LocalizedText{}, err
		}
	}
	return out, nil
}
