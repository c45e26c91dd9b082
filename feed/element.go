package feed

import "encoding/xml"

// Field is one child of a record element. Empty Text renders as an empty
// element.
type Field struct {
	Tag  string
	Attr []xml.Attr
	Text string
}

// Element is one record, ready to encode.
type Element struct {
	Tag    string
	Fields []Field
}

// Value returns the text of the first field whose tag, or name attribute,
// equals key.
func (e Element) Value(key string) (string, bool) {
	for _, f := range e.Fields {
		if f.Tag == key {
			return f.Text, true
		}
		for _, a := range f.Attr {
			if a.Name.Local == "name" && a.Value == key {
				return f.Text, true
			}
		}
	}
	return "", false
}

func (e Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, f := range e.Fields {
		fs := xml.StartElement{Name: xml.Name{Local: f.Tag}, Attr: f.Attr}
		if err := enc.EncodeToken(fs); err != nil {
			return err
		}
		if f.Text != "" {
			if err := enc.EncodeToken(xml.CharData(f.Text)); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(fs.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
