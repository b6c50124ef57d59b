package dns

import "strings"

// RDataText renders a record's RDATA as the text form the scan engine's
// discovery sink expects: A as dotted-quad, CNAME/NS as the parsed name,
// MX as "<preference> <exchange>", TXT as its character-strings
// concatenated with no separator. ok is false for any other record type or
// malformed Data.
func (rr Record) RDataText() (text string, ok bool) {
	switch RecordType(rr.Type) {
	case TypeA:
		return rr.IPv4()
	case TypeCNAME, TypeNS:
		s, isStr := rr.Data.(string)
		return s, isStr
	case TypeMX:
		mx, isMX := rr.Data.(MXData)
		if !isMX {
			return "", false
		}
		var b strings.Builder
		b.WriteString(uint16ToString(mx.Preference))
		b.WriteByte(' ')
		b.WriteString(mx.Exchange)
		return b.String(), true
	case TypeTXT:
		return txtText(rr.Data)
	default:
		return "", false
	}
}

func txtText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []string:
		return strings.Join(t, ""), true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}

func uint16ToString(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
