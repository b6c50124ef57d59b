package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	// Name: example.com, Type A, Class IN, TTL 300, RDATA 192.0.2.1
	msg := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0,    // End of name
		0, 1, // Type A
		0, 1, // Class IN
		0, 0, 1, 44, // TTL 300
		0, 4, // RDLEN
		192, 0, 2, 1, // RDATA
	}

	off := 0
	rr, err := ParseRecord(msg, &off)
	require.NoError(t, err)

	assert.Equal(t, "example.com", rr.Name)
	assert.Equal(t, uint16(TypeA), rr.Type)
	assert.Equal(t, uint16(1), rr.Class)
	assert.Equal(t, uint32(300), rr.TTL)

	data, ok := rr.Data.([]byte)
	require.True(t, ok, "expected []byte data, got %T", rr.Data)
	assert.Len(t, data, 4)

	ip, ok := rr.IPv4()
	require.True(t, ok)
	assert.Equal(t, "192.0.2.1", ip)
}

func TestRecordIPv4NotA(t *testing.T) {
	rr := Record{Type: uint16(TypeAAAA), Data: []byte{1, 2, 3, 4}}
	_, ok := rr.IPv4()
	assert.False(t, ok, "expected ok to be false for non-A record")
}

func TestParseRecordCNAME(t *testing.T) {
	targetName, err := EncodeName("target.example.com")
	require.NoError(t, err)

	msg := []byte{
		3, 'w', 'w', 'w',
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0, // End of name
		0, 5, // Type CNAME
		0, 1, // Class IN
		0, 0, 14, 16, // TTL 3600
	}
	msg = append(msg, byte(len(targetName)>>8), byte(len(targetName))) // RDLEN
	msg = append(msg, targetName...)

	off := 0
	rr, err := ParseRecord(msg, &off)
	require.NoError(t, err)

	assert.Equal(t, uint16(TypeCNAME), rr.Type)
	target, ok := rr.Data.(string)
	require.True(t, ok, "expected string data, got %T", rr.Data)
	assert.Equal(t, "target.example.com", target)
}

func TestParseRecordMX(t *testing.T) {
	// MX record with preference 10, exchange mail.example.com
	msg := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0,     // End of name
		0, 15, // Type MX
		0, 1, // Class IN
		0, 0, 14, 16, // TTL 3600
		0, 20, // RDLEN
		0, 10, // Preference
		4, 'm', 'a', 'i', 'l',
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0, // End of exchange name
	}

	off := 0
	rr, err := ParseRecord(msg, &off)
	require.NoError(t, err)

	assert.Equal(t, uint16(TypeMX), rr.Type)

	mx, ok := rr.Data.(MXData)
	require.True(t, ok, "expected MXData, got %T", rr.Data)
	assert.Equal(t, uint16(10), mx.Preference)
	assert.Equal(t, "mail.example.com", mx.Exchange)
}

func TestParseRecordTXT_ConcatenatesCharacterStrings(t *testing.T) {
	// TXT record with two character-strings: "hello" and "world"
	msg := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0,     // End of name
		0, 16, // Type TXT
		0, 1, // Class IN
		0, 0, 1, 44, // TTL 300
		0, 12, // RDLEN
		5, 'h', 'e', 'l', 'l', 'o',
		5, 'w', 'o', 'r', 'l', 'd',
	}

	off := 0
	rr, err := ParseRecord(msg, &off)
	require.NoError(t, err)

	assert.Equal(t, uint16(TypeTXT), rr.Type)
	strs, ok := rr.Data.([]string)
	require.True(t, ok, "expected []string data, got %T", rr.Data)
	assert.Equal(t, []string{"hello", "world"}, strs)

	text, ok := rr.RDataText()
	require.True(t, ok)
	assert.Equal(t, "helloworld", text, "character-strings concatenate with no separator")
}

func TestParseRecordTXT_TruncatedCharacterString(t *testing.T) {
	msg := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0,    // End of name
		0, 16, // Type TXT
		0, 1, // Class IN
		0, 0, 1, 44, // TTL 300
		0, 5, // RDLEN says 5 bytes
		5, 'h', 'e', 'l', 'l', // length byte claims 5 more bytes than remain
	}

	off := 0
	_, err := ParseRecord(msg, &off)
	assert.Error(t, err, "expected error for a character-string length exceeding rdata")
}

func TestParseRecordTruncated(t *testing.T) {
	// Truncated record (missing RDATA)
	msg := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0,    // End of name
		0, 1, // Type A
		0, 1, // Class IN
		0, 0, 1, 44, // TTL 300
		0, 4, // RDLEN says 4 bytes
		// But no RDATA follows
	}

	off := 0
	_, err := ParseRecord(msg, &off)
	assert.Error(t, err, "expected error for truncated record")
}
