package dns

import "testing"

func TestParseResponseBoundedRejectsQuery(t *testing.T) {
	// header with QR=0 (a query, not a response)
	msg := make([]byte, 12)
	_, err := ParseResponseBounded(msg)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseResponseBoundedAcceptsResponse(t *testing.T) {
	msg := make([]byte, 12)
	msg[2] = 0x80 // QR bit set
	_, err := ParseResponseBounded(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
