package familyone

import (
	"bytes"
	"testing"
)

func TestDataURIRoundTrip(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	uri := ComposeDataURI(payload, "")

	if uri[:len("data:image/png;base64,")] != "data:image/png;base64," {
		t.Fatalf("unexpected prefix %s", uri)
	}

	data, mediaType, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if mediaType != "image/png" {
		t.Fatalf("expected image/png got %s", mediaType)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestParseDataURIRejectsOtherSchemes(t *testing.T) {
	if _, _, err := ParseDataURI("https://example.com/a.jpg"); err == nil {
		t.Fatalf("expected error for non data uri")
	}
	if _, _, err := ParseDataURI("data:image/png;base64"); err == nil {
		t.Fatalf("expected error for missing payload")
	}
}

func TestParseDataURIKeepsMediaType(t *testing.T) {
	data, mediaType, err := ParseDataURI(ComposeDataURI([]byte{0xff, 0xd8, 0xff}, "image/jpeg"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if mediaType != "image/jpeg" || !bytes.Equal(data, []byte{0xff, 0xd8, 0xff}) {
		t.Fatalf("expected image/jpeg payload got %s %v", mediaType, data)
	}
}

func TestDigest(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := DigestString("abc"); got != want {
		t.Fatalf("expected %s got %s", want, got)
	}
	if Digest([]byte("abc")) != DigestString("abc") {
		t.Fatalf("byte and string digests differ")
	}
}
