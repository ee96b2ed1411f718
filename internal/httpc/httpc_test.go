package httpc

import (
	"crypto/tls"
	"testing"
)

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	h := &Httpc{}
	c := h.New()
	if c == nil {
		t.Fatalf("expected client")
	}
}

func TestNew_MinVersionDefaultsToTLS13(t *testing.T) {
	h := &Httpc{TlsConfig: &tls.Config{}}
	_ = h.New()
	if h.TlsConfig.MinVersion != tls.VersionTLS13 {
		t.Fatalf("MinVersion = %d, want TLS1.3", h.TlsConfig.MinVersion)
	}
}

func TestParseTLSVersion(t *testing.T) {
	cases := map[string]uint16{
		"1.0":    tls.VersionTLS10,
		"tls11":  tls.VersionTLS11,
		" 1.2 ":  tls.VersionTLS12,
		"TLS1.3": tls.VersionTLS13,
		"bogus":  0,
		"":       0,
	}
	for in, want := range cases {
		if got := ParseTLSVersion(in); got != want {
			t.Fatalf("ParseTLSVersion(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFromOptions_Insecure(t *testing.T) {
	h := FromOptions(true, "1.2", "")
	if !h.TlsConfig.InsecureSkipVerify {
		t.Fatalf("insecure not applied")
	}
	if h.TlsConfig.MinVersion != tls.VersionTLS12 {
		t.Fatalf("min version not applied")
	}
}
