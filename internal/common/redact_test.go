package common

import "testing"

func TestRedactHeaders(t *testing.T) {
	in := map[string]string{
		"Authorization": "Bearer xyz",
		"X-Empty":       "",
		"X-Custom":      "v",
	}
	got := RedactHeaders(in)
	if got["Authorization"] != RedactedMarker {
		t.Fatalf("Authorization = %q", got["Authorization"])
	}
	if got["X-Empty"] != "" {
		t.Fatalf("empty value must stay empty, got %q", got["X-Empty"])
	}
	if got["X-Custom"] != RedactedMarker {
		t.Fatalf("X-Custom = %q", got["X-Custom"])
	}
	// input untouched
	if in["Authorization"] != "Bearer xyz" {
		t.Fatalf("RedactHeaders must not mutate its input")
	}
}

func TestMasker_MaskValue_SensitiveKeys(t *testing.T) {
	m := NewMasker()
	if got := m.MaskValue("token", "abc123"); got != maskedMarker {
		t.Fatalf("token value not masked: %q", got)
	}
	if got := m.MaskValue("Authorization", "x"); got != maskedMarker {
		t.Fatalf("authorization value not masked: %q", got)
	}
	if got := m.MaskValue("endpoint", "https://s.example.com"); got != "https://s.example.com" {
		t.Fatalf("plain value must pass through: %q", got)
	}
}

func TestMasker_MaskValue_SchemeTokens(t *testing.T) {
	m := NewMasker()
	got := m.MaskValue("note", "header was Bearer abc.def-ghi")
	if got != "header was Bearer "+maskedMarker {
		t.Fatalf("bearer token not masked: %q", got)
	}
}

func TestMasker_Disabled(t *testing.T) {
	m := NewMasker()
	m.SetEnabled(false)
	if got := m.MaskValue("token", "abc"); got != "abc" {
		t.Fatalf("disabled masker must not mask: %q", got)
	}
}
