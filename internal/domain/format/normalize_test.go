package format

import "testing"

func TestNormalizeKnownSynonyms(t *testing.T) {
	cases := map[string]string{
		"audio/x-wav":        "audio/wav",
		"image/x-icon":       "image/vnd.microsoft.icon",
		"application/x-gzip": "application/gzip",
		"AUDIO/X-WAV":        "audio/wav",
		"  audio/x-wav  ":    "audio/wav",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeUnknownUnchanged(t *testing.T) {
	if got := Normalize("image/png"); got != "image/png" {
		t.Errorf("Normalize(image/png) = %q, want image/png", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"audio/x-wav", "image/png", "APPLICATION/X-GZIP", ""}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}
