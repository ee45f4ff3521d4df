package extractor

import (
	"bytes"
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   \n\t  ", ""},
		{"one  two\nthree\t\tfour", "one two three four"},
		{"already clean", "already clean"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTextRejectsNonPDF(t *testing.T) {
	data := []byte("this is not a pdf document at all")
	_, err := Text(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Fatal("expected an error for non-PDF input")
	}
	if errors.Is(err, ErrEmptyDocument) {
		t.Fatal("garbage input should fail to parse, not read as empty")
	}
}
