package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	name string
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	return s.stdout, s.stderr, s.err
}

func TestExtract_BuildsTesseractInvocation(t *testing.T) {
	stub := &stubRunner{stdout: []byte("Tech Talk Night\nHosted by Acme\n")}
	e := NewExtractor(Config{Lang: "eng", PSM: 6, OEM: 1, TessdataDir: "/opt/tessdata"}, nil)
	e.runner = stub

	res, err := e.Extract(context.Background(), "/tmp/shot.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "Tech Talk Night\nHosted by Acme" {
		t.Fatalf("text: got %q", res.Text)
	}
	if stub.name != "tesseract" {
		t.Fatalf("binary: got %q", stub.name)
	}
	want := []string{"/tmp/shot.png", "stdout", "-l", "eng", "--psm", "6", "--oem", "1", "--tessdata-dir", "/opt/tessdata"}
	if len(stub.args) != len(want) {
		t.Fatalf("args: got %v", stub.args)
	}
	for i := range want {
		if stub.args[i] != want[i] {
			t.Fatalf("args[%d]: got %q want %q", i, stub.args[i], want[i])
		}
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.runner = &stubRunner{}
	if _, err := e.Extract(context.Background(), "/tmp/report.pdf"); err == nil {
		t.Fatal("expected error for non-image extension")
	}
}

func TestExtract_RunnerFailureCarriesStderr(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.runner = &stubRunner{stderr: []byte("could not load language"), err: errors.New("exit status 1")}
	_, err := e.Extract(context.Background(), "/tmp/shot.png")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "could not load language") {
		t.Fatalf("error should carry stderr, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"tabs and runs", "a\t\tb   c", "a b c"},
		{"box noise line", "title\n-----\nbody", "title\n\nbody"},
		{"blank collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing space per line", "a  \nb ", "a\nb"},
		{"empty", "", ""},
		{"keeps line structure", "Tech Talk Night\nHosted by Acme", "Tech Talk Night\nHosted by Acme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
