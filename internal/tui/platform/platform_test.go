package platform

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	valid, err := ValidateURL("https://example.com/path")
	if err != nil {
		t.Fatalf("unexpected error for valid URL: %v", err)
	}
	if valid != "https://example.com/path" {
		t.Fatalf("unexpected normalized URL: %q", valid)
	}

	_, err = ValidateURL("ftp://example.com/path")
	if err == nil || !strings.Contains(err.Error(), "unsupported URL scheme") {
		t.Fatalf("expected unsupported scheme error, got %v", err)
	}

	if _, err := ValidateURL("   "); err == nil || !strings.Contains(err.Error(), "no URL") {
		t.Fatalf("expected missing URL error, got %v", err)
	}

	_, err = ValidateURL("https://")
	if err == nil || !strings.Contains(err.Error(), "invalid URL host") {
		t.Fatalf("expected invalid host error, got %v", err)
	}
}

func TestBrowserCommand(t *testing.T) {
	cases := []struct {
		goos string
		url  string
		name string
		args []string
	}{
		{goos: "darwin", url: "https://example.com", name: "open", args: []string{"https://example.com"}},
		{goos: "windows", url: "https://example.com", name: "rundll32", args: []string{"url.dll,FileProtocolHandler", "https://example.com"}},
		{goos: "linux", url: "https://example.com", name: "xdg-open", args: []string{"https://example.com"}},
	}
	for _, tc := range cases {
		gotName, gotArgs := browserCommand(tc.goos, tc.url)
		if gotName != tc.name || !reflect.DeepEqual(gotArgs, tc.args) {
			t.Fatalf("browserCommand(%q) = (%q, %v), want (%q, %v)", tc.goos, gotName, gotArgs, tc.name, tc.args)
		}
	}
}

func TestCopyToClipboard(t *testing.T) {
	origWrite, origUnsupported := writeClipboard, clipboardUnsupported
	t.Cleanup(func() {
		writeClipboard, clipboardUnsupported = origWrite, origUnsupported
	})

	var got string
	writeClipboard = func(text string) error {
		got = text
		return nil
	}
	clipboardUnsupported = func() bool { return false }
	if err := CopyToClipboard("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected clipboard text: %q", got)
	}

	writeClipboard = func(string) error { return errors.New("xclip failed") }
	if err := CopyToClipboard("hello"); err == nil || !strings.Contains(err.Error(), "xclip failed") {
		t.Fatalf("expected wrapped write error, got %v", err)
	}

	clipboardUnsupported = func() bool { return true }
	if err := CopyToClipboard("hello"); err == nil {
		t.Fatal("expected error when no clipboard command is available")
	}
}
