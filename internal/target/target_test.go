package target

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{raw: "10.0.0.1:9999", wantHost: "10.0.0.1", wantPort: 9999},
		{raw: "example.com", wantHost: "example.com", wantPort: DefaultPort},
		{raw: "  mc.example.net  ", wantHost: "mc.example.net", wantPort: DefaultPort},
		{raw: "[::1]:25566", wantHost: "::1", wantPort: 25566},
		{raw: "[2001:db8::1]", wantHost: "2001:db8::1", wantPort: DefaultPort},
		{raw: "2001:db8::1", wantHost: "2001:db8::1", wantPort: DefaultPort},
		{raw: "example.com:notanumber", wantErr: true},
		{raw: "example.com:", wantErr: true},
		{raw: "example.com:70000", wantErr: true},
		{raw: ":25565", wantErr: true},
		{raw: "example.com:80:90", wantErr: true},
		{raw: "example.com:abc:def", wantErr: true},
		{raw: "2001:db8::zz", wantErr: true},
		{raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Parse(tt.raw, DefaultPort)
			if tt.wantErr {
				if got.Valid() {
					t.Fatalf("expected parse error, got %+v", got)
				}
				var pe *ParseError
				if !errors.As(got.Err, &pe) {
					t.Fatalf("expected *ParseError, got %T", got.Err)
				}
				if pe.Raw != tt.raw {
					t.Errorf("ParseError.Raw = %q, want %q", pe.Raw, tt.raw)
				}
				return
			}
			if !got.Valid() {
				t.Fatalf("unexpected error: %v", got.Err)
			}
			if got.Host != tt.wantHost || got.Port != tt.wantPort {
				t.Errorf("got %s:%d, want %s:%d", got.Host, got.Port, tt.wantHost, tt.wantPort)
			}
			if got.String() != tt.raw {
				t.Errorf("String() = %q, want raw %q", got.String(), tt.raw)
			}
		})
	}
}

func TestParseCustomDefaultPort(t *testing.T) {
	got := Parse("example.com", 443)
	if got.Port != 443 {
		t.Fatalf("port = %d, want 443", got.Port)
	}
	if got.Address() != "example.com:443" {
		t.Fatalf("address = %s", got.Address())
	}
}

func TestParseAllKeepsDuplicates(t *testing.T) {
	got := ParseAll([]string{"a.example", "a.example", "b.example:1"}, DefaultPort)
	if len(got) != 3 {
		t.Fatalf("got %d targets, want 3", len(got))
	}
	if got[0].Address() != got[1].Address() {
		t.Fatalf("duplicates should be preserved: %v", got)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	t.Run("file with targets", func(t *testing.T) {
		path := filepath.Join(dir, "targets.txt")
		if err := os.WriteFile(path, []byte("a.example\n\n   \r\nb.example:1\na.example\n"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := FileSource{Path: path, Fallback: DefaultSource()}.Load()
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"a.example", "b.example:1", "a.example"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})

	t.Run("empty file falls back", func(t *testing.T) {
		path := filepath.Join(dir, "empty.txt")
		if err := os.WriteFile(path, []byte("\n  \n"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := FileSource{Path: path, Fallback: StaticSource{"fallback.example"}}.Load()
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0] != "fallback.example" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		got, err := FileSource{Path: filepath.Join(dir, "missing.txt"), Fallback: DefaultSource()}.Load()
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(defaultTargets) {
			t.Fatalf("got %d targets, want %d", len(got), len(defaultTargets))
		}
	})

	t.Run("missing file without fallback", func(t *testing.T) {
		if _, err := (FileSource{Path: filepath.Join(dir, "missing.txt")}).Load(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestStaticSourceReturnsCopy(t *testing.T) {
	src := StaticSource{"a.example"}
	got, _ := src.Load()
	got[0] = "changed"
	if src[0] != "a.example" {
		t.Fatal("StaticSource.Load must not expose its backing array")
	}
}
