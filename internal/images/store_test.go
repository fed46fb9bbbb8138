package images

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// png1x1 is a valid 1x1 transparent PNG payload.
const png1x1 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNewStore_CreatesDirAndTrimsPrefix(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "media")
	s, err := NewStore(dir, "/media/")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("dir not created: %v", err)
	}
	if s.URLPrefix() != "/media" {
		t.Fatalf("prefix not trimmed: %q", s.URLPrefix())
	}
	if s.Dir() != dir {
		t.Fatalf("Dir() = %q", s.Dir())
	}
}

func TestSave_ValidPNG(t *testing.T) {
	s := newStore(t)

	url, err := s.Save(context.Background(), "data:image/png;base64,"+png1x1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, "/media/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url wrong: %q", url)
	}

	name := strings.TrimPrefix(url, "/media/")
	raw, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("stored file is empty")
	}
}

func TestSave_JpegAliasExtension(t *testing.T) {
	s := newStore(t)

	// The payload need not be a real JPEG; the store trusts the data URI.
	url, err := s.Save(context.Background(), "data:image/jpg;base64,"+png1x1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("jpg alias should map to .jpg: %q", url)
	}
}

func TestSave_Rejections(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		uri  string
		want error
	}{
		{"not a data uri", "http://example.com/x.png", ErrBadDataURI},
		{"wrong media type", "data:text/plain;base64,aGk=", ErrBadDataURI},
		{"missing payload", "data:image/png;base64,", ErrBadDataURI},
		{"missing separator", "data:image/png," + png1x1, ErrBadDataURI},
		{"unsupported format", "data:image/tiff;base64," + png1x1, ErrUnsupportedFormat},
		{"invalid base64", "data:image/png;base64,@@@@", ErrBadDataURI},
	}
	for _, tc := range cases {
		if _, err := s.Save(ctx, tc.uri); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestSave_FreshNamePerUpload(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, "data:image/png;base64,"+png1x1)
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	b, err := s.Save(ctx, "data:image/png;base64,"+png1x1)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if a == b {
		t.Fatalf("identical uploads must not collide: %q", a)
	}
}
