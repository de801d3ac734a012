package id_test

import (
	"strings"
	"testing"

	"github.com/ielts-speaking/backend/internal/id"
)

func TestNew(t *testing.T) {
	a, b := id.New(), id.New()
	if len(a) != 16 {
		t.Errorf("expected 16 characters, got %d", len(a))
	}
	if a == b {
		t.Error("expected distinct IDs")
	}
	if strings.Trim(a, "abcdefghijklmnopqrstuvwxyz0123456789") != "" {
		t.Errorf("unexpected characters in %q", a)
	}
}

func TestWithPrefix(t *testing.T) {
	v := id.WithPrefix("job")
	if !strings.HasPrefix(v, "job_") || len(v) != 20 {
		t.Errorf("unexpected id %q", v)
	}
}
