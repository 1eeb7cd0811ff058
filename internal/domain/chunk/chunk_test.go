package chunk

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	meta := map[string]any{"source": "resume.pdf", "page": 0}
	c, err := New("0b54e4f2-1c15-4c97-9c1b-3f5a8e2b41aa", "Jane Doe is an engineer.", meta, []float32{0.1, 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID() != "0b54e4f2-1c15-4c97-9c1b-3f5a8e2b41aa" {
		t.Errorf("ID() = %q", c.ID())
	}
	if c.Content() != "Jane Doe is an engineer." {
		t.Errorf("Content() = %q", c.Content())
	}
	if c.Metadata()["source"] != "resume.pdf" {
		t.Errorf("Metadata()[source] = %v", c.Metadata()["source"])
	}
	if len(c.Vector()) != 2 {
		t.Errorf("len(Vector()) = %d", len(c.Vector()))
	}
}

func TestNew_MetadataIsCopied(t *testing.T) {
	meta := map[string]any{"source": "a.txt"}
	c, err := New("id-1", "content", meta, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta["source"] = "mutated.txt"
	if c.Metadata()["source"] != "a.txt" {
		t.Errorf("metadata not copied: %v", c.Metadata()["source"])
	}
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New("", "content", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_EmptyContent(t *testing.T) {
	_, err := New("id-1", "", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_ContentTooLarge(t *testing.T) {
	_, err := New("id-1", strings.Repeat("x", MaxContentSize+1), nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %q", err)
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	c := Reconstruct("", "", nil, nil, 1700000000)
	if c.ID() != "" || c.Content() != "" {
		t.Error("Reconstruct must not touch values")
	}
	if c.CreatedAt() != 1700000000 {
		t.Errorf("CreatedAt() = %d", c.CreatedAt())
	}
}

func TestWithVector(t *testing.T) {
	c, err := New("id-1", "content", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := c.WithVector([]float32{1, 2, 3})
	if len(c.Vector()) != 0 {
		t.Error("original must stay untouched")
	}
	if len(v.Vector()) != 3 {
		t.Errorf("len(Vector()) = %d", len(v.Vector()))
	}
}
