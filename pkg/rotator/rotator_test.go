package rotator

import (
	"errors"
	"testing"
)

func TestSelectRotatesAfterDwell(t *testing.T) {
	ids := []string{"1", "2", "3"}
	r, err := New(ids)
	if err != nil {
		t.Fatal(err)
	}

	for k := 0; k < 7; k++ {
		for i := 0; i < DwellLength; i++ {
			want := ids[k%len(ids)]
			if got := r.Select(); got != want {
				t.Fatalf("selection %d = %q, want %q", k*DwellLength+i+1, got, want)
			}
		}
		if got, want := r.Current(), ids[(k+1)%len(ids)]; got != want {
			t.Fatalf("after %d selections current = %q, want %q", (k+1)*DwellLength, got, want)
		}
	}

	if got := r.UseCount(); got != 7*DwellLength {
		t.Fatalf("use count = %d, want %d", got, 7*DwellLength)
	}
}

func TestSelectSingleModel(t *testing.T) {
	r, err := New([]string{"only"})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5*DwellLength+3; i++ {
		if got := r.Select(); got != "only" {
			t.Fatalf("selection %d = %q", i+1, got)
		}
	}
}

func TestNewCopiesIDs(t *testing.T) {
	ids := []string{"a", "b"}
	r, _ := New(ids)
	ids[0] = "mutated"

	if got := r.Select(); got != "a" {
		t.Fatalf("got %q, want a", got)
	}
}

func TestNewRequiresModels(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoModels) {
		t.Fatalf("expected ErrNoModels, got %v", err)
	}
}
