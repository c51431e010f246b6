package pathgen

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func word(n uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, n)
	return b
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func TestGenerateSingleLiteral(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(word(0))          // enter template phase (cleared, stays empty)
	buf.Write(word(0))          // back to generation phase
	buf.Write(word(1))          // cmd=1, no base at index 0 yet: literal
	buf.Write(cstr("Art/2DArt"))

	got, err := Generate(buf.Bytes())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"Art/2DArt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGenerateBackref(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(word(0)) // enter template
	buf.Write(word(1))
	buf.Write(cstr("Art/"))
	buf.Write(word(0)) // enter generation
	buf.Write(word(1)) // backref to base[0] = "Art/"
	buf.Write(cstr("2DArt/foo.dds"))

	got, err := Generate(buf.Bytes())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"Art/2DArt/foo.dds"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGenerateTemplateClearsOnReentry(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(word(0))
	buf.Write(word(1))
	buf.Write(cstr("First/"))
	buf.Write(word(0)) // generation phase, emit nothing
	buf.Write(word(0)) // re-enter template phase: bases cleared
	buf.Write(word(1)) // no base at index 0: literal
	buf.Write(cstr("Second/"))
	buf.Write(word(0)) // generation
	buf.Write(word(1)) // backref to "Second/"
	buf.Write(cstr("leaf.bin"))

	got, err := Generate(buf.Bytes())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"Second/leaf.bin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGenerateRejectsNonZeroFirstCommand(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(word(1))
	buf.Write(cstr("oops"))

	_, err := Generate(buf.Bytes())
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("got err %v, want ErrMalformed", err)
	}
}

func TestGenerateTruncatedFragment(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(word(0))
	buf.Write(word(1))
	buf.Write([]byte("no nul terminator"))

	if _, err := Generate(buf.Bytes()); err == nil {
		t.Fatal("expected error for unterminated fragment")
	}
}
