package documents

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "AI_Flow_Studio"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	path, err := s.Save("design", "# Design\n\nbody")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "design.md" {
		t.Errorf("path = %q, want design.md", path)
	}

	got, err := s.Load("design")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "# Design\n\nbody" {
		t.Errorf("Load = %q", got)
	}

	if _, err := s.Save("design", "v2"); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	if got, _ := s.Load("design"); got != "v2" {
		t.Errorf("Load after overwrite = %q, want v2", got)
	}
}

func TestLoad_MissingIsIOErrorNotExist(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load("nope")
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want *IOError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
	if ioErr.Path != filepath.Join(s.Dir, "nope.md") {
		t.Errorf("Path = %q", ioErr.Path)
	}
}

func TestList_SortedMarkdownOnly(t *testing.T) {
	s := openTestStore(t)
	s.Save("zeta", "z")
	s.Save("alpha", "a")
	os.WriteFile(filepath.Join(s.Dir, "rag_review_data.json"), []byte("[]"), 0o644)
	os.Mkdir(filepath.Join(s.Dir, "sub.md"), 0o755)

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"alpha", "zeta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestList_Empty(t *testing.T) {
	got, err := openTestStore(t).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List = %#v, want empty slice", got)
	}
}

func TestInvalidNames(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"", "  ", "../etc", "a/b", `a\b`, "x..y"} {
		if _, err := s.Save(name, "x"); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Save(%q) err = %v, want ErrInvalidName", name, err)
		}
		if _, err := s.Load(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Load(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestSave_WriteFailureIsIOError(t *testing.T) {
	s := openTestStore(t)
	os.RemoveAll(s.Dir)
	os.WriteFile(s.Dir, []byte("not a dir"), 0o644)

	_, err := s.Save("doc", "x")
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want *IOError", err)
	}
	if ioErr.Op != "write" {
		t.Errorf("Op = %q, want write", ioErr.Op)
	}
}

func TestImportPDF_MissingFile(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ImportPDF("doc", filepath.Join(t.TempDir(), "missing.pdf"))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want *IOError", err)
	}
	if names, _ := s.List(); len(names) != 0 {
		t.Errorf("document saved despite failure: %v", names)
	}
}

func TestImportPDF_InvalidName(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.ImportPDF("../x", "whatever.pdf"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}
}
