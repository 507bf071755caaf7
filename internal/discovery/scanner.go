package discovery

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtension marks test case files.
const DefaultExtension = "cton"

// entries requested per getdents round trip
const readChunk = 256

// Batch is the result of scanning a single directory.
type Batch struct {
	Dir   string
	Tests []string // Test files found directly in Dir, in name order
	Err   error    // Set when Dir could not be read completely
}

// Scanner walks directory trees looking for test files without stat-ing
// directory entries. Only a path that cannot be read as a directory is
// stat-ed, to tell regular files apart from real errors. Entries are
// classified by extension alone:
//
//   - the test extension marks a test file,
//   - no extension marks a candidate subdirectory,
//   - anything else is ignored.
//
// This means directories with a '.' in their name are never descended into.
type Scanner struct {
	ext   string
	stack []string
	open  func(path string) (dirReader, error)
}

// NewScanner creates a Scanner recognizing files with the given extension
// (without the leading dot).
func NewScanner(ext string) *Scanner {
	if ext == "" {
		ext = DefaultExtension
	}
	return &Scanner{ext: ext, open: openDir}
}

// Extension returns the test file extension, without the dot.
func (s *Scanner) Extension() string {
	return s.ext
}

// IsTestFile reports whether path carries the test extension.
func (s *Scanner) IsTestFile(path string) bool {
	name := path[strings.LastIndexByte(path, filepath.Separator)+1:]
	ext, ok := extension(name)
	return ok && ext == s.ext
}

// extension returns the part of name after the last dot. A leading dot does
// not start an extension, so ".cton" has none.
func extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", false
	}
	return name[i+1:], true
}

// Push adds a path to the frontier. If it turns out to be a regular file it
// is silently ignored when visited.
func (s *Scanner) Push(dir string) {
	s.stack = append(s.stack, dir)
}

// Pending returns the number of paths still waiting to be visited.
func (s *Scanner) Pending() int {
	return len(s.stack)
}

// Next pops one path off the frontier and reads it. It returns false once the
// frontier is empty.
func (s *Scanner) Next() (Batch, bool) {
	n := len(s.stack)
	if n == 0 {
		return Batch{}, false
	}
	dir := s.stack[n-1]
	s.stack = s.stack[:n-1]

	batch := Batch{Dir: dir}
	names, err := s.readNames(dir)
	if err != nil {
		batch.Err = err
	}

	sort.Strings(names)
	var subdirs []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		switch ext, ok := extension(name); {
		case !ok:
			subdirs = append(subdirs, path)
		case ext == s.ext:
			batch.Tests = append(batch.Tests, path)
		}
	}
	// Reverse so that subdirectories are visited in name order.
	for i := len(subdirs) - 1; i >= 0; i-- {
		s.Push(subdirs[i])
	}
	return batch, true
}

// Collect drains the frontier and returns every test file found together
// with the scan errors encountered on the way.
func (s *Scanner) Collect() ([]string, []Batch) {
	var tests []string
	var failed []Batch
	for {
		batch, ok := s.Next()
		if !ok {
			return tests, failed
		}
		tests = append(tests, batch.Tests...)
		if batch.Err != nil {
			failed = append(failed, batch)
		}
	}
}

// dirReader is the part of *os.File the scanner reads directories through.
type dirReader interface {
	Readdirnames(n int) ([]string, error)
	Close() error
}

// openDir opens path only if it is a directory, so that special files such as
// FIFOs fail at once instead of blocking.
func openDir(path string) (dirReader, error) {
	return os.OpenFile(path, openDirFlags, 0)
}

// readNames lists the entry names of dir. Entries read before an iteration
// error are returned along with the error; the listing is not resumed. A dir
// that turns out to be a regular file yields no names and no error.
func (s *Scanner) readNames(dir string) ([]string, error) {
	names, err := s.listNames(dir)
	if err != nil && isRegularFile(dir) {
		return nil, nil
	}
	return names, err
}

func (s *Scanner) listNames(dir string) ([]string, error) {
	d, err := s.open(dir)
	if err != nil {
		return nil, unwrapPathError(err)
	}
	defer d.Close()

	var names []string
	for {
		chunk, err := d.Readdirnames(readChunk)
		names = append(names, chunk...)
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return names, unwrapPathError(err)
		}
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// unwrapPathError drops the operation and path from err, the caller prints
// the path itself.
func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
