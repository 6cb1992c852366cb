// Package fixture runs sample source files through the lexer and compares
// the result against recorded expectations.
//
// A suite root holds one directory per language and one file per scenario:
//
//	<root>/<language>/<category>.<ext>
//	<root>/<language>/<category>.tokens.yaml   (optional expectation)
//
// Fixtures without an expectation are still checked for the lexer's
// structural invariants.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"sigs.k8s.io/yaml"

	"github.com/malphas-lang/rustlex/internal/lexer"
)

const expectationSuffix = ".tokens.yaml"

// languages maps a fixture directory name to the extensions it scans.
var languages = map[string][]string{
	"rust": {".rs"},
}

var errReadOnly = errors.New("fixture suite is read-only")

// Fixture is one sample file plus its optional recorded expectation.
type Fixture struct {
	Path     string // slash-separated, relative to the suite root
	Language string
	Category string
	Source   string
	Expected *Expectation
}

// Name returns "<language>/<category>", the string --match patterns see.
func (f Fixture) Name() string {
	return f.Language + "/" + f.Category
}

// ExpectationPath returns the slash-separated expectation file path.
func (f Fixture) ExpectationPath() string {
	return path.Join(f.Language, f.Category+expectationSuffix)
}

// Expectation is the recorded significant-token sequence of a fixture.
type Expectation struct {
	Language string  `json:"language"`
	Tokens   []Entry `json:"tokens"`
}

// Entry is one recorded token. It is stored as a two element list,
// [TYPE, text], to keep expectation files compact.
type Entry struct {
	Type lexer.TokenType
	Text string
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{string(e.Type), e.Text})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("token entry must be a [TYPE, text] list: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("token entry must have 2 elements, got %d", len(pair))
	}
	var typ string
	if err := json.Unmarshal(pair[0], &typ); err != nil {
		return fmt.Errorf("token type must be a string: %w", err)
	}
	e.Type = lexer.TokenType(typ)
	// Unquoted scalars such as 42 or true arrive as JSON literals; keep
	// their spelling as the token text.
	if err := json.Unmarshal(pair[1], &e.Text); err != nil {
		e.Text = string(pair[1])
	}
	return nil
}

// Entries projects toks onto the recorded form, dropping trivia.
func Entries(toks []lexer.Token) []Entry {
	out := make([]Entry, 0, len(toks))
	for _, tok := range toks {
		if tok.Type.IsTrivia() {
			continue
		}
		out = append(out, Entry{Type: tok.Type, Text: tok.Raw})
	}
	return out
}

// Suite is a fixture tree on disk or in an fs.FS.
type Suite struct {
	root string // empty for suites opened from an fs.FS
	fsys fs.FS
}

// Open returns the suite rooted at dir.
func Open(dir string) *Suite {
	return &Suite{root: dir, fsys: os.DirFS(dir)}
}

// OpenFS returns a read-only suite backed by fsys.
func OpenFS(fsys fs.FS) *Suite {
	return &Suite{fsys: fsys}
}

// Discover loads every fixture whose Name matches pattern, a glob with '/'
// as separator. An empty pattern matches everything. Results are ordered
// by language, then file name.
func (s *Suite) Discover(pattern string) ([]Fixture, error) {
	var match glob.Glob
	if pattern != "" {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid fixture pattern %q: %w", pattern, err)
		}
		match = g
	}

	langDirs, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading fixture root: %w", err)
	}

	var fixtures []Fixture
	for _, dir := range langDirs {
		exts, ok := languages[dir.Name()]
		if !dir.IsDir() || !ok {
			continue
		}
		entries, err := fs.ReadDir(s.fsys, dir.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s fixtures: %w", dir.Name(), err)
		}
		for _, e := range entries {
			ext := path.Ext(e.Name())
			if e.IsDir() || !slices.Contains(exts, ext) {
				continue
			}
			f := Fixture{
				Path:     path.Join(dir.Name(), e.Name()),
				Language: dir.Name(),
				Category: strings.TrimSuffix(e.Name(), ext),
			}
			if match != nil && !match.Match(f.Name()) {
				continue
			}
			if err := s.load(&f); err != nil {
				return nil, err
			}
			fixtures = append(fixtures, f)
		}
	}
	return fixtures, nil
}

func (s *Suite) load(f *Fixture) error {
	raw, err := fs.ReadFile(s.fsys, f.Path)
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}
	if f.Source, err = DecodeSource(raw); err != nil {
		return fmt.Errorf("decoding %s: %w", f.Path, err)
	}

	data, err := fs.ReadFile(s.fsys, f.ExpectationPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading expectation: %w", err)
	}
	var exp Expectation
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return fmt.Errorf("parsing %s: %w", f.ExpectationPath(), err)
	}
	f.Expected = &exp
	return nil
}

// DecodeSource turns source file bytes into UTF-8 text. A byte order mark
// selects UTF-16 or is stripped for UTF-8; without one UTF-8 is assumed.
func DecodeSource(raw []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Record tokenizes f and writes its expectation file, replacing any
// existing one.
func (s *Suite) Record(f Fixture) (Expectation, error) {
	exp := Expectation{
		Language: f.Language,
		Tokens:   Entries(lexer.Tokenize(f.Source)),
	}
	if s.root == "" {
		return exp, errReadOnly
	}
	data, err := yaml.Marshal(exp)
	if err != nil {
		return exp, fmt.Errorf("encoding expectation: %w", err)
	}
	dst := filepath.Join(s.root, filepath.FromSlash(f.ExpectationPath()))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return exp, fmt.Errorf("writing expectation: %w", err)
	}
	return exp, nil
}
