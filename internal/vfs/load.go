// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/vfsh/vfsh/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

const (
	// KindFileNotFound means the document path does not exist.
	KindFileNotFound LoadErrorKind = iota + 1
	// KindUnreadable means the document exists but could not be read.
	KindUnreadable
	// KindMalformedDocument means the document is not valid JSON.
	KindMalformedDocument
	// KindInvalidStructure means the JSON does not describe a VFS tree.
	KindInvalidStructure
)

var (
	// ErrFileNotFound is the sentinel for KindFileNotFound load errors.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnreadable is the sentinel for KindUnreadable load errors.
	ErrUnreadable = errors.New("unreadable document")
	// ErrMalformedDocument is the sentinel for KindMalformedDocument load errors.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrInvalidStructure is the sentinel for KindInvalidStructure load errors.
	ErrInvalidStructure = errors.New("invalid structure")
)

//go:embed vfs_schema.cue
var documentSchema string

type (
	// LoadErrorKind classifies why a document could not be loaded.
	LoadErrorKind int

	// LoadError reports a failed load. Load still returns the fallback tree
	// alongside it. It matches both its kind sentinel and its cause with
	// errors.Is.
	LoadError struct {
		Kind LoadErrorKind
		Path string
		Err  error
	}
)

// String returns the kind's description.
func (k LoadErrorKind) String() string {
	return k.sentinel().Error()
}

func (k LoadErrorKind) sentinel() error {
	switch k {
	case KindFileNotFound:
		return ErrFileNotFound
	case KindUnreadable:
		return ErrUnreadable
	case KindMalformedDocument:
		return ErrMalformedDocument
	case KindInvalidStructure:
		return ErrInvalidStructure
	default:
		return errors.New("load error")
	}
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Err == nil || e.Kind == KindFileNotFound {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the kind sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Load reads the JSON document at path and builds its tree. The returned tree
// is never nil: on failure it is Fallback() and the error is a *LoadError.
// The source file is only read.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := KindUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindFileNotFound
		}
		return Fallback(), &LoadError{Kind: kind, Path: path, Err: err}
	}
	return Parse(data, path)
}

// Parse builds a tree from document bytes. name is used in error messages.
// Like Load, it always returns a usable tree.
func Parse(data []byte, name string) (*Tree, error) {
	root, err := parse(data, name)
	if err != nil {
		return Fallback(), err
	}
	return NewTree(root), nil
}

func parse(data []byte, name string) (*Directory, error) {
	malformed := func(err error) error {
		return &LoadError{Kind: KindMalformedDocument, Path: name, Err: err}
	}
	invalid := func(format string, args ...any) error {
		return &LoadError{Kind: KindInvalidStructure, Path: name, Err: fmt.Errorf(format, args...)}
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, name); err != nil {
		return nil, malformed(err)
	}

	expr, err := cuejson.Extract(name, data)
	if err != nil {
		return nil, malformed(err)
	}

	ctx := cuecontext.New()
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return nil, malformed(cueutil.FormatError(err, name))
	}

	if doc.Kind() != cue.StructKind {
		return nil, invalid("%s: document root is not a mapping", name)
	}
	rootVal := doc.LookupPath(cue.MakePath(cue.Str(Separator)))
	if !rootVal.Exists() {
		return nil, invalid("%s: missing %q entry", name, Separator)
	}
	if typ, _ := rootVal.LookupPath(cue.ParsePath("type")).String(); typ != KindDirectory.String() {
		return nil, invalid("%s: %q entry is not a directory", name, Separator)
	}

	def, err := cueutil.CompileSchema(ctx, documentSchema, "#Document")
	if err != nil {
		return nil, err
	}
	if _, err := cueutil.Unify(def, doc, true, name); err != nil {
		return nil, &LoadError{Kind: KindInvalidStructure, Path: name, Err: err}
	}

	root, err := buildDirectory(rootVal, Separator)
	if err != nil {
		return nil, &LoadError{Kind: KindInvalidStructure, Path: name, Err: fmt.Errorf("%s: %w", name, err)}
	}
	return root, nil
}

// buildDirectory converts a validated directory value into a *Directory.
// p is the VFS path of the directory, used in error messages.
func buildDirectory(v cue.Value, p string) (*Directory, error) {
	dir := &Directory{children: make(map[string]Node)}

	content := v.LookupPath(cue.ParsePath("content"))
	if !content.Exists() {
		return dir, nil
	}

	it, err := content.Fields()
	if err != nil {
		return nil, fmt.Errorf("%s: directory content: %w", p, err)
	}
	for it.Next() {
		name := it.Selector().Unquoted()
		if err := validateName(name); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		child, err := buildNode(it.Value(), Join(p, name))
		if err != nil {
			return nil, err
		}
		dir.children[name] = child
	}
	return dir, nil
}

func buildNode(v cue.Value, p string) (Node, error) {
	typ, err := v.LookupPath(cue.ParsePath("type")).String()
	if err != nil {
		return nil, fmt.Errorf("%s: node type: %w", p, err)
	}

	switch typ {
	case KindDirectory.String():
		return buildDirectory(v, p)
	case KindFile.String():
		content := v.LookupPath(cue.ParsePath("content"))
		if !content.Exists() {
			return NewFile(""), nil
		}
		s, err := content.String()
		if err != nil {
			return nil, fmt.Errorf("%s: file content: %w", p, err)
		}
		return NewFile(s), nil
	default:
		return nil, fmt.Errorf("%s: unknown node type %q", p, typ)
	}
}

func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("invalid child name %q", name)
	case strings.Contains(name, Separator):
		return fmt.Errorf("child name %q contains %q", name, Separator)
	}
	return nil
}

// Status renders the one-line VFS status shown at startup.
func Status(path string, loadErr error) string {
	switch {
	case path == "":
		return "VFS: not in use"
	case loadErr != nil:
		return "VFS error: " + loadErr.Error()
	default:
		return "VFS loaded: " + path
	}
}
