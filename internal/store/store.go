// Package store is the validating settings store: an INI document plus
// the schema that says what its keys may hold. Reads fall back to
// schema defaults, writes are validated and normalized before they
// touch the document, and saves are atomic.
package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/ckpe-tools/ckpectl/internal/backup"
	"github.com/ckpe-tools/ckpectl/internal/errors"
	"github.com/ckpe-tools/ckpectl/internal/inifile"
	"github.com/ckpe-tools/ckpectl/internal/logging"
	"github.com/ckpe-tools/ckpectl/internal/schema"
)

// Store couples one INI document with a schema.
type Store struct {
	mu      sync.RWMutex
	doc     *inifile.Document
	schema  *schema.Schema
	log     *logging.Logger
	backup  *backup.Manager
	anyName bool
}

// Option configures Open.
type Option func(*Store)

// WithAnyName skips the canonical file name check. The Creation Kit
// only reads CreationKitPlatformExtended.ini, so this is for working
// copies.
func WithAnyName() Option {
	return func(s *Store) { s.anyName = true }
}

// WithSchema replaces the builtin catalog, e.g. after applying a user
// overlay.
func WithSchema(sc *schema.Schema) Option {
	return func(s *Store) { s.schema = sc }
}

// WithBackup makes Save snapshot the on-disk file before overwriting
// it.
func WithBackup(m *backup.Manager) Option {
	return func(s *Store) { s.backup = m }
}

// WithLogger overrides the global logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open reads and parses the INI file at path. The base name must be
// exactly the canonical CKPE file name unless WithAnyName is given.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		schema: schema.Builtin(),
		log:    logging.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.anyName {
		if base := filepath.Base(path); base != errors.CanonicalFileName {
			return nil, errors.FilenameMismatch(path, base)
		}
	}

	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	s.doc = doc

	s.log.Debug("ini opened", "path", path, "sections", len(doc.Sections()))
	return s, nil
}

// readDocument loads and parses path, rejecting binary files.
func readDocument(path string) (*inifile.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.IniNotFound(path)
		}
		return nil, errors.ParseFailed(path, err)
	}

	sniff := data
	if len(sniff) > 8192 {
		sniff = sniff[:8192]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return nil, errors.ParseFailed(path, fmt.Errorf("file contains binary data"))
	}

	return inifile.Parse(data, path), nil
}

// Path returns the INI file path.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Path()
}

// Schema returns the schema the store validates against.
func (s *Store) Schema() *schema.Schema { return s.schema }

// Document returns the underlying document for read-mostly consumers
// like list and diff output. Not synchronized with concurrent setters.
func (s *Store) Document() *inifile.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Reload re-reads the file from disk, discarding pending edits. The
// watcher calls this only when the store is clean.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := readDocument(s.doc.Path())
	if err != nil {
		return err
	}
	s.doc = doc
	s.log.Debug("ini reloaded", "path", doc.Path())
	return nil
}

// resolve returns the effective string value of a key: the file's value
// if present, else the schema default.
func (s *Store) resolve(section, key string) (string, error) {
	if v, ok := s.doc.Get(section, key); ok {
		return v, nil
	}
	if spec, ok := s.schema.Lookup(section, key); ok {
		return spec.Default, nil
	}
	return "", errors.KeyNotFound(section, key)
}

// Raw returns the effective value without interpretation.
func (s *Store) Raw(section, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(section, key)
}

// String is Raw under the name typed callers expect.
func (s *Store) String(section, key string) (string, error) {
	return s.Raw(section, key)
}

// Bool returns a boolean setting.
func (s *Store) Bool(section, key string) (bool, error) {
	v, err := s.Raw(section, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.ValueRejected(section, key, v, "not a boolean")
	}
	return b, nil
}

// Uint returns an unsigned integer setting.
func (s *Store) Uint(section, key string) (uint64, error) {
	v, err := s.Raw(section, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, errors.ValueRejected(section, key, v, "not a non-negative integer")
	}
	return n, nil
}

// Int returns a signed integer setting.
func (s *Store) Int(section, key string) (int64, error) {
	v, err := s.Raw(section, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.ValueRejected(section, key, v, "not an integer")
	}
	return n, nil
}

// Float returns a decimal setting.
func (s *Store) Float(section, key string) (float64, error) {
	v, err := s.Raw(section, key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.ValueRejected(section, key, v, "not a number")
	}
	return f, nil
}

// Enum returns the numeric value of an enum setting.
func (s *Store) Enum(section, key string) (int, error) {
	o, err := s.enumOption(section, key)
	if err != nil {
		return 0, err
	}
	return o.Value, nil
}

// EnumLabel returns the label of an enum setting's current value, e.g.
// "RUSSIAN_CHARSET" for nCharset=204.
func (s *Store) EnumLabel(section, key string) (string, error) {
	o, err := s.enumOption(section, key)
	if err != nil {
		return "", err
	}
	return o.Label, nil
}

func (s *Store) enumOption(section, key string) (schema.EnumOption, error) {
	v, err := s.Raw(section, key)
	if err != nil {
		return schema.EnumOption{}, err
	}

	spec, ok := s.schema.Lookup(section, key)
	if !ok || spec.Type != schema.TypeEnum {
		return schema.EnumOption{}, errors.ValueRejected(section, key, v, "not an enum setting")
	}

	if n, aerr := strconv.Atoi(v); aerr == nil {
		if o, ok := spec.OptionByValue(n); ok {
			return o, nil
		}
	} else if o, ok := spec.Option(v); ok {
		return o, nil
	}
	return schema.EnumOption{}, errors.EnumRejected(section, key, v, spec.Labels())
}

// Set validates value against the key's spec and writes it through to
// the document. A cataloged key missing from the file is appended to
// its section with its documentation; unknown keys are accepted only in
// free-text sections.
func (s *Store) Set(section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, inFile := s.doc.Find(section, key)

	var spec *schema.KeySpec
	if cataloged, ok := s.schema.Lookup(section, key); ok {
		spec = cataloged
	} else if inFile {
		spec = s.schema.Infer(section, key, entry.Value())
	} else if sec, ok := s.schema.LookupSection(section); ok && sec.FreeText {
		spec = s.schema.Infer(section, key, value)
	} else {
		return errors.UnknownKey(section, key)
	}

	normalized, err := s.schema.Normalize(spec, value)
	if err != nil {
		if verr, ok := err.(*schema.ValidationError); ok {
			return errors.ValueRejected(section, key, value, verr.Message)
		}
		return err
	}

	if inFile {
		if err := s.doc.Set(section, key, normalized); err != nil {
			return err
		}
	} else {
		s.doc.Append(section, key, normalized, spec.Doc)
	}

	s.log.Debug("value set", "section", section, "key", key, "value", normalized)
	return nil
}

// SetString sets a text value.
func (s *Store) SetString(section, key, value string) error {
	return s.Set(section, key, value)
}

// SetBool sets a boolean value.
func (s *Store) SetBool(section, key string, value bool) error {
	return s.Set(section, key, strconv.FormatBool(value))
}

// SetUint sets an unsigned integer value.
func (s *Store) SetUint(section, key string, value uint64) error {
	return s.Set(section, key, strconv.FormatUint(value, 10))
}

// SetInt sets a signed integer value.
func (s *Store) SetInt(section, key string, value int64) error {
	return s.Set(section, key, strconv.FormatInt(value, 10))
}

// SetFloat sets a decimal value.
func (s *Store) SetFloat(section, key string, value float64) error {
	return s.Set(section, key, strconv.FormatFloat(value, 'g', -1, 64))
}

// Dirty reports whether the store has unsaved edits.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Dirty()
}

// Changes returns the pending edits in application order.
func (s *Store) Changes() []inifile.Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Changes()
}

// Revert cancels the pending edit for one key.
func (s *Store) Revert(section, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.RevertKey(section, key)
}

// RevertAll discards every pending edit.
func (s *Store) RevertAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Revert()
}

// Missing lists cataloged keys that are absent from the file. Their
// defaults apply.
func (s *Store) Missing() []*schema.KeySpec {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*schema.KeySpec
	for _, spec := range s.schema.Specs() {
		if _, ok := s.doc.Get(spec.Section, spec.Key); !ok {
			out = append(out, spec)
		}
	}
	return out
}

// Save writes pending edits back to the INI file: snapshot (when a
// backup manager is attached), render, atomic replace, re-baseline.
// A clean store is a no-op.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.doc.Dirty() {
		return nil
	}
	return s.write(ctx, s.doc.Path(), true)
}

// SaveAs writes the document to a different path, pending edits
// included. The store stays dirty relative to its own file.
func (s *Store) SaveAs(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.anyName {
		if base := filepath.Base(path); base != errors.CanonicalFileName {
			return errors.FilenameMismatch(path, base)
		}
	}
	return s.write(ctx, path, false)
}

func (s *Store) write(ctx context.Context, path string, rebase bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.backup != nil && rebase {
		if _, err := os.Stat(path); err == nil {
			if _, err := s.backup.Snapshot(path); err != nil {
				return err
			}
		}
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return errors.WriteFailed(path, err)
	}
	defer pf.Cleanup()

	if _, err := pf.Write(s.doc.Render()); err != nil {
		return errors.WriteFailed(path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.WriteFailed(path, err)
	}

	if rebase {
		n := len(s.doc.Changes())
		s.doc.MarkSaved()
		s.log.Info("ini saved", "path", path, "changes", n)
	} else {
		s.log.Info("ini written", "path", path)
	}
	return nil
}
