package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Reserved field names carry record identity and service metadata. They are
// never writable through the field bag: Set rejects them, Restore drops
// them, and the JSON form keeps them in the envelope outside "fields".
const (
	FieldID         = "id"
	FieldRecordType = "record_type"
	FieldCreatorID  = "creator_id"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
)

// ReservedFieldNames lists the reserved field names for enumeration.
var ReservedFieldNames = []string{
	FieldID,
	FieldRecordType,
	FieldCreatorID,
	FieldCreatedAt,
	FieldUpdatedAt,
}

// reservedFields is the set of names rejected by Record.Set.
var reservedFields = map[string]bool{
	FieldID:         true,
	FieldRecordType: true,
	FieldCreatorID:  true,
	FieldCreatedAt:  true,
	FieldUpdatedAt:  true,
}

// Record field errors.
var (
	ErrEmptyFieldName = errors.New("field name is empty")
	ErrReservedField  = errors.New("reserved field name")
	ErrMissingField   = errors.New("required field missing")
)

// Record is an opaque storage unit: an identifier, a record-type tag,
// service-owned metadata, and a sparse bag of typed fields. The field bag
// never contains a reserved name, so a codec cannot overwrite record
// identity or metadata through field writes.
//
// Codecs build records with New or NewWithID and read them back with the
// typed field getters; services materialize stored records with Restore.
type Record struct {
	id         string
	recordType string
	creatorID  string
	createdAt  time.Time
	updatedAt  time.Time
	fields     map[string]Value
}

// New returns an unsaved record of the given type. The identifier stays
// empty until a service assigns one on save.
func New(recordType string) *Record {
	return &Record{
		recordType: recordType,
		fields:     make(map[string]Value),
	}
}

// NewWithID returns a record of the given type carrying an already-persisted
// identifier, for re-saving an existing object.
func NewWithID(recordType, id string) *Record {
	r := New(recordType)
	r.id = id
	return r
}

// Restore reconstructs a stored record from service-held metadata and
// fields. Reserved names in fields are dropped. Service implementations use
// Restore when materializing fetch and query results; application code has
// no reason to call it.
func Restore(id, recordType, creatorID string, createdAt, updatedAt time.Time, fields map[string]Value) *Record {
	r := &Record{
		id:         id,
		recordType: recordType,
		creatorID:  creatorID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		fields:     make(map[string]Value, len(fields)),
	}
	for name, v := range fields {
		if reservedFields[name] {
			continue
		}
		r.fields[name] = v
	}
	return r
}

// ID returns the record identifier; empty for records not yet saved.
func (r *Record) ID() string {
	return r.id
}

// Type returns the record-type tag.
func (r *Record) Type() string {
	return r.recordType
}

// CreatorID returns the identity that created the record. Service-assigned.
func (r *Record) CreatorID() string {
	return r.creatorID
}

// CreatedAt returns the creation timestamp. Service-assigned.
func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns the last-save timestamp. Service-assigned.
func (r *Record) UpdatedAt() time.Time {
	return r.updatedAt
}

// Set stores a field value. Returns ErrEmptyFieldName for an empty name,
// ErrReservedField for a reserved name, and ErrUnknownKind for a zero or
// unrecognized value.
func (r *Record) Set(name string, v Value) error {
	if name == "" {
		return ErrEmptyFieldName
	}
	if reservedFields[name] {
		return fmt.Errorf("%w: %s", ErrReservedField, name)
	}
	if !v.kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, v.kind)
	}
	r.fields[name] = v
	return nil
}

// Field returns the named field value. The bool reports presence.
func (r *Record) Field(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Fields returns a copy of the field bag.
func (r *Record) Fields() map[string]Value {
	out := make(map[string]Value, len(r.fields))
	for name, v := range r.fields {
		out[name] = v
	}
	return out
}

// FieldNames returns the field names in sorted order.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (r *Record) Clone() *Record {
	return Restore(r.id, r.recordType, r.creatorID, r.createdAt, r.updatedAt, r.fields)
}

// StringField returns the named field as a string.
// Returns ErrMissingField if absent, ErrKindMismatch if not a string.
func (r *Record) StringField(name string) (string, error) {
	v, ok := r.fields[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	s, ok := v.AsString()
	if !ok {
		return "", fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindString)
	}
	return s, nil
}

// OptStringField returns the named field as a string pointer, or nil when
// the field is absent. Returns ErrKindMismatch if present with another kind.
func (r *Record) OptStringField(name string) (*string, error) {
	v, ok := r.fields[name]
	if !ok {
		return nil, nil
	}
	s, ok := v.AsString()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindString)
	}
	return &s, nil
}

// IntField returns the named field as an int64.
// Returns ErrMissingField if absent, ErrKindMismatch if not an int.
func (r *Record) IntField(name string) (int64, error) {
	v, ok := r.fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindInt)
	}
	return i, nil
}

// DoubleField returns the named field as a float64.
// Returns ErrMissingField if absent, ErrKindMismatch if not a double.
func (r *Record) DoubleField(name string) (float64, error) {
	v, ok := r.fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	f, ok := v.AsDouble()
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindDouble)
	}
	return f, nil
}

// BoolField returns the named field as a bool.
// Returns ErrMissingField if absent, ErrKindMismatch if not a bool.
func (r *Record) BoolField(name string) (bool, error) {
	v, ok := r.fields[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	b, ok := v.AsBool()
	if !ok {
		return false, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindBool)
	}
	return b, nil
}

// TimeField returns the named field as a time.Time.
// Returns ErrMissingField if absent, ErrKindMismatch if not a time.
func (r *Record) TimeField(name string) (time.Time, error) {
	v, ok := r.fields[name]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	t, ok := v.AsTime()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindTime)
	}
	return t, nil
}

// BytesField returns the named field as a byte slice.
// Returns ErrMissingField if absent, ErrKindMismatch if not bytes.
func (r *Record) BytesField(name string) ([]byte, error) {
	v, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	bs, ok := v.AsBytes()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindBytes)
	}
	return bs, nil
}

// StringListField returns the named field as a string slice.
// Returns ErrMissingField if absent, ErrKindMismatch if not a string list.
func (r *Record) StringListField(name string) ([]string, error) {
	v, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	list, ok := v.AsStringList()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrKindMismatch, name, v.kind, KindStringList)
	}
	return list, nil
}

// recordJSON mirrors the serialized record envelope. Reserved names stay in
// the envelope; only the field bag appears under "fields".
type recordJSON struct {
	RecordID   string           `json:"record_id"`
	RecordType string           `json:"record_type"`
	CreatorID  string           `json:"creator_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Fields     map[string]Value `json:"fields"`
}

// MarshalJSON encodes the record envelope with snake_case keys.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		RecordID:   r.id,
		RecordType: r.recordType,
		CreatorID:  r.creatorID,
		CreatedAt:  r.createdAt,
		UpdatedAt:  r.updatedAt,
		Fields:     r.fields,
	})
}

// UnmarshalJSON decodes the record envelope. A reserved name inside the
// fields object fails with ErrReservedField.
func (r *Record) UnmarshalJSON(data []byte) error {
	var env recordJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	for name := range env.Fields {
		if reservedFields[name] {
			return fmt.Errorf("%w: %s", ErrReservedField, name)
		}
	}
	if env.Fields == nil {
		env.Fields = make(map[string]Value)
	}
	r.id = env.RecordID
	r.recordType = env.RecordType
	r.creatorID = env.CreatorID
	r.createdAt = env.CreatedAt
	r.updatedAt = env.UpdatedAt
	r.fields = env.Fields
	return nil
}
