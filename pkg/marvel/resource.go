package marvel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Field names with special meaning.
const (
	FieldResourceURI = "resourceURI"
	FieldName        = "name"
	FieldTitle       = "title"
	FieldID          = "id"
	FieldThumbnail   = "thumbnail"
)

// Entity is implemented by *Resource and by every model variant that embeds it.
type Entity interface {
	Base() *Resource
	Get(ctx context.Context, field string) (Value, error)
	Name(ctx context.Context) (string, error)
	ResourceURI() string
	ResourceType() (string, error)
	Loaded() bool
}

// Resource is a lazily populated proxy for one gateway object.
//
// Fields missing from a partial payload are resolved on first access with a
// single request to the resource URI. The resource counts as loaded once that
// request is attempted, even if it fails, and further misses resolve to absent
// without network activity.
type Resource struct {
	mu      sync.Mutex
	fetcher *Fetcher
	loaded  bool
	uri     string
	fields  map[string]Value
}

// NewResource validates data and wraps it. Nested collection and resource
// payloads are wrapped recursively and bound to the same fetcher.
func NewResource(data map[string]interface{}, fetcher *Fetcher, loaded bool) (*Resource, error) {
	if !hasResourceURI(data) {
		return nil, ErrMissingResourceURI
	}

	if !hasName(data) {
		return nil, ErrMissingName
	}

	resource := &Resource{
		fetcher: fetcher,
		loaded:  loaded,
		fields:  make(map[string]Value, len(data)),
	}

	err := resource.apply(data)
	if err != nil {
		return nil, err
	}

	return resource, nil
}

// apply merges data into the field set, overwriting existing keys.
func (r *Resource) apply(data map[string]interface{}) error {
	for key, raw := range data {
		value, err := classify(raw, r.fetcher)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		r.fields[key] = value
	}

	if uri, ok := r.fields[FieldResourceURI].String(); ok {
		r.uri = uri
	}

	return nil
}

// Base implements Entity.
func (r *Resource) Base() *Resource {
	return r
}

// ResourceURI returns the identity and fetch key of the resource.
func (r *Resource) ResourceURI() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.uri
}

// Loaded reports whether the full representation has been applied.
func (r *Resource) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loaded
}

// Has reports whether field is present without triggering a load.
func (r *Resource) Has(field string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.fields[field]

	return ok
}

// Get resolves a field.
//
// name and title are aliases; whichever is set is returned. A present field
// is returned as is, including explicit nulls. On a miss an unloaded
// resource performs exactly one round trip to its resource URI, merges the
// result and re-checks; a loaded resource returns an absent Value.
func (r *Resource) Get(ctx context.Context, field string) (Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if field == FieldName || field == FieldTitle {
		return r.aliasLocked(field), nil
	}

	if value, ok := r.fields[field]; ok {
		return value, nil
	}

	if r.loaded {
		return Value{}, nil
	}

	err := r.loadLocked(ctx)
	if err != nil {
		return Value{}, err
	}

	return r.fields[field], nil
}

// Load forces the lazy fill if it has not happened yet.
func (r *Resource) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	return r.loadLocked(ctx)
}

func (r *Resource) aliasLocked(field string) Value {
	other := FieldTitle
	if field == FieldTitle {
		other = FieldName
	}

	primary := r.fields[field]
	if primary.Present() && !primary.IsNull() {
		return primary
	}

	return r.fields[other]
}

func (r *Resource) loadLocked(ctx context.Context) error {
	if r.fetcher == nil {
		return ErrNoFetcher
	}

	if r.uri == "" {
		return ErrMissingResourceURI
	}

	r.loaded = true

	envelope, err := r.fetcher.RequestURL(ctx, r.uri, nil)
	if err != nil {
		return fmt.Errorf("loading %s: %w", r.uri, err)
	}

	result := envelope.FirstResult()
	if result == nil {
		return nil
	}

	return r.apply(result)
}

// Name returns the name, falling back to the title.
func (r *Resource) Name(ctx context.Context) (string, error) {
	return r.String(ctx, FieldName)
}

// Title returns the title, falling back to the name.
func (r *Resource) Title(ctx context.Context) (string, error) {
	return r.String(ctx, FieldTitle)
}

// ID returns the numeric id, or zero when it is absent.
func (r *Resource) ID(ctx context.Context) (int64, error) {
	value, err := r.Get(ctx, FieldID)
	if err != nil {
		return 0, err
	}

	id, _ := value.Int()

	return id, nil
}

// String resolves field and returns it as a string, or "" when it is not one.
func (r *Resource) String(ctx context.Context, field string) (string, error) {
	value, err := r.Get(ctx, field)
	if err != nil {
		return "", err
	}

	s, _ := value.String()

	return s, nil
}

// Int resolves field and returns it as an integer, or zero when it is not one.
func (r *Resource) Int(ctx context.Context, field string) (int64, error) {
	value, err := r.Get(ctx, field)
	if err != nil {
		return 0, err
	}

	i, _ := value.Int()

	return i, nil
}

// Collection resolves field and returns it when it is a collection.
func (r *Resource) Collection(ctx context.Context, field string) (*Collection, error) {
	value, err := r.Get(ctx, field)
	if err != nil {
		return nil, err
	}

	return value.Collection(), nil
}

// Entity resolves field and returns it when it is a nested resource.
func (r *Resource) Entity(ctx context.Context, field string) (Entity, error) {
	value, err := r.Get(ctx, field)
	if err != nil {
		return nil, err
	}

	return value.Entity(), nil
}

// Fields returns a snapshot of the currently known fields.
func (r *Resource) Fields() map[string]Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Value, len(r.fields))
	for key, value := range r.fields {
		out[key] = value
	}

	return out
}

// Export converts the known fields into plain data without loading anything.
func (r *Resource) Export() map[string]interface{} {
	fields := r.Fields()

	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		out[key] = value.Interface()
	}

	return out
}

// ResourceType derives the plural kind from the second-to-last path segment
// of the resource URI, e.g. "characters" for .../characters/1009610.
func (r *Resource) ResourceType() (string, error) {
	return resourceTypeOf(r.ResourceURI())
}

// clone copies the field set into a new resource bound to fetcher.
func (r *Resource) clone(fetcher *Fetcher, loaded bool) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fetcher == nil {
		fetcher = r.fetcher
	}

	fields := make(map[string]Value, len(r.fields))
	for key, value := range r.fields {
		fields[key] = value
	}

	return &Resource{
		fetcher: fetcher,
		loaded:  loaded,
		uri:     r.uri,
		fields:  fields,
	}
}

// seedResource builds a resource from raw data or copies an existing entity.
func seedResource(seed interface{}, fetcher *Fetcher, loaded bool) (*Resource, error) {
	switch typed := seed.(type) {
	case map[string]interface{}:
		return NewResource(typed, fetcher, loaded)
	case Entity:
		return typed.Base().clone(fetcher, loaded), nil
	default:
		return nil, fmt.Errorf("%w: unsupported seed %T", ErrMalformedPayload, seed)
	}
}

// CreateFromResource copy-constructs the variant registered for kind from
// seed, which is either raw payload data or an existing Entity. An empty kind
// selects the variant by the seed's resource type.
func CreateFromResource(kind string, seed interface{}, fetcher *Fetcher, loaded bool) (Entity, error) {
	resource, err := seedResource(seed, fetcher, loaded)
	if err != nil {
		return nil, err
	}

	registry := registryFor(resource.fetcher)
	if kind == "" {
		return registry.Upgrade(resource), nil
	}

	return registry.UpgradeAs(resource, kind), nil
}

func resourceTypeOf(uri string) (string, error) {
	if uri == "" {
		return "", ErrMalformedResourceURI
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResourceURI, err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedResourceURI, uri)
	}

	return segments[len(segments)-2], nil
}

func hasName(data map[string]interface{}) bool {
	_, hasName := data[FieldName]
	_, hasTitle := data[FieldTitle]

	return hasName || hasTitle
}

func isResourceData(data map[string]interface{}) bool {
	return hasResourceURI(data) && hasName(data)
}

// hasResourceURI reports whether data carries a non-empty string resourceURI.
func hasResourceURI(data map[string]interface{}) bool {
	uri, ok := data[FieldResourceURI].(string)

	return ok && strings.TrimSpace(uri) != ""
}
