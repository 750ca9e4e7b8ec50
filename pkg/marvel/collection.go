package marvel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Collection payload keys.
const (
	collectionKeyAvailable = "available"
	collectionKeyReturned  = "returned"
	collectionKeyURI       = "collectionURI"
	collectionKeyItems     = "items"
)

// Collection is a read-only, indexable view over a possibly partial list of
// resources.
//
// Gateway payloads inline only the first few items of a collection together
// with the declared total. Indexing past the inlined items triggers one full
// pagination of the collection URI, after which every item is materialized.
type Collection struct {
	mu        sync.Mutex
	fetcher   *Fetcher
	available int
	total     int
	uri       string
	loaded    bool
	items     []Entity
}

// NewCollection validates data and wraps it.
func NewCollection(data map[string]interface{}, fetcher *Fetcher) (*Collection, error) {
	for _, key := range []string{collectionKeyAvailable, collectionKeyReturned, collectionKeyURI} {
		if _, ok := data[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingCollectionKey, key)
		}
	}

	returned, ok := toInt64(normalize(data[collectionKeyReturned]))
	if !ok || returned < 0 {
		return nil, fmt.Errorf("%w: returned is not a non-negative integer", ErrMalformedPayload)
	}

	total, ok := toInt64(normalize(data[collectionKeyAvailable]))
	if !ok || total < returned {
		return nil, fmt.Errorf("%w: available must be an integer of at least %d", ErrMalformedPayload, returned)
	}

	uri, ok := data[collectionKeyURI].(string)
	if !ok {
		return nil, fmt.Errorf("%w: collectionURI is not a string", ErrMalformedPayload)
	}

	collection := &Collection{
		fetcher:   fetcher,
		available: int(returned),
		total:     int(total),
		uri:       uri,
		loaded:    returned == total,
	}

	var rawItems []interface{}
	if raw, exists := data[collectionKeyItems]; exists && raw != nil {
		rawItems, ok = raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: items is not a list", ErrMalformedPayload)
		}
	}

	items := make([]Entity, 0, len(rawItems))
	for i, raw := range rawItems {
		itemData, isMap := raw.(map[string]interface{})
		if !isMap {
			return nil, fmt.Errorf("%w: item %d is not an object", ErrMalformedPayload, i)
		}

		resource, err := NewResource(itemData, fetcher, false)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		items = append(items, collection.upgrade(resource))
	}

	collection.items = items

	return collection, nil
}

// upgrade wraps an item in the variant for its own resource type, falling
// back to the collection type when the item URI is malformed.
func (c *Collection) upgrade(resource *Resource) Entity {
	kind, err := resource.ResourceType()
	if err != nil {
		kind = collectionTypeOf(c.uri)
	}

	return registryFor(c.fetcher).UpgradeAs(resource, kind)
}

// At returns the item at index i.
//
// Indices outside [0, Count()) yield nil without any request. Indices past
// the materialized items trigger a single full fetch of the collection when
// it is not yet loaded and a fetcher is available.
func (c *Collection) At(ctx context.Context, i int) (Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= c.total {
		return nil, nil
	}

	if i < len(c.items) {
		return c.items[i], nil
	}

	if c.loaded || c.fetcher == nil {
		return nil, nil
	}

	err := c.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	if i < len(c.items) {
		return c.items[i], nil
	}

	return nil, nil
}

// All forces a full load and returns every item.
func (c *Collection) All(ctx context.Context) ([]Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded && c.fetcher != nil {
		err := c.loadLocked(ctx)
		if err != nil {
			return nil, err
		}
	}

	out := make([]Entity, len(c.items))
	copy(out, c.items)

	return out, nil
}

func (c *Collection) loadLocked(ctx context.Context) error {
	resources, err := c.fetcher.RetrieveAllResources(ctx, c.uri, nil)
	if err != nil {
		return fmt.Errorf("expanding collection %s: %w", c.uri, err)
	}

	items := make([]Entity, 0, len(resources))
	for _, resource := range resources {
		items = append(items, c.upgrade(resource))
	}

	c.items = items
	c.available = len(items)
	c.loaded = true

	return nil
}

// Set always fails: collections are read-only.
func (c *Collection) Set(int, Entity) error {
	return ErrReadOnlyCollection
}

// Delete always fails: collections are read-only.
func (c *Collection) Delete(int) error {
	return ErrReadOnlyCollection
}

// Count returns the declared total, not the number of materialized items.
func (c *Collection) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.total
}

// Available returns the number of materialized items.
func (c *Collection) Available() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.available
}

// Loaded reports whether every item is materialized.
func (c *Collection) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loaded
}

// URI returns the collection URI.
func (c *Collection) URI() string {
	return c.uri
}

// Type returns the last path segment of the collection URI, e.g. "events".
func (c *Collection) Type() string {
	return collectionTypeOf(c.uri)
}

// Items returns a snapshot of the materialized items without loading.
func (c *Collection) Items() []Entity {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entity, len(c.items))
	copy(out, c.items)

	return out
}

// Export converts the collection back into its payload shape.
func (c *Collection) Export() map[string]interface{} {
	c.mu.Lock()
	total, available, items := c.total, c.available, c.items
	c.mu.Unlock()

	exported := make([]interface{}, 0, len(items))
	for _, item := range items {
		exported = append(exported, item.Base().Export())
	}

	return map[string]interface{}{
		collectionKeyAvailable: total,
		collectionKeyReturned:  available,
		collectionKeyURI:       c.uri,
		collectionKeyItems:     exported,
	}
}

func collectionTypeOf(uri string) string {
	path := uri
	if parsed, err := url.Parse(uri); err == nil {
		path = parsed.Path
	}

	path = strings.TrimRight(path, "/")

	return path[strings.LastIndex(path, "/")+1:]
}

func isCollectionData(data map[string]interface{}) bool {
	for _, key := range []string{collectionKeyAvailable, collectionKeyReturned, collectionKeyURI} {
		if _, ok := data[key]; !ok {
			return false
		}
	}

	return true
}
