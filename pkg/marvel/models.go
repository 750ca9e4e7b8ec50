package marvel

import (
	"context"
	"fmt"
)

// Character is a resource of kind characters.
type Character struct {
	*Resource
}

// NewCharacter builds a Character from raw data or an existing entity.
func NewCharacter(seed interface{}, fetcher *Fetcher, loaded bool) (*Character, error) {
	resource, err := seedResource(seed, fetcher, loaded)
	if err != nil {
		return nil, err
	}

	return &Character{Resource: resource}, nil
}

// Description returns the character biography, or "" when there is none.
func (c *Character) Description(ctx context.Context) (string, error) {
	return c.String(ctx, "description")
}

// Modified returns the last modification timestamp as sent by the gateway.
func (c *Character) Modified(ctx context.Context) (string, error) {
	return c.String(ctx, "modified")
}

// Comics returns the comics collection.
func (c *Character) Comics(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "comics")
}

// Series returns the series collection.
func (c *Character) Series(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "series")
}

// Stories returns the stories collection.
func (c *Character) Stories(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "stories")
}

// Events returns the events collection.
func (c *Character) Events(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "events")
}

// URLs returns the public site links keyed by link type.
func (c *Character) URLs(ctx context.Context) (map[string]string, error) {
	return linksOf(ctx, c.Resource)
}

// Story is a resource of kind stories.
type Story struct {
	*Resource
}

// NewStory builds a Story from raw data or an existing entity.
func NewStory(seed interface{}, fetcher *Fetcher, loaded bool) (*Story, error) {
	resource, err := seedResource(seed, fetcher, loaded)
	if err != nil {
		return nil, err
	}

	return &Story{Resource: resource}, nil
}

// Description returns the story summary.
func (s *Story) Description(ctx context.Context) (string, error) {
	return s.String(ctx, "description")
}

// Type returns the story type, e.g. "cover" or "interiorStory".
func (s *Story) Type(ctx context.Context) (string, error) {
	return s.String(ctx, "type")
}

// Creators returns the creators collection.
func (s *Story) Creators(ctx context.Context) (*Collection, error) {
	return s.Collection(ctx, "creators")
}

// Characters returns the characters collection.
func (s *Story) Characters(ctx context.Context) (*Collection, error) {
	return s.Collection(ctx, "characters")
}

// Series returns the series collection.
func (s *Story) Series(ctx context.Context) (*Collection, error) {
	return s.Collection(ctx, "series")
}

// Comics returns the comics collection.
func (s *Story) Comics(ctx context.Context) (*Collection, error) {
	return s.Collection(ctx, "comics")
}

// Events returns the events collection.
func (s *Story) Events(ctx context.Context) (*Collection, error) {
	return s.Collection(ctx, "events")
}

// OriginalIssue returns the comic the story first appeared in.
func (s *Story) OriginalIssue(ctx context.Context) (Entity, error) {
	return s.Entity(ctx, "originalIssue")
}

// Comic is a resource of kind comics.
type Comic struct {
	*Resource
}

// NewComic builds a Comic from raw data or an existing entity.
func NewComic(seed interface{}, fetcher *Fetcher, loaded bool) (*Comic, error) {
	resource, err := seedResource(seed, fetcher, loaded)
	if err != nil {
		return nil, err
	}

	return &Comic{Resource: resource}, nil
}

// IssueNumber returns the issue number. The gateway sends it as a number
// that is occasionally fractional.
func (c *Comic) IssueNumber(ctx context.Context) (float64, error) {
	value, err := c.Get(ctx, "issueNumber")
	if err != nil {
		return 0, err
	}

	number, _ := value.Float()

	return number, nil
}

// Description returns the solicitation text of the comic.
func (c *Comic) Description(ctx context.Context) (string, error) {
	return c.String(ctx, "description")
}

// PageCount returns the number of story pages, or zero when unknown.
func (c *Comic) PageCount(ctx context.Context) (int64, error) {
	return c.Int(ctx, "pageCount")
}

// Characters returns the characters collection.
func (c *Comic) Characters(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "characters")
}

// Creators returns the creators collection.
func (c *Comic) Creators(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "creators")
}

// Stories returns the stories collection.
func (c *Comic) Stories(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "stories")
}

// Events returns the events collection.
func (c *Comic) Events(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "events")
}

// Series returns the series summary, which the gateway inlines as a single
// resource rather than a collection.
func (c *Comic) Series(ctx context.Context) (Entity, error) {
	return c.Entity(ctx, "series")
}

// Creator is a resource of kind creators.
type Creator struct {
	*Resource
}

// NewCreator builds a Creator from raw data or an existing entity.
func NewCreator(seed interface{}, fetcher *Fetcher, loaded bool) (*Creator, error) {
	resource, err := seedResource(seed, fetcher, loaded)
	if err != nil {
		return nil, err
	}

	return &Creator{Resource: resource}, nil
}

// FullName returns the full name, falling back to the summary name.
func (c *Creator) FullName(ctx context.Context) (string, error) {
	fullName, err := c.String(ctx, "fullName")
	if err != nil || fullName != "" {
		return fullName, err
	}

	return c.Name(ctx)
}

// Role returns the role attached to creator summaries inside collections.
func (c *Creator) Role(ctx context.Context) (string, error) {
	return c.String(ctx, "role")
}

// Comics returns the comics collection.
func (c *Creator) Comics(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "comics")
}

// Stories returns the stories collection.
func (c *Creator) Stories(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "stories")
}

// Events returns the events collection.
func (c *Creator) Events(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "events")
}

// Series returns the series collection.
func (c *Creator) Series(ctx context.Context) (*Collection, error) {
	return c.Collection(ctx, "series")
}

func linksOf(ctx context.Context, resource *Resource) (map[string]string, error) {
	value, err := resource.Get(ctx, "urls")
	if err != nil {
		return nil, err
	}

	list, ok := value.List()
	if !ok {
		return map[string]string{}, nil
	}

	links := make(map[string]string, len(list))
	for i, raw := range list {
		entry, isMap := raw.(map[string]interface{})
		if !isMap {
			return nil, fmt.Errorf("%w: urls[%d] is not an object", ErrMalformedPayload, i)
		}

		kind, _ := entry["type"].(string)
		link, _ := entry["url"].(string)
		links[kind] = link
	}

	return links, nil
}
