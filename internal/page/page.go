// Package page assembles the data shown on a generated comic page.
package page

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
)

// DefaultTitle is the page title used when none is configured.
const DefaultTitle = "An Automatically Generated Marvel Comic Page"

// Image variants used by the page layout.
const (
	characterThumbnailVariant = "portrait_incredible"
	mobileThumbnailVariant    = "portrait_medium"
	desktopThumbnailVariant   = "portrait_incredible"
)

// Static errors for err113 compliance.
var (
	ErrInvalidComicID  = errors.New("comic id must be a positive integer")
	ErrComicNotFound   = errors.New("could not retrieve comic")
	ErrMissingComicID  = errors.New("could not retrieve comic id from comic")
	ErrComicIDMismatch = errors.New("returned comic id does not match the requested id")
)

// Source is the subset of the fetcher the builder needs.
type Source interface {
	GetComic(ctx context.Context, id int) (*marvel.Comic, error)
	GetAttributionText(ctx context.Context, useHTML bool) (string, error)
}

// Data is everything a comic page displays.
type Data struct {
	PageTitle           string `json:"pageTitle"                     yaml:"pageTitle"`
	AttributionText     string `json:"attributionText"               yaml:"attributionText"`
	FavoriteCharacterID int    `json:"favoriteCharacterId,omitempty" yaml:"favoriteCharacterId,omitempty"`
	Comic               Comic  `json:"comic"                         yaml:"comic"`
}

// Comic is the comic section of the page.
type Comic struct {
	ID               int64           `json:"id"               yaml:"id"`
	Title            string          `json:"title"            yaml:"title"`
	MobileThumbnail  string          `json:"mobileThumbnail"  yaml:"mobileThumbnail"`
	DesktopThumbnail string          `json:"desktopThumbnail" yaml:"desktopThumbnail"`
	Description      string          `json:"description"      yaml:"description"`
	Characters       []CharacterCard `json:"characters"       yaml:"characters"`
	Creators         []CreatorCard   `json:"creators"         yaml:"creators"`
}

// CharacterCard is one character shown on the page.
type CharacterCard struct {
	ID          int64  `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Thumbnail   string `json:"thumbnail"   yaml:"thumbnail"`
	Favorite    bool   `json:"favorite"    yaml:"favorite"`
}

// CreatorCard is one creator credit shown on the page.
type CreatorCard struct {
	Name        string `json:"name"        yaml:"name"`
	Role        string `json:"role"        yaml:"role"`
	ResourceURI string `json:"resourceURI" yaml:"resourceURI"`
}

// Builder assembles page data from a Source.
type Builder struct {
	source Source
	logger marvel.Logger
	title  string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger marvel.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTitle overrides the page title.
func WithTitle(title string) Option {
	return func(b *Builder) {
		if title != "" {
			b.title = title
		}
	}
}

// NewBuilder creates a builder reading from source.
func NewBuilder(source Source, opts ...Option) *Builder {
	builder := &Builder{
		source: source,
		logger: marvel.NoopLogger{},
		title:  DefaultTitle,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder
}

// Build fetches comicID and assembles its page. favoriteCharacterID marks
// one character card; zero marks none.
func (b *Builder) Build(ctx context.Context, comicID, favoriteCharacterID int) (*Data, error) {
	if comicID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidComicID, comicID)
	}

	comic, err := b.source.GetComic(ctx, comicID)
	if err != nil {
		return nil, fmt.Errorf("fetching comic %d: %w", comicID, err)
	}

	if comic == nil {
		return nil, fmt.Errorf("%w: %d", ErrComicNotFound, comicID)
	}

	id, err := comic.ID(ctx)
	if err != nil {
		return nil, err
	}

	if id == 0 {
		return nil, ErrMissingComicID
	}

	if id != int64(comicID) {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrComicIDMismatch, id, comicID)
	}

	section, err := b.comicSection(ctx, comic, id, favoriteCharacterID)
	if err != nil {
		return nil, err
	}

	attribution, err := b.source.GetAttributionText(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("fetching attribution: %w", err)
	}

	b.logger.Info("Comic page assembled", map[string]interface{}{
		"comic_id":   id,
		"characters": len(section.Characters),
		"creators":   len(section.Creators),
	})

	return &Data{
		PageTitle:           b.title,
		AttributionText:     attribution,
		FavoriteCharacterID: favoriteCharacterID,
		Comic:               *section,
	}, nil
}

func (b *Builder) comicSection(ctx context.Context, comic *marvel.Comic, id int64, favoriteCharacterID int) (*Comic, error) {
	section := &Comic{ID: id}

	var err error

	section.Title, err = comic.Title(ctx)
	if err != nil {
		return nil, err
	}

	section.Description, err = comic.Description(ctx)
	if err != nil {
		return nil, err
	}

	section.MobileThumbnail, err = comic.ThumbnailURL(ctx, mobileThumbnailVariant)
	if err != nil {
		return nil, err
	}

	section.DesktopThumbnail, err = comic.ThumbnailURL(ctx, desktopThumbnailVariant)
	if err != nil {
		return nil, err
	}

	section.Characters, err = characterCards(ctx, comic, favoriteCharacterID)
	if err != nil {
		return nil, err
	}

	section.Creators, err = creatorCards(ctx, comic)
	if err != nil {
		return nil, err
	}

	return section, nil
}

func characterCards(ctx context.Context, comic *marvel.Comic, favoriteCharacterID int) ([]CharacterCard, error) {
	collection, err := comic.Characters(ctx)
	if err != nil || collection == nil {
		return []CharacterCard{}, err
	}

	characters, err := collection.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}

	cards := make([]CharacterCard, 0, len(characters))
	for _, entity := range characters {
		character := entity.Base()

		card := CharacterCard{}

		card.ID, err = character.ID(ctx)
		if err != nil {
			return nil, err
		}

		card.Name, err = character.Name(ctx)
		if err != nil {
			return nil, err
		}

		card.Description, err = character.String(ctx, "description")
		if err != nil {
			return nil, err
		}

		card.Thumbnail, err = character.ThumbnailURL(ctx, characterThumbnailVariant)
		if err != nil {
			return nil, err
		}

		card.Favorite = favoriteCharacterID != 0 && card.ID == int64(favoriteCharacterID)
		cards = append(cards, card)
	}

	return cards, nil
}

func creatorCards(ctx context.Context, comic *marvel.Comic) ([]CreatorCard, error) {
	collection, err := comic.Creators(ctx)
	if err != nil || collection == nil {
		return []CreatorCard{}, err
	}

	creators, err := collection.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing creators: %w", err)
	}

	cards := make([]CreatorCard, 0, len(creators))
	for _, entity := range creators {
		creator := entity.Base()

		name, err := creator.Name(ctx)
		if err != nil {
			return nil, err
		}

		card := CreatorCard{Name: name, ResourceURI: creator.ResourceURI()}
		if role, ok := creator.Fields()["role"].String(); ok {
			card.Role = role
		}

		cards = append(cards, card)
	}

	return cards, nil
}
