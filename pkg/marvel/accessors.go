package marvel

import "context"

// GetCharacter fetches one character, or nil when it does not exist.
func (f *Fetcher) GetCharacter(ctx context.Context, id int) (*Character, error) {
	entity, err := f.GetResource(ctx, KindCharacters, id)
	if err != nil || entity == nil {
		return nil, err
	}

	return asVariant(entity, newCharacterVariant), nil
}

// GetCharacters fetches every character.
func (f *Fetcher) GetCharacters(ctx context.Context) ([]*Character, error) {
	entities, err := f.GetResourcesUnpaginated(ctx, KindCharacters)
	if err != nil {
		return nil, err
	}

	characters := make([]*Character, 0, len(entities))
	for _, entity := range entities {
		characters = append(characters, asVariant(entity, newCharacterVariant))
	}

	return characters, nil
}

// GetStory fetches one story, or nil when it does not exist.
func (f *Fetcher) GetStory(ctx context.Context, id int) (*Story, error) {
	entity, err := f.GetResource(ctx, KindStories, id)
	if err != nil || entity == nil {
		return nil, err
	}

	return asVariant(entity, newStoryVariant), nil
}

// GetStories fetches every story.
func (f *Fetcher) GetStories(ctx context.Context) ([]*Story, error) {
	entities, err := f.GetResourcesUnpaginated(ctx, KindStories)
	if err != nil {
		return nil, err
	}

	stories := make([]*Story, 0, len(entities))
	for _, entity := range entities {
		stories = append(stories, asVariant(entity, newStoryVariant))
	}

	return stories, nil
}

// GetComic fetches one comic, or nil when it does not exist.
func (f *Fetcher) GetComic(ctx context.Context, id int) (*Comic, error) {
	entity, err := f.GetResource(ctx, KindComics, id)
	if err != nil || entity == nil {
		return nil, err
	}

	return asVariant(entity, newComicVariant), nil
}

// GetComics fetches every comic.
func (f *Fetcher) GetComics(ctx context.Context) ([]*Comic, error) {
	entities, err := f.GetResourcesUnpaginated(ctx, KindComics)
	if err != nil {
		return nil, err
	}

	comics := make([]*Comic, 0, len(entities))
	for _, entity := range entities {
		comics = append(comics, asVariant(entity, newComicVariant))
	}

	return comics, nil
}

// GetCreator fetches one creator, or nil when it does not exist.
func (f *Fetcher) GetCreator(ctx context.Context, id int) (*Creator, error) {
	entity, err := f.GetResource(ctx, KindCreators, id)
	if err != nil || entity == nil {
		return nil, err
	}

	return asVariant(entity, newCreatorVariant), nil
}

// GetCreators fetches every creator.
func (f *Fetcher) GetCreators(ctx context.Context) ([]*Creator, error) {
	entities, err := f.GetResourcesUnpaginated(ctx, KindCreators)
	if err != nil {
		return nil, err
	}

	creators := make([]*Creator, 0, len(entities))
	for _, entity := range entities {
		creators = append(creators, asVariant(entity, newCreatorVariant))
	}

	return creators, nil
}

// GetEvent fetches one event, or nil when it does not exist.
func (f *Fetcher) GetEvent(ctx context.Context, id int) (*Resource, error) {
	return f.getBase(ctx, KindEvents, id)
}

// GetEvents fetches every event.
func (f *Fetcher) GetEvents(ctx context.Context) ([]*Resource, error) {
	return f.getAllBase(ctx, KindEvents)
}

// GetSeries fetches one series, or nil when it does not exist.
func (f *Fetcher) GetSeries(ctx context.Context, id int) (*Resource, error) {
	return f.getBase(ctx, KindSeries, id)
}

// GetSeriesList fetches every series.
func (f *Fetcher) GetSeriesList(ctx context.Context) ([]*Resource, error) {
	return f.getAllBase(ctx, KindSeries)
}

func (f *Fetcher) getBase(ctx context.Context, kind string, id int) (*Resource, error) {
	entity, err := f.GetResource(ctx, kind, id)
	if err != nil || entity == nil {
		return nil, err
	}

	return entity.Base(), nil
}

func (f *Fetcher) getAllBase(ctx context.Context, kind string) ([]*Resource, error) {
	entities, err := f.GetResourcesUnpaginated(ctx, kind)
	if err != nil {
		return nil, err
	}

	resources := make([]*Resource, 0, len(entities))
	for _, entity := range entities {
		resources = append(resources, entity.Base())
	}

	return resources, nil
}

// asVariant returns entity as V, wrapping its base resource when the registry
// produced a different variant.
func asVariant[V Entity](entity Entity, wrap func(*Resource) V) V {
	if variant, ok := entity.(V); ok {
		return variant
	}

	return wrap(entity.Base())
}

func newCharacterVariant(resource *Resource) *Character { return &Character{Resource: resource} }

func newStoryVariant(resource *Resource) *Story { return &Story{Resource: resource} }

func newComicVariant(resource *Resource) *Comic { return &Comic{Resource: resource} }

func newCreatorVariant(resource *Resource) *Creator { return &Creator{Resource: resource} }
