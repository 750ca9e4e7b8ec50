package marvel_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr error
	}{
		{
			name:    "missing resourceURI",
			data:    map[string]interface{}{"name": "Hulk"},
			wantErr: marvel.ErrMissingResourceURI,
		},
		{
			name:    "null resourceURI",
			data:    map[string]interface{}{"resourceURI": nil, "name": "Hulk"},
			wantErr: marvel.ErrMissingResourceURI,
		},
		{
			name:    "empty resourceURI",
			data:    map[string]interface{}{"resourceURI": "  ", "name": "Hulk"},
			wantErr: marvel.ErrMissingResourceURI,
		},
		{
			name:    "numeric resourceURI",
			data:    map[string]interface{}{"resourceURI": 1009610, "name": "Hulk"},
			wantErr: marvel.ErrMissingResourceURI,
		},
		{
			name:    "missing name and title",
			data:    map[string]interface{}{"resourceURI": gateway + "/characters/1"},
			wantErr: marvel.ErrMissingName,
		},
		{
			name: "title only",
			data: map[string]interface{}{"resourceURI": gateway + "/comics/1", "title": "Hulk (2008) #1"},
		},
		{
			name: "null name still counts as present",
			data: map[string]interface{}{"resourceURI": gateway + "/characters/1", "name": nil},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			resource, err := marvel.NewResource(testCase.data, nil, false)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)
				require.ErrorIs(t, err, marvel.ErrMalformedPayload)
				assert.Nil(t, resource)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, resource)
		})
	}
}

func TestResource_NameTitleAlias(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name string
		data map[string]interface{}
		want string
	}{
		{name: "name only", data: map[string]interface{}{"name": "Spider-Man"}, want: "Spider-Man"},
		{name: "title only", data: map[string]interface{}{"title": "Amazing Fantasy #15"}, want: "Amazing Fantasy #15"},
		{name: "null name falls back to title", data: map[string]interface{}{"name": nil, "title": "Cover"}, want: "Cover"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			testCase.data["resourceURI"] = gateway + "/stories/1"

			resource, err := marvel.NewResource(testCase.data, nil, true)
			require.NoError(t, err)

			name, err := resource.Name(ctx)
			require.NoError(t, err)

			title, err := resource.Title(ctx)
			require.NoError(t, err)

			assert.Equal(t, testCase.want, name)
			assert.Equal(t, name, title)
		})
	}
}

func TestResource_ExplicitNullIsPresent(t *testing.T) {
	t.Parallel()

	fetcher, transport := newTestFetcher(t, func(target *url.URL) (interface{}, error) {
		t.Fatalf("unexpected request to %s", target)

		return nil, nil
	})

	resource, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/characters/1",
		"name":        "Blade",
		"description": nil,
	}, fetcher, false)
	require.NoError(t, err)

	value, err := resource.Get(context.Background(), "description")
	require.NoError(t, err)
	assert.True(t, value.IsNull())
	assert.True(t, value.Present())
	assert.Empty(t, transport.Requests())
}

func TestResource_LazyFillHappensOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	fetcher, transport := newTestFetcher(t, func(target *url.URL) (interface{}, error) {
		return page(0, 1, 1, map[string]interface{}{
			"resourceURI": gateway + "/characters/1009610",
			"name":        "Spider-Man",
			"description": "Bitten by a radioactive spider",
			"modified":    "2020-07-21T10:30:10-0400",
		}), nil
	})

	resource, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/characters/1009610",
		"name":        "Spider-Man",
	}, fetcher, false)
	require.NoError(t, err)
	assert.False(t, resource.Has("description"))

	description, err := resource.String(ctx, "description")
	require.NoError(t, err)
	assert.Equal(t, "Bitten by a radioactive spider", description)
	assert.True(t, resource.Loaded())
	assert.True(t, resource.Has("modified"))

	for range 3 {
		value, err := resource.Get(ctx, "doesNotExist")
		require.NoError(t, err)
		assert.True(t, value.IsAbsent())
	}

	require.Len(t, transport.Requests(), 1)
	assert.Equal(t, "/v1/public/characters/1009610", transport.Requests()[0].Path)
	assert.Equal(t, "https", transport.Requests()[0].Scheme)
}

func TestResource_EmptyResponseMarksLoaded(t *testing.T) {
	t.Parallel()

	fetcher, transport := newTestFetcher(t, func(target *url.URL) (interface{}, error) {
		return `{"code":200,"status":"Ok"}`, nil
	})

	resource, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/characters/1",
		"name":        "Nobody",
	}, fetcher, false)
	require.NoError(t, err)

	value, err := resource.Get(context.Background(), "description")
	require.NoError(t, err)
	assert.True(t, value.IsAbsent())
	assert.True(t, resource.Loaded())

	_, err = resource.Get(context.Background(), "comics")
	require.NoError(t, err)
	assert.Len(t, transport.Requests(), 1)
}

func TestResource_FailedFillIsNotRetried(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	fetcher, transport := newTestFetcher(t, func(target *url.URL) (interface{}, error) {
		return nil, &marvel.APIError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"}
	})

	resource, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/characters/1",
		"name":        "Rogue",
	}, fetcher, false)
	require.NoError(t, err)

	_, err = resource.Get(ctx, "description")
	require.Error(t, err)
	assert.True(t, resource.Loaded())

	value, err := resource.Get(ctx, "description")
	require.NoError(t, err)
	assert.True(t, value.IsAbsent())

	require.NoError(t, resource.Load(ctx))
	assert.Len(t, transport.Requests(), 1)
	assert.Equal(t, int64(1), fetcher.RequestCount())
}

func TestResource_NoFetcher(t *testing.T) {
	t.Parallel()

	resource, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/characters/1",
		"name":        "Offline",
	}, nil, false)
	require.NoError(t, err)

	_, err = resource.Get(context.Background(), "description")
	require.ErrorIs(t, err, marvel.ErrNoFetcher)

	name, err := resource.Name(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Offline", name)
}

func TestResource_ResourceType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "character", uri: gateway + "/characters/1009610", want: "characters"},
		{name: "trailing slash", uri: gateway + "/comics/5/", want: "comics"},
		{name: "relative", uri: "stories/7", want: "stories"},
		{name: "single segment", uri: ".", wantErr: true},
		{name: "host only", uri: "https://gateway.marvel.com/", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			resource, err := marvel.NewResource(map[string]interface{}{
				"resourceURI": testCase.uri,
				"name":        "x",
			}, nil, true)
			require.NoError(t, err)

			kind, err := resource.ResourceType()
			if testCase.wantErr {
				require.ErrorIs(t, err, marvel.ErrMalformedResourceURI)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, kind)
		})
	}
}

func TestResource_NestedClassification(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	resource, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/stories/1",
		"title":       "Cover #1",
		"originalIssue": map[string]interface{}{
			"resourceURI": gateway + "/comics/42",
			"name":        "Hulk (2008) #1",
		},
		"creators": map[string]interface{}{
			"available":     0,
			"returned":      0,
			"collectionURI": gateway + "/stories/1/creators",
			"items":         []interface{}{},
		},
		"thumbnail": map[string]interface{}{"path": "http://x.com/a", "extension": "jpg"},
		"pageCount": 32,
	}, nil, true)
	require.NoError(t, err)

	issue, err := resource.Entity(ctx, "originalIssue")
	require.NoError(t, err)
	assert.IsType(t, &marvel.Comic{}, issue)

	creators, err := resource.Collection(ctx, "creators")
	require.NoError(t, err)
	require.NotNil(t, creators)
	assert.True(t, creators.Loaded())

	thumbnail, err := resource.Get(ctx, "thumbnail")
	require.NoError(t, err)
	assert.Equal(t, marvel.KindScalar, thumbnail.Kind())

	pages, err := resource.Int(ctx, "pageCount")
	require.NoError(t, err)
	assert.Equal(t, int64(32), pages)
}

func TestResource_NestedWithoutResourceURIStaysScalar(t *testing.T) {
	t.Parallel()

	resource, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/stories/1",
		"title":       "Cover #1",
		"originalIssue": map[string]interface{}{
			"resourceURI": nil,
			"name":        "Hulk (2008) #1",
		},
	}, nil, true)
	require.NoError(t, err)

	issue, err := resource.Get(context.Background(), "originalIssue")
	require.NoError(t, err)
	assert.Equal(t, marvel.KindScalar, issue.Kind())
}

func TestCreateFromResource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	generic, err := marvel.NewResource(map[string]interface{}{
		"resourceURI": gateway + "/characters/1",
		"name":        "Storm",
	}, nil, true)
	require.NoError(t, err)

	entity, err := marvel.CreateFromResource("", generic, nil, true)
	require.NoError(t, err)
	require.IsType(t, &marvel.Character{}, entity)
	assert.NotSame(t, generic, entity.Base(), "variants copy the field set")

	name, err := entity.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Storm", name)

	forced, err := marvel.CreateFromResource(marvel.KindStories, map[string]interface{}{
		"resourceURI": ".",
		"title":       "Untyped",
	}, nil, false)
	require.NoError(t, err)
	assert.IsType(t, &marvel.Story{}, forced)
	assert.False(t, forced.Loaded())

	_, err = marvel.CreateFromResource("", 42, nil, false)
	require.ErrorIs(t, err, marvel.ErrMalformedPayload)
}

func TestCharacter_URLs(t *testing.T) {
	t.Parallel()

	character, err := marvel.NewCharacter(map[string]interface{}{
		"resourceURI": gateway + "/characters/1",
		"name":        "Wolverine",
		"urls": []interface{}{
			map[string]interface{}{"type": "detail", "url": "http://marvel.com/characters/66/wolverine"},
			map[string]interface{}{"type": "wiki", "url": "http://marvel.com/universe/Wolverine"},
		},
	}, nil, true)
	require.NoError(t, err)

	links, err := character.URLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://marvel.com/universe/Wolverine", links["wiki"])
	assert.Len(t, links, 2)
}

func TestCreator_FullNameFallsBackToName(t *testing.T) {
	t.Parallel()

	creator, err := marvel.NewCreator(map[string]interface{}{
		"resourceURI": gateway + "/creators/30",
		"name":        "Stan Lee",
		"role":        "writer",
	}, nil, true)
	require.NoError(t, err)

	fullName, err := creator.FullName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Stan Lee", fullName)

	role, err := creator.Role(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "writer", role)
}
