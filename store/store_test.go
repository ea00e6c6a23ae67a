package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-form/model"
	"github.com/mbolis/quick-form/storage"
)

var errQuota = errors.New("quota exceeded")

// quotaBlobs fails every Put once full is set.
type quotaBlobs struct {
	storage.Blobs
	full bool
}

func (q *quotaBlobs) Put(ctx context.Context, key string, value []byte) error {
	if q.full {
		return errQuota
	}
	return q.Blobs.Put(ctx, key, value)
}

func sampleDoc(id string) model.Document {
	return model.Document{
		ID:      id,
		Title:   "Form " + id,
		Created: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Elements: []model.Element{
			{ID: id + "-1", Type: model.TypeText, Title: "Name", Required: true, Props: &model.TextProps{Placeholder: "Enter your name"}},
			{ID: id + "-2", Type: model.TypeDropdown, Title: "Size", Props: &model.ChoiceProps{Options: []string{"S", "M"}}},
		},
	}
}

func TestUpsertInsertsThenReplaces(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, storage.NewMemory())
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, sampleDoc("a")))
	require.NoError(t, s.Upsert(ctx, sampleDoc("b")))

	changed := sampleDoc("a")
	changed.Title = "Renamed"
	require.NoError(t, s.Upsert(ctx, changed))

	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Renamed", docs[0].Title)
	assert.Equal(t, "b", docs[1].ID)
}

func TestReopenRestoresCollections(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemory()

	s, err := Open(ctx, blobs)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, sampleDoc("a")))
	require.NoError(t, s.AppendResponse(ctx, model.Response{FormID: "a", Timestamp: time.Now().UTC(), Duration: 12}))
	require.NoError(t, s.UpdateSetting(ctx, "theme", "dark"))

	reopened, err := Open(ctx, blobs)
	require.NoError(t, err)

	doc, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sampleDoc("a"), doc)

	responses, err := reopened.Responses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, responses, 1)

	settings := reopened.Settings(ctx)
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, "#6a11cb", settings["primaryColor"])
}

func TestStoredCopiesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, storage.NewMemory())
	require.NoError(t, err)

	doc := sampleDoc("a")
	require.NoError(t, s.Upsert(ctx, doc))

	// mutate the caller's value after the upsert
	p, _ := doc.Elements[1].Choice()
	p.Options[0] = "XL"
	doc.Elements[0].Title = "changed"

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Name", got.Elements[0].Title)
	gp, _ := got.Elements[1].Choice()
	assert.Equal(t, []string{"S", "M"}, gp.Options)

	// and mutate what Get returned
	gp.Options[1] = "L"
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	ap, _ := again.Elements[1].Choice()
	assert.Equal(t, []string{"S", "M"}, ap.Options)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, storage.NewMemory())
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, sampleDoc("a")))

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrFormNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrFormNotFound)
}

func TestWriteFailureIsReportedAndStateKept(t *testing.T) {
	ctx := context.Background()
	blobs := &quotaBlobs{Blobs: storage.NewMemory()}
	s, err := Open(ctx, blobs)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, sampleDoc("a")))

	blobs.full = true
	assert.ErrorIs(t, s.Upsert(ctx, sampleDoc("b")), errQuota)
	assert.ErrorIs(t, s.Delete(ctx, "a"), errQuota)
	assert.ErrorIs(t, s.AppendResponse(ctx, model.Response{Timestamp: time.Now()}), errQuota)
	assert.ErrorIs(t, s.UpdateSetting(ctx, "theme", "dark"), errQuota)

	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "light", s.Settings(ctx)["theme"])
}

func TestResponsesFilterAndClear(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, storage.NewMemory())
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, s.AppendResponse(ctx, model.Response{FormID: "a", Timestamp: now}))
	require.NoError(t, s.AppendResponse(ctx, model.Response{FormID: "b", Timestamp: now}))
	require.NoError(t, s.AppendResponse(ctx, model.Response{FormID: "a", Timestamp: now, Answers: map[string]model.Answer{"Name": {"Ada"}}}))

	onlyA, err := s.Responses(ctx, "a")
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, model.Answer{"Ada"}, onlyA[1].Answers["Name"])

	require.NoError(t, s.ClearResponses(ctx))
	all, err := s.Responses(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpenCorruptBlob(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemory()
	require.NoError(t, blobs.Put(ctx, formsKey, []byte(`{not json`)))

	_, err := Open(ctx, blobs)
	assert.Error(t, err)
}

func TestAppendLimited(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, storage.NewMemory())
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, s.AppendLimited(ctx, model.Response{FormID: "a", Timestamp: now}, 2))
	require.NoError(t, s.AppendLimited(ctx, model.Response{FormID: "b", Timestamp: now}, 1))
	require.NoError(t, s.AppendLimited(ctx, model.Response{FormID: "a", Timestamp: now}, 2))

	err = s.AppendLimited(ctx, model.Response{FormID: "a", Timestamp: now}, 2)
	assert.ErrorIs(t, err, ErrResponseLimit)
	require.NoError(t, s.AppendLimited(ctx, model.Response{FormID: "a", Timestamp: now}, 0))

	onlyA, err := s.Responses(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, onlyA, 3)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemory()
	s, err := Open(ctx, blobs)
	require.NoError(t, err)

	require.NoError(t, s.UpdateSettings(ctx, map[string]any{"theme": "dark", "enable3D": false}))
	require.NoError(t, s.UpdateSetting(ctx, "primaryColor", "#000000"))

	reopened, err := Open(ctx, blobs)
	require.NoError(t, err)
	settings := reopened.Settings(ctx)
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, false, settings["enable3D"])
	assert.Equal(t, "#000000", settings["primaryColor"])
	assert.Equal(t, "#2575fc", settings["secondaryColor"])
}
