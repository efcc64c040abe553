package resource

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ps []pet) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestLoad_DropsRowsWithoutUniqueID(t *testing.T) {
	c, _, _ := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, []string{"Whiskers", "Rex", "Mittens"}, names(c.Visible()))
	assert.Equal(t, 3, c.Total())
}

func TestLoad_FailureEmptiesListAndNotifiesOnce(t *testing.T) {
	c, s, r := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	s.failAll = errBoom

	require.ErrorIs(t, c.Load(context.Background()), errBoom)
	assert.Empty(t, c.Visible())
	assert.Equal(t, 1, r.count(LevelError))
	assert.Equal(t, "boom", r.last().Text)
}

func TestSearch_CaseInsensitiveOverSearchableFields(t *testing.T) {
	c, _, _ := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))

	c.SetQuery("MIT")
	assert.Equal(t, []string{"Mittens"}, names(c.Visible()))

	// owner is searchable even though it is not a column
	c.SetQuery("amut")
	assert.Equal(t, []string{"Rex"}, names(c.Visible()))

	// kind is a column but not searchable
	c.SetQuery("dog")
	assert.Empty(t, c.Visible())

	c.SetQuery("")
	assert.Len(t, c.Visible(), 3)
}

func TestSearch_WhitespaceIsPartOfTheQuery(t *testing.T) {
	c, _, _ := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))

	c.SetQuery(" MIT")
	assert.Empty(t, c.Visible())
	assert.Equal(t, " MIT", c.Query())

	c.SetQuery("mittens ")
	assert.Empty(t, c.Visible())

	c.SetQuery(" ")
	assert.Empty(t, c.Visible())
}

func TestSearch_Property(t *testing.T) {
	c, _, _ := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	for _, q := range []string{"", "i", "e", "RE", "x", "shi", "zzz"} {
		c.SetQuery(q)
		var want []string
		for _, p := range c.Items() {
			if q == "" ||
				strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) ||
				strings.Contains(strings.ToLower(p.Owner), strings.ToLower(q)) {
				want = append(want, p.Name)
			}
		}
		assert.Equal(t, fmt.Sprint(want), fmt.Sprint(names(c.Visible())), "query %q", q)
	}
}

func TestFilter_AllIsNoFilter(t *testing.T) {
	c, _, _ := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.SetFilter("kind", "cat"))
	assert.Equal(t, []string{"Whiskers", "Mittens"}, names(c.Visible()))

	c.SetQuery("whis")
	assert.Equal(t, []string{"Whiskers"}, names(c.Visible()), "query and filter combine")

	c.SetQuery("")
	require.NoError(t, c.SetFilter("kind", FilterAll))
	assert.Len(t, c.Visible(), 3)

	require.ErrorIs(t, c.SetFilter("kind", "bird"), ErrValidation)
	require.ErrorIs(t, c.SetFilter("colour", "red"), ErrValidation)
}

func TestPagination(t *testing.T) {
	s := &petStore{}
	for i := 1; i <= 60; i++ {
		s.pets = append(s.pets, pet{ID: fmt.Sprint(i), Name: fmt.Sprintf("p%02d", i), Kind: "cat"})
	}
	c := New(petConfig(s, nil), nil, zerolog.Nop())
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 3, c.PageCount())
	assert.Len(t, c.Page(0), 25)
	assert.Len(t, c.Page(2), 10)
	assert.Equal(t, "p51", c.Page(99)[0].Name, "page index is clamped")

	require.NoError(t, c.SetPageSize(50))
	assert.Equal(t, 2, c.PageCount())
	require.ErrorIs(t, c.SetPageSize(30), ErrValidation)

	c.SetQuery("nothing matches")
	assert.Equal(t, 1, c.PageCount())
	assert.Empty(t, c.Page(0))
}

func TestSubmit_RequiredFieldBlocksRequest(t *testing.T) {
	c, s, r := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	lists := s.lists

	f := c.NewForm()
	f.Set("name", "   ")
	f.Set("kind", "cat")
	closed, err := c.Submit(context.Background(), f)

	require.ErrorIs(t, err, ErrValidation)
	assert.False(t, closed)
	assert.Equal(t, 0, s.writes)
	assert.Equal(t, lists, s.lists)
	assert.Equal(t, 1, r.count(LevelError))
	assert.Contains(t, r.last().Text, "Name")
}

func TestSubmit_InvalidChoice(t *testing.T) {
	c, s, _ := newPets(t, nil)
	f := c.NewForm()
	f.Set("name", "Tweety")
	f.Set("kind", "bird")
	_, err := c.Submit(context.Background(), f)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, s.writes)
}

func TestSubmit_SuccessRefetchesOnceAndNotifiesOnce(t *testing.T) {
	c, s, r := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	lists := s.lists

	f := c.NewForm()
	f.Set("name", "Tweety")
	f.Set("kind", "cat")
	closed, err := c.Submit(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, lists+1, s.lists)
	assert.Equal(t, 1, r.count(LevelSuccess))
	assert.Equal(t, 0, r.count(LevelError))
	assert.Equal(t, "saved", r.last().Text)

	edit, err := c.EditForm("1")
	require.NoError(t, err)
	assert.Equal(t, "Whiskers", edit.Values["name"])
	closed, err = c.Submit(context.Background(), edit)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, lists+2, s.lists)
}

func TestSubmit_FailureKeepsDialogOpen(t *testing.T) {
	c, s, r := newPets(t, errBoom)
	require.NoError(t, c.Load(context.Background()))
	lists := s.lists

	f := c.NewForm()
	f.Set("name", "Tweety")
	f.Set("kind", "cat")
	closed, err := c.Submit(context.Background(), f)
	require.ErrorIs(t, err, errBoom)
	assert.False(t, closed)
	assert.Equal(t, lists, s.lists)
	assert.Equal(t, 1, r.count(LevelError))
	assert.Equal(t, 0, r.count(LevelSuccess))
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	c, s, r := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	lists := s.lists

	require.ErrorIs(t, c.Delete(context.Background(), "1", false), ErrNotConfirmed)
	assert.Equal(t, 0, s.writes)
	assert.Empty(t, r.notices)

	require.NoError(t, c.Delete(context.Background(), "1", true))
	assert.Equal(t, 1, s.writes)
	assert.Equal(t, lists+1, s.lists)
	assert.Equal(t, 1, r.count(LevelSuccess))
}

func TestCanceledContextIsSilent(t *testing.T) {
	c, _, r := newPets(t, context.Canceled)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, c.Delete(ctx, "1", true))
	assert.Empty(t, r.notices)
}

func TestUnsupportedOperations(t *testing.T) {
	s := &petStore{}
	cfg := petConfig(s, nil)
	cfg.Create, cfg.Update, cfg.Delete = nil, nil, nil
	c := New(cfg, nil, zerolog.Nop())

	assert.False(t, c.CanCreate())
	f := c.NewForm()
	f.Set("name", "x")
	f.Set("kind", "cat")
	_, err := c.Submit(context.Background(), f)
	require.ErrorIs(t, err, ErrNotSupported)
	require.ErrorIs(t, c.Delete(context.Background(), "1", true), ErrNotSupported)
	_, err = c.EditForm("1")
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestDo_RowAction(t *testing.T) {
	c, s, r := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))

	assert.Len(t, c.ActionsFor("1"), 1)
	assert.Empty(t, c.ActionsFor("2"))

	require.ErrorIs(t, c.Do(context.Background(), "feed", "2", ""), ErrValidation)
	assert.Equal(t, 0, s.writes)

	require.NoError(t, c.Do(context.Background(), "feed", "1", ""))
	assert.Equal(t, 1, s.writes)
	assert.Equal(t, "saved", r.last().Text)

	require.ErrorIs(t, c.Do(context.Background(), "feed-all", "1", ""), ErrNotSupported)
	require.ErrorIs(t, c.Do(context.Background(), "feed", "404", ""), ErrNotFound)
}

func TestDoAll_BulkAction(t *testing.T) {
	c, s, r := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	lists := s.lists

	require.ErrorIs(t, c.DoAll(context.Background(), "feed-all", false), ErrNotConfirmed)
	assert.Equal(t, 0, s.writes)

	require.NoError(t, c.DoAll(context.Background(), "feed-all", true))
	assert.Equal(t, 3, s.writes)
	assert.Equal(t, lists+1, s.lists)
	assert.Equal(t, 1, r.count(LevelSuccess))
	assert.Equal(t, "all fed", r.last().Text)
}

func TestDoAll_FailureNotifiesOnceWithoutRefetch(t *testing.T) {
	c, s, r := newPets(t, errBoom)
	require.NoError(t, c.Load(context.Background()))
	lists := s.lists

	require.Error(t, c.DoAll(context.Background(), "feed-all", true))
	assert.Equal(t, lists, s.lists)
	assert.Equal(t, 1, r.count(LevelError))
}

func TestExportRowsAndDetail(t *testing.T) {
	c, _, _ := newPets(t, nil)
	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.SetFilter("kind", "dog"))

	assert.Equal(t, []string{"Name", "Kind"}, c.Headers())
	assert.Equal(t, [][]string{{"Rex", "dog"}}, c.ExportRows())
	assert.Equal(t, [][2]string{{"Name", "Rex"}, {"Kind", "dog"}}, c.Detail("2"))
}
