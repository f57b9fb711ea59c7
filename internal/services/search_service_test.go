package services

import (
	"strings"
	"testing"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMatchesTitleOrContentCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db)
	author := createUser(t, db, "alice", models.RoleUser)
	f := newFixture(t, db, "Manuals")
	byTitle := f.addDoc(t, db, author, "Kubernetes Setup", "steps", true)
	byContent := f.addDoc(t, db, author, "Notes", "deploy with KUBERNETES", true)
	f.addDoc(t, db, author, "Other", "nothing here", true)

	results, err := svc.Search("kubernetes", false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, byTitle.ID, results[0].ID)
	assert.Equal(t, byContent.ID, results[1].ID)
	assert.Equal(t, "Manuals", results[0].CategoryName)
	assert.Equal(t, "Sub", results[0].SubCategoryName)
	assert.True(t, results[0].IsPublic)
}

func TestSearchHidesPrivateDocumentsFromAnonymous(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db)
	author := createUser(t, db, "alice", models.RoleUser)
	f := newFixture(t, db, "Cat")
	f.addDoc(t, db, author, "secret plan", "", false)

	results, err := svc.Search("plan", false)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search("plan", true)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db)

	_, err := svc.Search("   ", true)
	assert.True(t, errs.Is(err, errs.KindBadRequest))
}

func TestSnippet(t *testing.T) {
	exact := strings.Repeat("a", 200)
	assert.Equal(t, exact, Snippet(exact))

	long := strings.Repeat("文", 250)
	got := Snippet(long)
	assert.Equal(t, strings.Repeat("文", 200)+"...", got)

	assert.Equal(t, "", Snippet(""))
}

func TestSearchMatchesQueryWithoutTrimming(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db)
	author := createUser(t, db, "alice", models.RoleUser)
	f := newFixture(t, db, "Cat")
	f.addDoc(t, db, author, "xfoo", "", true)
	spaced := f.addDoc(t, db, author, "bar foo", "", true)

	results, err := svc.Search(" foo", false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, spaced.ID, results[0].ID)
}
