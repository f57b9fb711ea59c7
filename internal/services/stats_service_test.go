package services

import (
	"testing"

	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "alice", models.RoleUser)
	createUser(t, db, "bob", models.RoleUser)
	f := newFixture(t, db, "Cat")
	f.addDoc(t, db, author, "A", "", true)
	f.addDoc(t, db, author, "B", "", true)
	f.addDoc(t, db, author, "C", "", false)

	stats, err := NewStatsService(db).GetStats()
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{TotalDocs: 3, PublicDocs: 2, PrivateDocs: 1, TotalUsers: 2}, stats)
}
