package services

import (
	"testing"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/database"
	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendsEntry(t *testing.T) {
	db := newTestDB(t)
	svc := newActivity(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	target := uint(7)

	svc.Log(alice.ID, models.ActionCreate, models.TargetDocument, &target, "hello")

	var logs []models.ActivityLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionCreate, logs[0].Action)
	require.NotNil(t, logs[0].TargetID)
	assert.Equal(t, target, *logs[0].TargetID)
	require.NotNil(t, logs[0].Details)
	assert.Equal(t, "hello", *logs[0].Details)
}

func TestLatestNewestFirstWithUnknownFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newActivity(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	second := "second"
	for i, l := range []models.ActivityLog{
		{UserID: alice.ID, Action: models.ActionCreate},
		{UserID: bob.ID, Action: models.ActionUpdate, Details: &second},
		{UserID: alice.ID, Action: models.ActionDelete},
	} {
		l.TargetType = models.TargetDocument
		l.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&l).Error)
	}

	require.NoError(t, db.Delete(bob).Error)

	entries, err := svc.Latest(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionDelete, entries[0].Action)
	assert.Equal(t, "alice", entries[0].UserName)
	assert.Equal(t, models.ActionUpdate, entries[1].Action)
	assert.Equal(t, "Unknown", entries[1].UserName)
	require.NotNil(t, entries[1].Details)
	assert.Equal(t, "second", *entries[1].Details)

	entries, err = svc.Latest(0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestHeatmapGroupsByDayInConfiguredZone(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)

	stamps := []time.Time{
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		require.NoError(t, db.Create(&models.ActivityLog{
			UserID: alice.ID, Action: models.ActionUpdate, TargetType: models.TargetDocument, CreatedAt: ts,
		}).Error)
	}
	require.NoError(t, db.Create(&models.ActivityLog{
		UserID: bob.ID, Action: models.ActionUpdate, TargetType: models.TargetDocument, CreatedAt: stamps[0],
	}).Error)

	heatmap, err := NewActivityService(db, time.UTC).Heatmap(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2024-01-01": 2, "2024-01-02": 1}, heatmap)

	shanghai := time.FixedZone("UTC+8", 8*3600)
	heatmap, err = NewActivityService(db, shanghai).Heatmap(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2024-01-01": 1, "2024-01-02": 2}, heatmap)

	var total int64
	for _, n := range heatmap {
		total += n
	}
	assert.Equal(t, int64(len(stamps)), total)
}

func TestLogSwallowsStorageErrors(t *testing.T) {
	// 没有迁移的数据库，写入必然失败
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	svc := NewActivityService(db, time.UTC)
	assert.NotPanics(t, func() {
		svc.Log(1, models.ActionCreate, models.TargetDocument, nil, "")
	})
}
