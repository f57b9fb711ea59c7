package services

import (
	"testing"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newActivity(db))
	createUser(t, db, "alice", models.RoleUser)

	user, err := svc.Login(&models.LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotNil(t, stored.LastLogin)

	_, err = svc.Login(&models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.True(t, errs.Is(err, errs.KindUnauthorized))

	_, err = svc.Login(&models.LoginRequest{Username: "nobody", Password: testPassword})
	assert.True(t, errs.Is(err, errs.KindUnauthorized))
}

func TestChangeOwnPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newActivity(db))
	user := createUser(t, db, "alice", models.RoleUser)

	err := svc.ChangeOwnPassword(user, &models.PasswordChangeRequest{CurrentPassword: "nope", Password: "newpass1"})
	assert.True(t, errs.Is(err, errs.KindBadRequest))

	require.NoError(t, svc.ChangeOwnPassword(user, &models.PasswordChangeRequest{CurrentPassword: testPassword, Password: "newpass1"}))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	ok, err := utils.VerifyPassword("newpass1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateAvatar(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newActivity(db))
	user := createUser(t, db, "alice", models.RoleUser)

	_, err := svc.UpdateAvatar(user, "/uploads/2024/01/me.png")
	require.NoError(t, err)

	got, err := svc.UserByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "/uploads/2024/01/me.png", *got.Avatar)

	_, err = svc.UserByUsername("ghost")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestProfileChangesAreLogged(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newActivity(db))
	user := createUser(t, db, "alice", models.RoleUser)

	require.NoError(t, svc.ChangeOwnPassword(user, &models.PasswordChangeRequest{CurrentPassword: testPassword, Password: "newpass1"}))
	_, err := svc.UpdateAvatar(user, "/uploads/2024/01/me.png")
	require.NoError(t, err)

	var logs []models.ActivityLog
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	for i, details := range []string{"password", "avatar"} {
		assert.Equal(t, models.ActionUpdate, logs[i].Action)
		assert.Equal(t, models.TargetUser, logs[i].TargetType)
		require.NotNil(t, logs[i].TargetID)
		assert.Equal(t, user.ID, *logs[i].TargetID)
		require.NotNil(t, logs[i].Details)
		assert.Equal(t, details, *logs[i].Details)
	}
}
