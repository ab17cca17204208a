package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
	"github.com/restaurante-kishimoto/kishimoto-web/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_CreateAndResolve(t *testing.T) {
	db := testutil.NewTestDB(t)
	customer := testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	svc := services.NewSessionService(db, time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, customer.CPF)
	require.NoError(t, err)
	assert.Len(t, session.Token, 36)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	resolved, err := svc.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "111", resolved.CPF)
	assert.Equal(t, "a@a.com", resolved.Email)
}

func TestSessionService_TokensAreUnique(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	svc := services.NewSessionService(db, time.Hour)

	first, err := svc.Create(context.Background(), "111")
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "111")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestSessionService_ResolveUnknownToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := services.NewSessionService(db, time.Hour)

	_, err := svc.Resolve(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	_, err = svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestSessionService_ExpiredSessionIsDeleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	svc := services.NewSessionService(db, time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, "111")
	require.NoError(t, err)

	svc.SetNow(func() time.Time { return time.Now().Add(2 * time.Hour) })

	_, err = svc.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, services.ErrSessionExpired)

	var count int64
	db.Model(&models.Session{}).Where("token = ?", session.Token).Count(&count)
	assert.Zero(t, count, "expired session should be removed")
}

func TestSessionService_DeletedCustomerInvalidatesSession(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	svc := services.NewSessionService(db, time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, "111")
	require.NoError(t, err)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Where("cpf = ?", "111").Delete(&models.Customer{}).Error)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	_, err = svc.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestSessionService_CustomerDeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	svc := services.NewSessionService(db, time.Hour)

	_, err := svc.Create(context.Background(), "111")
	require.NoError(t, err)

	require.NoError(t, db.Where("cpf = ?", "111").Delete(&models.Customer{}).Error)

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Zero(t, count)
}

func TestSessionService_Revoke(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	svc := services.NewSessionService(db, time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, "111")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, session.Token))
	_, err = svc.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	assert.NoError(t, svc.Revoke(ctx, session.Token), "revoking twice is harmless")
}

func TestSessionService_RevokeAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	testutil.CreateCustomer(t, db, "222", "b@b.com", "y")
	svc := services.NewSessionService(db, time.Hour)
	ctx := context.Background()

	a1, _ := svc.Create(ctx, "111")
	a2, _ := svc.Create(ctx, "111")
	b1, _ := svc.Create(ctx, "222")

	require.NoError(t, svc.RevokeAll(ctx, "111"))

	_, err := svc.Resolve(ctx, a1.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
	_, err = svc.Resolve(ctx, a2.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
	_, err = svc.Resolve(ctx, b1.Token)
	assert.NoError(t, err, "other customers keep their sessions")
}

func TestSessionService_PurgeExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCustomer(t, db, "111", "a@a.com", "x")
	svc := services.NewSessionService(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Session{Token: "old-1", CustomerCPF: "111", ExpiresAt: time.Now().Add(-time.Minute)}).Error)
	require.NoError(t, db.Create(&models.Session{Token: "old-2", CustomerCPF: "111", ExpiresAt: time.Now().Add(-time.Hour)}).Error)
	fresh, err := svc.Create(ctx, "111")
	require.NoError(t, err)

	purged, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	_, err = svc.Resolve(ctx, fresh.Token)
	assert.NoError(t, err)
}
