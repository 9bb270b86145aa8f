// Package testutil provides an on-disk SQLite database and fixtures for
// package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/auth"
	"github.com/divizend/dreaming/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-jwt-secret"

// NewDB opens a migrated database in the test's temp dir.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.Open("sqlite:"+filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return database
}

// UseDB installs a fresh database as db.DB for the duration of the test.
func UseDB(t *testing.T) *gorm.DB {
	t.Helper()

	database := NewDB(t)
	previous := db.DB
	db.DB = database
	t.Cleanup(func() { db.DB = previous })

	return database
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func CreateUser(t *testing.T, database *gorm.DB, id string, isAdmin bool) models.User {
	t.Helper()

	user := models.User{ID: id, IsAdmin: isAdmin}
	require.NoError(t, database.Create(&user).Error)
	return user
}

// CreateProject stores a project and returns it with its plaintext webhook
// secret.
func CreateProject(t *testing.T, database *gorm.DB, slug string) (models.Project, string) {
	t.Helper()

	secret, hash, err := auth.NewWebhookSecret()
	require.NoError(t, err)

	project := models.Project{
		Name:              "Project " + slug,
		Description:       "Description of " + slug,
		Slug:              slug,
		WebhookSecretHash: hash,
	}
	require.NoError(t, database.Create(&project).Error)

	return project, secret
}

func GrantFunds(t *testing.T, database *gorm.DB, userID, projectID, amount string, isAdmin bool) models.UserProjectFunds {
	t.Helper()

	funds := models.UserProjectFunds{
		UserID:    userID,
		ProjectID: projectID,
		FundsLeft: Dec(amount),
		Currency:  models.DefaultCurrency,
		IsAdmin:   isAdmin,
	}
	require.NoError(t, database.Create(&funds).Error)
	return funds
}

func CreateBucket(t *testing.T, database *gorm.DB, projectID, title, status string) models.Bucket {
	t.Helper()

	bucket := models.Bucket{
		ProjectID:   projectID,
		Title:       title,
		Description: "## " + title,
		Status:      status,
	}
	require.NoError(t, database.Create(&bucket).Error)
	return bucket
}

func AddBudgetItem(t *testing.T, database *gorm.DB, bucketID, amount string) models.BudgetItem {
	t.Helper()

	item := models.BudgetItem{
		BucketID:    bucketID,
		Description: "Item",
		Amount:      Dec(amount),
		Currency:    models.DefaultCurrency,
	}
	require.NoError(t, database.Create(&item).Error)
	return item
}

// FundsLeft reads the current balance of a ledger row.
func FundsLeft(t *testing.T, database *gorm.DB, userID, projectID string) decimal.Decimal {
	t.Helper()

	var funds models.UserProjectFunds
	require.NoError(t, database.Where("user_id = ? AND project_id = ?", userID, projectID).First(&funds).Error)
	return funds.FundsLeft
}

// NewSession creates a session for the user and returns its bearer token.
func NewSession(t *testing.T, database *gorm.DB, userID string, expiresAt time.Time) string {
	t.Helper()

	require.NoError(t, auth.InitJWTSecret(JWTSecret))

	session := models.Session{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		UserID:    userID,
		ExpiresAt: expiresAt,
	}

	token, err := auth.GenerateSessionToken(session.ID, userID, expiresAt)
	require.NoError(t, err)

	session.Token = token
	require.NoError(t, database.Create(&session).Error)

	return token
}
