package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/presbond/congreso-back/internals/features/game/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.TypeUserModel{},
		&userModel.UserModel{},
		&model.GameScoreModel{},
	))
	return db
}

func seedPlayer(t *testing.T, db *gorm.DB, name, email string) *userModel.UserModel {
	t.Helper()
	user := &userModel.UserModel{
		NameUser: name,
		Email:    email,
		Password: "x",
		Status:   userModel.StatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSubmitScoreKeepsPersonalBestOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db)

	player := seedPlayer(t, db, "Ana", "ana@example.com")

	first, err := svc.SubmitScore(player.UserID, 50)
	require.NoError(t, err)
	assert.Equal(t, "¡Primer puntaje guardado!", first.Message)

	better, err := svc.SubmitScore(player.UserID, 80)
	require.NoError(t, err)
	assert.Equal(t, "¡Nuevo récord personal!", better.Message)

	worse, err := svc.SubmitScore(player.UserID, 30)
	require.NoError(t, err)
	assert.NotEqual(t, "¡Nuevo récord personal!", worse.Message)

	// siempre una sola fila por jugador, con su mejor marca
	var rows []model.GameScoreModel
	require.NoError(t, db.Where("user_id = ?", player.UserID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 80, rows[0].Score)
}

func TestSubmitScoreRejectsAnonymous(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db)

	_, err := svc.SubmitScore(0, 10)
	require.Error(t, err)
}

func TestLeaderboardTopTenOrdered(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db)

	for i := 0; i < 12; i++ {
		player := seedPlayer(t, db,
			"Jugador",
			string(rune('a'+i))+"@example.com")
		_, err := svc.SubmitScore(player.UserID, (i+1)*10)
		require.NoError(t, err)
	}

	entries, err := svc.Leaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 10)

	assert.Equal(t, 120, entries[0].Value)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Value, entries[i].Value)
	}
}

func TestUserBestNilWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db)

	player := seedPlayer(t, db, "Ana", "ana@example.com")

	best, err := svc.UserBest(player.UserID)
	require.NoError(t, err)
	assert.Nil(t, best)

	_, err = svc.SubmitScore(player.UserID, 42)
	require.NoError(t, err)

	best, err = svc.UserBest(player.UserID)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 42, best.Score)
}
