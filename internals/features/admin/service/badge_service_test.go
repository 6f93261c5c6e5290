package service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presbond/congreso-back/internals/features/admin/dto"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

func TestRenderBadgeProducesWebp(t *testing.T) {
	svc := NewBadgeService(nil)

	u := &userModel.UserModel{
		UserID:          7,
		NameUser:        "María",
		PaternalSurname: "López",
		Email:           "maria@example.com",
		Matricula:       strPtr("20230001"),
		TypeUser:        &userModel.TypeUserModel{TypeUserID: 1, NameType: "Estudiante"},
	}

	img, err := svc.RenderBadge(u)
	require.NoError(t, err)
	require.Greater(t, len(img), 12)
	// cabecera RIFF....WEBP
	assert.Equal(t, "RIFF", string(img[0:4]))
	assert.Equal(t, "WEBP", string(img[8:12]))
}

func TestGenerateBadgesZipsAndMarksPrinted(t *testing.T) {
	db := newTestDB(t)
	seedPanelUsers(t, db)
	svc := NewBadgeService(db)

	var users []userModel.UserModel
	require.NoError(t, db.Order("user_id ASC").Limit(2).Find(&users).Error)
	ids := []int64{users[0].UserID, users[1].UserID}

	archive, err := svc.GenerateBadges(&dto.GenerateBadgesRequest{IDs: ids})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	names := []string{zr.File[0].Name, zr.File[1].Name}
	assert.Contains(t, names, fmt.Sprintf("gafete-%d.webp", ids[0]))
	assert.Contains(t, names, fmt.Sprintf("gafete-%d.webp", ids[1]))

	var printed int64
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("user_id IN ? AND is_badge_printed = ?", ids, true).
		Count(&printed).Error)
	assert.Equal(t, int64(2), printed)
}

func TestGenerateBadgesRejectsEmptyIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	_, err := svc.GenerateBadges(&dto.GenerateBadgesRequest{IDs: []int64{0, -3}})
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}
