package service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/admin/dto"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

/* =========================================================
   Badges
========================================================= */

const (
	badgeWidth  = 320
	badgeHeight = 420
	qrSize      = 160
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// Colores de plantilla por tipo de usuario.
func badgeColor(role string) color.NRGBA {
	r := strings.ToLower(strings.TrimSpace(role))
	switch {
	case strings.Contains(r, "docente"):
		return color.NRGBA{R: 0x0E, G: 0x6B, B: 0x3A, A: 0xFF}
	case strings.Contains(r, "ponente"), strings.Contains(r, "tallerista"):
		return color.NRGBA{R: 0x6A, G: 0x1B, B: 0x9A, A: 0xFF}
	case strings.Contains(r, "externo"):
		return color.NRGBA{R: 0xB3, G: 0x54, B: 0x0F, A: 0xFF}
	case strings.Contains(r, "admin"):
		return color.NRGBA{R: 0x8B, G: 0x0F, B: 0x1E, A: 0xFF}
	default: // estudiante
		return color.NRGBA{R: 0x00, G: 0x1B, B: 0x5E, A: 0xFF}
	}
}

// drawTextCentered dibuja una línea con basicfont centrada horizontalmente.
func drawTextCentered(dst draw.Image, text string, y int, col color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	d.Dot = fixed.P((badgeWidth-width)/2, y)
	d.DrawString(text)
}

// RenderBadge genera el gafete individual en webp: plantilla de color por
// tipo, QR con el correo (lo que lee el escáner de asistencia), nombre,
// matrícula y tipo de usuario.
func (s *BadgeService) RenderBadge(u *userModel.UserModel) ([]byte, error) {
	roleName := u.TypeName()
	canvas := imaging.New(badgeWidth, badgeHeight, badgeColor(roleName))

	// panel blanco central donde van QR y textos
	panel := imaging.New(badgeWidth-24, badgeHeight-110, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	canvas = imaging.Paste(canvas, panel, image.Pt(12, 70))

	qrValue := u.Email
	if qrValue == "" {
		qrValue = fmt.Sprintf("%d", u.UserID)
	}
	qr, err := qrcode.New(qrValue, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qrImg := qr.Image(qrSize)
	canvas = imaging.Paste(canvas, qrImg, image.Pt((badgeWidth-qrSize)/2, 90))

	textColor := color.NRGBA{R: 0x00, G: 0x1B, B: 0x5E, A: 0xFF}
	drawTextCentered(canvas, u.FullName(), 290, textColor)

	code := fmt.Sprintf("%d", u.UserID)
	if u.Matricula != nil && *u.Matricula != "" {
		code = *u.Matricula
	}
	drawTextCentered(canvas, code, 320, textColor)
	drawTextCentered(canvas, roleName, 345, textColor)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, canvas, &webp.Options{Lossless: false, Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateBadges renderiza los gafetes solicitados, los empaqueta en un zip
// y marca is_badge_printed. Devuelve el zip listo para descargar.
func (s *BadgeService) GenerateBadges(req *dto.GenerateBadgesRequest) ([]byte, error) {
	ids := make([]int64, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No se enviaron IDs válidos.")
	}

	var users []userModel.UserModel
	if err := s.DB.Preload("TypeUser").Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No se encontraron usuarios con esos IDs.")
	}

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	for i := range users {
		img, err := s.RenderBadge(&users[i])
		if err != nil {
			zw.Close()
			return nil, err
		}
		name := fmt.Sprintf("gafete-%d.webp", users[i].UserID)
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, err
		}
		if _, err := w.Write(img); err != nil {
			zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	markPrinted := req.MarkPrinted == nil || *req.MarkPrinted
	if markPrinted {
		if err := s.DB.Model(&userModel.UserModel{}).
			Where("user_id IN ?", ids).
			Update("is_badge_printed", true).Error; err != nil {
			return nil, err
		}
	}

	return archive.Bytes(), nil
}
