package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/greenloop/greenloop-backend/internal/clients/gcp"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/types"
)

const avatarSize = 256

var avatarPalette = []color.NRGBA{
	{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF},
	{R: 0x00, G: 0x69, B: 0x5C, A: 0xFF},
	{R: 0x33, G: 0x69, B: 0x1E, A: 0xFF},
	{R: 0x4E, G: 0x34, B: 0x2E, A: 0xFF},
	{R: 0x01, G: 0x57, B: 0x9B, A: 0xFF},
	{R: 0x6A, G: 0x1B, B: 0x9A, A: 0xFF},
}

// AvatarService renders an initial-letter avatar for a new user and
// uploads it to the media bucket.
type AvatarService interface {
	CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log      *logger.Logger
	bucket   gcp.BucketService
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, bucket gcp.BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT_PATH"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT_PATH is empty")
	}
	face, err := loadFontFace(fontPath, 110)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		bucket:   bucket,
		fontFace: face,
	}, nil
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error {
	initials := userInitials(user)
	bg := avatarPalette[int(user.ID[0])%len(avatarPalette)]

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.SetColor(bg)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Fill()
	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials, avatarSize/2, avatarSize/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encode avatar png: %w", err)
	}

	key := fmt.Sprintf("avatar_%s.png", user.ID)
	if err := as.bucket.UploadObject(ctx, key, "image/png", &buf); err != nil {
		return fmt.Errorf("upload avatar: %w", err)
	}

	user.AvatarBucketKey = key
	user.AvatarURL = as.bucket.GetPublicURL(key)
	return nil
}

func userInitials(user *types.User) string {
	first := strings.TrimSpace(user.FirstName)
	last := strings.TrimSpace(user.LastName)
	out := ""
	if first != "" {
		out += strings.ToUpper(first[:1])
	}
	if last != "" {
		out += strings.ToUpper(last[:1])
	}
	if out == "" {
		out = "?"
	}
	return out
}
