package storage

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const avatarSide = 256

// PutAvatar сохраняет квадратную миниатюру JPEG и возвращает публичную ссылку.
func (s *Store) PutAvatar(userID uuid.UUID, r io.Reader, at time.Time) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if int64(len(raw)) > MaxAvatarSize {
		return "", ErrTooLarge
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrNotImage
	}
	thumb := imaging.Fill(img, avatarSide, avatarSide, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}
	key := fmt.Sprintf("%s/%d.jpg", userID, at.UnixMilli())
	if err := s.Put(BucketAvatars, key, &buf, MaxAvatarSize); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}
