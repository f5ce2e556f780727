// Package storage: файловые корзины на локальном диске: avatars (публичные
// ссылки) и homework-files (только подписанные ссылки с ограниченным сроком).
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BucketAvatars  = "avatars"
	BucketHomework = "homework-files"

	MaxHomeworkSize int64 = 10 << 20
	MaxAvatarSize   int64 = 5 << 20

	SignedURLTTL = time.Hour
)

var (
	ErrTooLarge     = errors.New("file too large")
	ErrBadKey       = errors.New("bad object key")
	ErrBadSignature = errors.New("bad signature")
	ErrExpired      = errors.New("link expired")
	ErrNotImage     = errors.New("not an image")
)

var buckets = map[string]bool{BucketAvatars: true, BucketHomework: true}

type Store struct {
	root    string
	secret  []byte
	baseURL string
	now     func() time.Time
}

func New(root, secret, baseURL string) (*Store, error) {
	for b := range buckets {
		if err := os.MkdirAll(filepath.Join(root, b), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &Store{root: root, secret: []byte(secret), baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName оставляет [a-zA-Z0-9._-], остальное заменяет на "_".
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// SubmissionKey: <student>/<homework>/<unix-ms>-<name>.
func SubmissionKey(studentID, homeworkID uuid.UUID, at time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s/%d-%s", studentID, homeworkID, at.UnixMilli(), SanitizeFileName(fileName))
}

func (s *Store) objectPath(bucket, key string) (string, error) {
	if !buckets[bucket] {
		return "", ErrBadKey
	}
	clean := path.Clean("/" + key)
	if key == "" || clean != "/"+key {
		return "", ErrBadKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", ErrBadKey
		}
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(key)), nil
}

// Put пишет объект целиком через временный файл. Больше limit байт: ErrTooLarge.
func (s *Store) Put(bucket, key string, r io.Reader, limit int64) error {
	dst, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create file directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	if n > limit {
		return ErrTooLarge
	}
	return os.Rename(tmp.Name(), dst)
}

func (s *Store) Open(bucket, key string) (*os.File, error) {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// Remove: отсутствующий объект не ошибка.
func (s *Store) Remove(bucket, key string) error {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// PublicURL: только для публичной корзины avatars.
func (s *Store) PublicURL(key string) string {
	return s.baseURL + "/public/" + BucketAvatars + "/" + key
}

func (s *Store) sign(bucket, key string, expires int64) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = fmt.Fprintf(m, "%s\n%s\n%d", bucket, key, expires)
	return hex.EncodeToString(m.Sum(nil))
}

// SignedURL: ссылка на объект с подписью, действительная ttl.
func (s *Store) SignedURL(bucket, key string, ttl time.Duration) string {
	exp := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(exp, 10))
	q.Set("sig", s.sign(bucket, key, exp))
	return s.baseURL + "/files/" + bucket + "/" + key + "?" + q.Encode()
}

// Verify проверяет подпись и срок ссылки из SignedURL.
func (s *Store) Verify(bucket, key, expires, sig string) error {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	want := s.sign(bucket, key, exp)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	if s.now().Unix() > exp {
		return ErrExpired
	}
	return nil
}
