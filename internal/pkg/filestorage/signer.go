package filestorage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/golang-jwt/jwt/v5"
)

type downloadClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// URLSigner issues expiring download links for stored objects
type URLSigner struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

// NewURLSigner creates a signer. Links point at <baseURL>/files/<key>?token=...
func NewURLSigner(secret string, ttl time.Duration, baseURL string) *URLSigner {
	return &URLSigner{
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// SignedURL returns a link that serves key until it expires
func (s *URLSigner) SignedURL(key string) (string, time.Time, error) {
	if _, err := cleanKey(key); err != nil {
		return "", time.Time{}, err
	}
	issued := s.now()
	expires := issued.Add(s.ttl)
	claims := downloadClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign download token: %w", err)
	}

	return fmt.Sprintf("%s/files/%s?token=%s", s.baseURL, escapeKey(key), url.QueryEscape(token)), expires, nil
}

// escapeKey escapes each path segment of key for use in a URL path
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Verify checks that token was issued for key and has not expired
func (s *URLSigner) Verify(key, token string) error {
	claims := &downloadClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apperrors.ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if claims.Key != key {
		return apperrors.ErrTokenInvalid
	}
	return nil
}
