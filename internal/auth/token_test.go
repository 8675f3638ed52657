package auth_test

import (
	"time"

	"github.com/frahmantamala/feedback-collector/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TokenCodec", func() {
	const secret = "0123456789abcdef0123456789abcdef"

	var codec *auth.TokenCodec

	BeforeEach(func() {
		codec = auth.NewTokenCodec(secret)
	})

	It("should carry the session id", func() {
		now := time.Now()
		token, err := codec.Issue(&auth.Session{ID: "sid", Username: "admin", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
		Expect(err).NotTo(HaveOccurred())

		id, err := codec.Parse(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("sid"))
	})

	It("should reject tokens signed with another secret", func() {
		now := time.Now()
		token, err := auth.NewTokenCodec("another-secret-another-secret-xx").Issue(&auth.Session{ID: "sid", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Parse(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("should report expired tokens", func() {
		past := time.Now().Add(-2 * time.Hour)
		token, err := codec.Issue(&auth.Session{ID: "sid", CreatedAt: past, ExpiresAt: past.Add(time.Hour)})
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Parse(token)
		Expect(err).To(MatchError(auth.ErrSessionExpired))
	})

	It("should reject the none algorithm", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{ID: "sid", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Parse(raw)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("should reject garbage", func() {
		_, err := codec.Parse("not-a-token")
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})
})
