package auth_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/feedback-collector/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

var _ = Describe("Session stores", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	newSession := func(id string) *auth.Session {
		now := time.Now().UTC().Truncate(time.Second)
		return &auth.Session{ID: id, Username: "admin", Authenticated: true, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	}

	Describe("MemoryStore", func() {
		It("should save, load and delete", func() {
			store := auth.NewMemoryStore()
			Expect(store.Save(ctx, newSession("a"))).To(Succeed())

			got, err := store.Get(ctx, "a")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("admin"))

			got.Username = "changed"
			again, _ := store.Get(ctx, "a")
			Expect(again.Username).To(Equal("admin"))

			Expect(store.Delete(ctx, "a")).To(Succeed())
			_, err = store.Get(ctx, "a")
			Expect(err).To(MatchError(auth.ErrSessionNotFound))
		})
	})

	Describe("RedisStore", func() {
		var (
			mr     *miniredis.Miniredis
			client *redis.Client
			store  *auth.RedisStore
		)

		BeforeEach(func() {
			var err error
			mr, err = miniredis.Run()
			Expect(err).NotTo(HaveOccurred())
			client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
			store = auth.NewRedisStore(client)
		})

		AfterEach(func() {
			Expect(client.Close()).To(Succeed())
			mr.Close()
		})

		It("should round-trip a session with the session lifetime as TTL", func() {
			s := newSession("abc")
			Expect(store.Save(ctx, s)).To(Succeed())

			Expect(mr.Exists("feedback:session:abc")).To(BeTrue())
			Expect(mr.TTL("feedback:session:abc")).To(BeNumerically("~", time.Hour, time.Minute))

			got, err := store.Get(ctx, "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("admin"))
			Expect(got.Authenticated).To(BeTrue())
			Expect(got.ExpiresAt.Equal(s.ExpiresAt)).To(BeTrue())
		})

		It("should forget sessions once redis expires them", func() {
			Expect(store.Save(ctx, newSession("abc"))).To(Succeed())
			mr.FastForward(2 * time.Hour)

			_, err := store.Get(ctx, "abc")
			Expect(err).To(MatchError(auth.ErrSessionNotFound))
		})

		It("should refuse to save an already expired session", func() {
			s := newSession("old")
			s.ExpiresAt = time.Now().Add(-time.Minute)
			Expect(store.Save(ctx, s)).To(MatchError(auth.ErrSessionExpired))
		})

		It("should delete sessions", func() {
			Expect(store.Save(ctx, newSession("abc"))).To(Succeed())
			Expect(store.Delete(ctx, "abc")).To(Succeed())
			Expect(store.Delete(ctx, "abc")).To(Succeed())

			_, err := store.Get(ctx, "abc")
			Expect(err).To(MatchError(auth.ErrSessionNotFound))
		})

		It("should surface connection errors", func() {
			mr.Close()
			_, err := store.Get(ctx, "abc")
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(auth.ErrSessionNotFound))
		})
	})
})
