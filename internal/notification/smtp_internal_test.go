package notification

import (
	"context"
	"errors"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("SMTPTransport", func() {
	var cfg SMTPConfig

	ginkgo.BeforeEach(func() {
		cfg = SMTPConfig{
			Host:     "smtp.mail.me.com",
			Port:     587,
			Security: SecuritySTARTTLS,
			Sender:   "sender@example.com",
			Password: "app-password",
		}
	})

	ginkgo.It("should require sender and password", func() {
		cfg.Password = ""
		gomega.Expect(NewSMTPTransport(cfg).Ready()).To(gomega.MatchError(ErrNotConfigured))

		cfg.Password = "x"
		cfg.Sender = ""
		gomega.Expect(NewSMTPTransport(cfg).Ready()).To(gomega.MatchError(ErrNotConfigured))
	})

	ginkgo.It("should enforce STARTTLS on the submission port", func() {
		d := NewSMTPTransport(cfg).dialer()
		gomega.Expect(d.SSL).To(gomega.BeFalse())
		gomega.Expect(d.StartTLSPolicy).To(gomega.Equal(mail.MandatoryStartTLS))
		gomega.Expect(d.TLSConfig.ServerName).To(gomega.Equal("smtp.mail.me.com"))
		gomega.Expect(d.Username).To(gomega.Equal("sender@example.com"))
	})

	ginkgo.It("should use implicit TLS in ssl mode", func() {
		cfg.Security = SecuritySSL
		cfg.Port = 465
		gomega.Expect(NewSMTPTransport(cfg).dialer().SSL).To(gomega.BeTrue())
	})

	ginkgo.It("should pass the timeout through, zero meaning none", func() {
		gomega.Expect(NewSMTPTransport(cfg).dialer().Timeout).To(gomega.BeZero())

		cfg.Timeout = 3 * time.Second
		gomega.Expect(NewSMTPTransport(cfg).dialer().Timeout).To(gomega.Equal(3 * time.Second))
	})

	ginkgo.It("should build a plain-text message with joined recipients", func() {
		m := NewSMTPTransport(cfg).message(Message{
			To:      []string{"a@example.com", "b@example.com"},
			Subject: "hello",
			Body:    "body",
		})
		gomega.Expect(m.GetHeader("From")).To(gomega.Equal([]string{"sender@example.com"}))
		gomega.Expect(m.GetHeader("To")).To(gomega.Equal([]string{"a@example.com", "b@example.com"}))
		gomega.Expect(m.GetHeader("Subject")).To(gomega.Equal([]string{"hello"}))
	})

	ginkgo.It("should dial once per send and wrap errors", func() {
		t := NewSMTPTransport(cfg)
		calls := 0
		t.send = func(_ *mail.Dialer, msgs ...*mail.Message) error {
			calls++
			gomega.Expect(msgs).To(gomega.HaveLen(1))
			return errors.New("535 auth failed")
		}

		err := t.Send(context.Background(), Message{To: []string{"a@example.com"}})
		gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("535 auth failed")))
		gomega.Expect(calls).To(gomega.Equal(1))
	})

	ginkgo.It("should not dial with a cancelled context", func() {
		t := NewSMTPTransport(cfg)
		t.send = func(_ *mail.Dialer, _ ...*mail.Message) error {
			ginkgo.Fail("send must not be called")
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		gomega.Expect(t.Send(ctx, Message{})).To(gomega.MatchError(context.Canceled))
	})
})
