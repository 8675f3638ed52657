package notification_test

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/frahmantamala/feedback-collector/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

var _ = Describe("SESTransport", func() {
	var client *fakeSES

	BeforeEach(func() {
		client = &fakeSES{}
	})

	It("should not be ready without a sender", func() {
		t := notification.NewSESTransportWithClient(client, "")
		Expect(t.Ready()).To(MatchError(notification.ErrNotConfigured))
	})

	It("should send a plain-text message", func() {
		t := notification.NewSESTransportWithClient(client, "noreply@example.com")
		Expect(t.Ready()).To(Succeed())

		err := t.Send(context.Background(), notification.Message{
			To:      []string{"a@example.com", "b@example.com"},
			Subject: "subject",
			Body:    "body",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.inputs).To(HaveLen(1))

		in := client.inputs[0]
		Expect(*in.FromEmailAddress).To(Equal("noreply@example.com"))
		Expect(in.Destination.ToAddresses).To(Equal([]string{"a@example.com", "b@example.com"}))
		Expect(*in.Content.Simple.Subject.Data).To(Equal("subject"))
		Expect(*in.Content.Simple.Body.Text.Data).To(Equal("body"))
		Expect(in.Content.Simple.Body.Html).To(BeNil())
	})

	It("should wrap client errors", func() {
		client.err = errors.New("throttled")
		t := notification.NewSESTransportWithClient(client, "noreply@example.com")

		err := t.Send(context.Background(), notification.Message{To: []string{"a@example.com"}})
		Expect(err).To(MatchError(ContainSubstring("throttled")))
	})
})
