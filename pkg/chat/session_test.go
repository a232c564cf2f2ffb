package chat_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/capchatco/capchat/pkg/chat"
)

// fakeCaptioner records calls and returns a canned caption or error.
type fakeCaptioner struct {
	calls []captionCall
	text  string
	err   error
}

type captionCall struct {
	image  string
	prompt string
}

func (f *fakeCaptioner) Caption(_ context.Context, image, prompt string) (string, error) {
	f.calls = append(f.calls, captionCall{image: image, prompt: prompt})
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

var _ = Describe("Session", func() {
	var (
		ctx       context.Context
		captioner *fakeCaptioner
		session   *chat.Session
	)

	const prompt = "caption generation prompt"

	BeforeEach(func() {
		ctx = context.Background()
		captioner = &fakeCaptioner{text: "1. Cap A\n2. Cap B"}
		session = chat.NewSession(captioner, prompt)
	})

	Describe("a freshly mounted session", func() {
		It("starts empty and idle", func() {
			Expect(session.Messages()).To(BeEmpty())
			Expect(session.ActiveImage()).To(BeEmpty())
			Expect(session.IsLoading()).To(BeFalse())
			Expect(session.LastError()).To(BeEmpty())
		})
	})

	Describe("SelectImage", func() {
		It("stores the image as the active image", func() {
			_, err := session.SelectImage("data:image/png;base64,AAAA")
			Expect(err).NotTo(HaveOccurred())

			Expect(session.ActiveImage()).To(Equal("data:image/png;base64,AAAA"))
		})

		It("appends exactly one image-kind user message", func() {
			_, err := session.SelectImage("data:image/png;base64,AAAA")
			Expect(err).NotTo(HaveOccurred())

			messages := session.Messages()
			Expect(messages).To(HaveLen(1))
			Expect(messages[0].Role).To(Equal(chat.RoleUser))
			Expect(messages[0].Kind).To(Equal(chat.KindImage))
			Expect(messages[0].ImageRef).To(Equal("data:image/png;base64,AAAA"))
			Expect(messages[0].Content).NotTo(BeEmpty())
		})

		It("always tracks the most recently selected image", func() {
			turn, _ := session.SelectImage("data:image/png;base64,AAAA")
			session.Finish(turn.Run(ctx))

			turn, _ = session.SelectImage("data:image/png;base64,BBBB")
			session.Finish(turn.Run(ctx))

			Expect(session.ActiveImage()).To(Equal("data:image/png;base64,BBBB"))
		})

		It("clears a prior error", func() {
			_, err := session.Send("hi")
			Expect(err).To(HaveOccurred())
			Expect(session.LastError()).NotTo(BeEmpty())

			_, err = session.SelectImage("data:image/png;base64,AAAA")
			Expect(err).NotTo(HaveOccurred())
			Expect(session.LastError()).To(BeEmpty())
		})

		It("rejects a second request while one is in flight", func() {
			_, err := session.SelectImage("data:image/png;base64,AAAA")
			Expect(err).NotTo(HaveOccurred())

			_, err = session.SelectImage("data:image/png;base64,BBBB")
			Expect(err).To(MatchError(chat.ErrRequestInFlight))
		})
	})

	Describe("Send", func() {
		Context("with no active image", func() {
			It("appends no message and performs no captioning call", func() {
				_, err := session.Send("hi")

				Expect(err).To(MatchError(chat.ErrNoActiveImage))
				Expect(session.Messages()).To(BeEmpty())
				Expect(captioner.calls).To(BeEmpty())
			})

			It("sets LastError to the upload prompt", func() {
				_, _ = session.Send("hi")

				Expect(session.LastError()).To(Equal("Please upload an image first!"))
			})
		})

		Context("with an active image", func() {
			BeforeEach(func() {
				turn, err := session.SelectImage("data:image/png;base64,AAAA")
				Expect(err).NotTo(HaveOccurred())
				session.Finish(turn.Run(ctx))
				captioner.calls = nil
			})

			It("appends exactly one user text message", func() {
				before := len(session.Messages())

				turn, err := session.Send("make them shorter")
				Expect(err).NotTo(HaveOccurred())

				messages := session.Messages()
				Expect(messages).To(HaveLen(before + 1))
				last := messages[len(messages)-1]
				Expect(last.Role).To(Equal(chat.RoleUser))
				Expect(last.Kind).To(Equal(chat.KindText))
				Expect(last.Content).To(Equal("make them shorter"))

				session.Finish(turn.Run(ctx))
			})

			It("triggers exactly one captioning call for the active image", func() {
				turn, err := session.Send("more hashtags")
				Expect(err).NotTo(HaveOccurred())
				session.Finish(turn.Run(ctx))

				Expect(captioner.calls).To(HaveLen(1))
				Expect(captioner.calls[0].image).To(Equal("data:image/png;base64,AAAA"))
				Expect(captioner.calls[0].prompt).To(Equal(prompt))
			})
		})
	})

	Describe("the request lifecycle", func() {
		It("transitions loading false -> true -> false", func() {
			Expect(session.IsLoading()).To(BeFalse())

			turn, err := session.SelectImage("data:image/png;base64,AAAA")
			Expect(err).NotTo(HaveOccurred())
			Expect(session.IsLoading()).To(BeTrue())

			session.Finish(turn.Run(ctx))
			Expect(session.IsLoading()).To(BeFalse())
		})

		It("appends exactly one assistant message on success", func() {
			turn, _ := session.SelectImage("data:image/png;base64,AAAA")
			session.Finish(turn.Run(ctx))

			messages := session.Messages()
			Expect(messages).To(HaveLen(2))
			Expect(messages[1].Role).To(Equal(chat.RoleAssistant))
			Expect(messages[1].Kind).To(Equal(chat.KindText))
			Expect(messages[1].Content).To(Equal("1. Cap A\n2. Cap B"))
			Expect(session.LastError()).To(BeEmpty())
		})

		It("appends exactly one assistant message on failure and sets LastError", func() {
			captioner.err = errors.New("Gemini API error: 403 Forbidden")

			turn, _ := session.SelectImage("data:image/png;base64,AAAA")
			session.Finish(turn.Run(ctx))

			messages := session.Messages()
			Expect(messages).To(HaveLen(2))
			Expect(messages[1].Role).To(Equal(chat.RoleAssistant))
			Expect(messages[1].Content).To(ContainSubstring("Sorry, I encountered an error"))
			Expect(messages[1].Content).To(ContainSubstring("Gemini API error: 403 Forbidden"))
			Expect(session.LastError()).To(Equal("Gemini API error: 403 Forbidden"))
			Expect(session.IsLoading()).To(BeFalse())
		})

		It("applies each outcome at most once", func() {
			turn, _ := session.SelectImage("data:image/png;base64,AAAA")
			outcome := turn.Run(ctx)

			session.Finish(outcome)
			session.Finish(outcome)

			Expect(session.Messages()).To(HaveLen(2))
		})

		It("ignores a zero-value outcome", func() {
			turn, _ := session.SelectImage("data:image/png;base64,AAAA")

			session.Finish(chat.Outcome{})
			Expect(session.IsLoading()).To(BeTrue())

			session.Finish(turn.Run(ctx))
			Expect(session.IsLoading()).To(BeFalse())
		})
	})

	Describe("the transcript", func() {
		It("preserves insertion order and unique IDs", func() {
			turn, _ := session.SelectImage("data:image/png;base64,AAAA")
			session.Finish(turn.Run(ctx))
			turn, _ = session.Send("another round")
			session.Finish(turn.Run(ctx))

			messages := session.Messages()
			Expect(messages).To(HaveLen(4))

			seen := map[string]bool{}
			for _, m := range messages {
				Expect(m.ID).NotTo(BeEmpty())
				Expect(seen[m.ID]).To(BeFalse(), "duplicate message ID %s", m.ID)
				seen[m.ID] = true
			}

			Expect(messages[0].Kind).To(Equal(chat.KindImage))
			Expect(messages[1].Role).To(Equal(chat.RoleAssistant))
			Expect(messages[2].Content).To(Equal("another round"))
			Expect(messages[3].Role).To(Equal(chat.RoleAssistant))
		})

		It("returns a copy that does not alias internal state", func() {
			turn, _ := session.SelectImage("data:image/png;base64,AAAA")
			session.Finish(turn.Run(ctx))

			messages := session.Messages()
			messages[0].Content = "mutated"

			Expect(session.Messages()[0].Content).NotTo(Equal("mutated"))
		})
	})

	Describe("Caption", func() {
		It("runs and finishes a turn synchronously", func() {
			turn, err := session.SelectImage("data:image/png;base64,AAAA")
			Expect(err).NotTo(HaveOccurred())

			Expect(session.Caption(ctx, turn)).To(Succeed())
			Expect(session.IsLoading()).To(BeFalse())
			Expect(session.Messages()).To(HaveLen(2))
		})

		It("returns the captioner's error", func() {
			captioner.err = errors.New("upstream down")

			turn, _ := session.SelectImage("data:image/png;base64,AAAA")
			Expect(session.Caption(ctx, turn)).To(MatchError("upstream down"))
		})
	})
})
