package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/capchatco/capchat/pkg/captions"
	"github.com/capchatco/capchat/pkg/chat"
)

var _ = Describe("ProxyClient", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		received *captions.Request
	)

	BeforeEach(func() {
		ctx = context.Background()
		received = nil
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	startProxy := func(handler http.HandlerFunc) *chat.ProxyClient {
		server = httptest.NewServer(handler)
		return chat.NewProxyClient(server.URL)
	}

	It("posts the image and prompt and returns the caption text", func() {
		client := startProxy(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/captions"))

			var req captions.Request
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			received = &req

			json.NewEncoder(w).Encode(captions.Response{Text: "1. Cap A", Type: "text"})
		})

		text, err := client.Caption(ctx, "data:image/png;base64,AAAA", "the prompt")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("1. Cap A"))

		Expect(received).NotTo(BeNil())
		Expect(received.Image).To(Equal("data:image/png;base64,AAAA"))
		Expect(received.Prompt).To(Equal("the prompt"))
	})

	It("surfaces the proxy's error body as the error message", func() {
		client := startProxy(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(captions.ErrorResponse{
				Error: "Gemini API error: 403 Forbidden. This usually indicates an issue with your API key or permissions.",
			})
		})

		_, err := client.Caption(ctx, "data:image/png;base64,AAAA", "p")
		Expect(err).To(MatchError(ContainSubstring("403 Forbidden")))
	})

	It("falls back to the status code when the error body is not JSON", func() {
		client := startProxy(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>nope</html>"))
		})

		_, err := client.Caption(ctx, "data:image/png;base64,AAAA", "p")
		Expect(err).To(MatchError("API returned 502"))
	})

	It("reports transport failures", func() {
		client := chat.NewProxyClient("http://127.0.0.1:1")

		_, err := client.Caption(ctx, "data:image/png;base64,AAAA", "p")
		Expect(err).To(HaveOccurred())
	})
})
