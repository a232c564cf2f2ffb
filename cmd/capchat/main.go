package main

import (
	"os"

	"github.com/spf13/cobra"

	captioncmder "github.com/capchatco/capchat/cmd/capchat/caption"
	chatcmder "github.com/capchatco/capchat/cmd/capchat/chat"
	servecmder "github.com/capchatco/capchat/cmd/capchat/serve"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "capchat",
		Short: "AI social-media caption generation over chat",
		Long: `capchat generates social media captions for images via the Gemini API.

Run the proxy server with "capchat serve", then chat with it from a
terminal with "capchat chat" or caption a single image with
"capchat caption <image>".`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		servecmder.NewServeCmd(),
		chatcmder.NewChatCmd(),
		captioncmder.NewCaptionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
