package captioncmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capchatco/capchat/internal/tui"
	"github.com/capchatco/capchat/pkg/chat"
	"github.com/capchatco/capchat/pkg/imageenc"
)

const captionLongDesc string = `Generate captions for a single image and exit.

The image is encoded and sent to a running captions proxy; the result
is rendered as markdown on stdout.

Examples:
  capchat caption sunset.jpg
  capchat caption --server http://localhost:9090 --prompt "two short captions" cat.png`

const captionShortDesc string = "Generate captions for one image"

type captionCommander struct {
	serverURL string
	prompt    string
}

func NewCaptionCmd() *cobra.Command {
	cmder := &captionCommander{}

	cmd := &cobra.Command{
		Use:   "caption <image>",
		Short: captionShortDesc,
		Long:  captionLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", "http://localhost:8080", "Captions proxy base URL")
	cmd.Flags().StringVarP(&cmder.prompt, "prompt", "p", "", "Custom caption instruction (default: five numbered captions)")

	return cmd
}

func (c *captionCommander) run(cmd *cobra.Command, imagePath string) error {
	image, err := imageenc.EncodeFile(imagePath)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", imagePath, err)
	}

	client := chat.NewProxyClient(c.serverURL)
	text, err := client.Caption(cmd.Context(), image, c.prompt)
	if err != nil {
		return fmt.Errorf("caption request failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), tui.Markdown(text))
	return nil
}
