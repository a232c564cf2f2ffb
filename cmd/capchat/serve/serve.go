package servecmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capchatco/capchat/pkg/logger"
	"github.com/capchatco/capchat/proxy"
)

const serveLongDesc string = `Run the captions proxy server.

The server exposes POST /captions, forwarding each image to the Gemini
API and relaying the generated captions. The Gemini credential is read
from the GEMINI_API_KEY environment variable; without it every request
fails with a configuration error.

Examples:
  capchat serve
  capchat serve --listen :9090 --config capchat.toml`

const serveShortDesc string = "Run the captions proxy server"

type serveCommander struct {
	listenAddr string
	configPath string
	debug      bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listenAddr, "listen", "l", "", "Address to listen on (default from config, :8080)")
	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run() error {
	config, err := proxy.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if c.listenAddr != "" {
		config.ListenAddr = c.listenAddr
	}

	log := logger.NewLogger(c.debug)
	defer log.Sync()

	if config.APIKey == "" {
		// Startup proceeds; each request will answer with the
		// configuration error until the operator fixes the environment.
		log.Warn("GEMINI_API_KEY is not set, caption requests will fail")
	}

	log.Info("capchat proxy starting",
		zap.String("listen", config.ListenAddr),
		zap.String("model", config.Model),
		zap.Bool("debug", c.debug),
	)

	p := proxy.New(config, log)
	if err := p.Run(); err != nil {
		return fmt.Errorf("proxy server failed: %w", err)
	}

	return nil
}
