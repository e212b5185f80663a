package main

import (
	"github.com/spf13/cobra"

	"github.com/shuheykoyama/tnap/internal/app"
	"github.com/shuheykoyama/tnap/internal/config"
	"github.com/shuheykoyama/tnap/internal/log"
)

// cli holds what the persistent flags resolve to.
type cli struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	var opts app.Options

	rootCmd := &cobra.Command{
		Use:   "tnap",
		Short: "Terminal image slideshow",
		Long: `tnap shows a slideshow of images in your terminal.

Images come from a theme directory (--theme) or are generated from a prompt
(--key looks one up in the prompt catalog, --prompt passes it directly).
Press 'a' to switch between native and ASCII rendering, 'q' to quit.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New(c.cfg, cmd.ErrOrStderr()).Run(cmd.Context(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.config/tnap/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.Theme, "theme", "t", "", "show the images of a theme directory")
	flags.StringVarP(&opts.PromptKey, "key", "k", "", "generate images from a prompt catalog entry")
	flags.StringVarP(&opts.Prompt, "prompt", "p", "", "generate images from this prompt")
	flags.BoolVarP(&opts.ASCII, "ascii", "a", false, "start in ASCII mode")
	flags.IntVarP(&opts.Count, "count", "n", 0, "number of images to generate (default from config)")
	flags.BoolVarP(&opts.Watch, "watch", "w", false, "add images dropped into the theme directory")
	rootCmd.MarkFlagsMutuallyExclusive("theme", "key", "prompt")

	rootCmd.AddCommand(newThemesCmd(c))
	rootCmd.AddCommand(newPromptsCmd(c))

	return rootCmd
}

// setup loads .env, the config file and the log file, in that order.
func (c *cli) setup() error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	var err error
	if c.cfgFile != "" {
		c.cfg, err = config.LoadConfigFile(c.cfgFile)
	} else {
		c.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	logOpts := []log.Option{log.WithFile(c.cfg.Logging.File), log.WithLevel(c.cfg.Logging.Level)}
	if c.cfg.Logging.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	if err := log.Configure(logOpts...); err != nil {
		return err
	}
	if c.debug {
		log.SetDebug(true)
	}
	log.Debugf("config loaded, themes=%s catalog=%s", c.cfg.Themes.Dir, c.cfg.Prompts.Catalog)
	return nil
}
