package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistsearch/internal/config"
	"github.com/thomiceli/gistsearch/internal/search"
	"github.com/thomiceli/gistsearch/internal/web/server"
	"github.com/urfave/cli/v2"
)

var CmdVersion = cli.Command{
	Name:  "version",
	Usage: "Print the version of Gistsearch",
	Action: func(ctx *cli.Context) error {
		_, _ = fmt.Fprintln(ctx.App.Writer, "Gistsearch "+config.GistsearchVersion)
		return nil
	},
}

var CmdStart = cli.Command{
	Name:  "start",
	Usage: "Start Gistsearch server",
	Action: func(ctx *cli.Context) error {
		_, _ = fmt.Fprintln(ctx.App.Writer, "Gistsearch "+config.GistsearchVersion)

		if err := Initialize(ctx); err != nil {
			return err
		}

		s := server.NewServer(os.Getenv("GS_DEV") == "1")
		go s.Start()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		s.Stop()
		return nil
	},
}

var CmdSearch = cli.Command{
	Name:      "search",
	Usage:     "Search the public gists of a Github user and print the matching ones as JSON",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "Github username whose gists are searched",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pattern",
			Aliases:  []string{"p"},
			Usage:    "Regular expression matched from the start of each gist content",
			Required: true,
		},
	},
	Action: func(ctx *cli.Context) error {
		if err := config.InitConfig(ctx.String("config"), ctx.App.ErrWriter); err != nil {
			return err
		}
		// stdout only carries the result
		config.C.LogOutput = stdoutToStderr(config.C.LogOutput)
		config.InitLog()

		sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req := search.Request{Username: ctx.String("username"), Pattern: ctx.String("pattern")}
		result, err := search.NewFromConfig().Search(log.Logger.WithContext(sigCtx), req)

		var validationErr *search.ValidationError
		var patternErr *search.InvalidPatternError
		switch {
		case errors.As(err, &validationErr), errors.As(err, &patternErr):
			return cli.Exit(err.Error(), 2)
		case err != nil:
			return err
		}

		enc := json.NewEncoder(ctx.App.Writer)
		enc.SetIndent("", "  ")
		if err = enc.Encode(result); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(ctx.App.ErrWriter, "%s of %s match %q\n",
			english.Plural(len(result.Matches), "gist", ""), result.Username, result.Pattern)
		return nil
	},
}

var ConfigFlag = cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to a config file in YAML format",
}

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "Gistsearch"
	app.Usage = "Search the public gists of a Github user with a regular expression."
	app.HelpName = "gistsearch"
	app.Version = config.GistsearchVersion
	app.HideVersion = true

	app.Commands = []*cli.Command{&CmdVersion, &CmdStart, &CmdSearch}
	app.DefaultCommand = CmdStart.Name
	app.Flags = []cli.Flag{
		&ConfigFlag,
	}
	return app
}

func App() error {
	return NewApp().Run(os.Args)
}

// stdoutToStderr moves the stdout entry of a log-output list to stderr, keeping the others.
func stdoutToStderr(logOutput string) string {
	outputs := strings.Split(logOutput, ",")
	for i, output := range outputs {
		if strings.TrimSpace(output) == "stdout" {
			outputs[i] = "stderr"
		}
	}
	return strings.Join(outputs, ",")
}

func Initialize(ctx *cli.Context) error {
	if err := config.InitConfig(ctx.String("config"), ctx.App.Writer); err != nil {
		return err
	}

	config.InitLog()

	log.Info().Msg("Github API: " + config.C.GithubApiUrl)
	if config.C.MetricsEnabled {
		log.Info().Msg("Metrics enabled on /metrics")
	}
	return nil
}
