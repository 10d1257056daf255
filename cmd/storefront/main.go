// cmd/storefront/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/interfaces/cli"
	"github.com/your-org/grocery-storefront/internal/pkg/logger"
)

func main() {
	root := cli.NewRootCommand(func(opts app.Options) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}

		logr := logger.New(cfg)
		// command output shares the terminal; keep routine logs out of it
		if _, set := os.LookupEnv("LOG_LEVEL"); !set {
			logr.SetLevel(logrus.WarnLevel)
		}

		return app.New(cfg, logr, opts)
	})

	if err := root.Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// flag and argument errors from cobra itself
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
