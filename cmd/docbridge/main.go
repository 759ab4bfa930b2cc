// Command docbridge migrates standup notes from Google Drive into ClickUp Docs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/docbridge/internal/adapters/driving/cli"
	"github.com/custodia-labs/docbridge/internal/bootstrap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetContainerFactory(func(configPath string) (cli.Container, error) {
		c, err := bootstrap.New(bootstrap.Options{ConfigPath: configPath})
		if err != nil {
			return nil, err
		}
		return c, nil
	})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
