package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/de-tools/statreport/pkg/app"
	"github.com/de-tools/statreport/pkg/runtime/terminal"
	"github.com/de-tools/statreport/pkg/runtime/terminal/commands"
	"github.com/de-tools/statreport/pkg/services/config"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cli := terminal.NewCLI(terminal.Options{
		Connect: connect,
		Output:  os.Stdout,
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context, cfgPath string) (*commands.Services, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	level, _ := cfg.Log.ZerologLevel()
	logger := zerolog.Ctx(ctx).Level(level)
	ctx = logger.WithContext(ctx)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &commands.Services{
		Stats:     a.Stats,
		Documents: a.Documents,
		Importer:  a.Importer,
		Close:     a.Close,
	}, nil
}
