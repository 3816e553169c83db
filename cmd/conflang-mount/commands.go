package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/conflang/go-conflang/format"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/parse"
)

type MainConfig struct {
	Main *cli.Command
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	return cli.NewCommandAt(&cfg.Main, "conflang-mount").
		WithSynopsis("conflang-mount command [args]").
		WithDescription("conflang-mount inspects schema-mount operational data.").
		WithRun(func(cc *cli.Context, args []string) error {
			return mountMain(cfg, cc, args)
		}).
		WithSubs(
			InfoCommand(cfg),
			RefsCommand(cfg))
}

func mountMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// loadDocument reads a YAML or JSON document from a file path or stdin
// ("-"); the format is chosen by file extension.
func loadDocument(cc *cli.Context, arg string) (*ir.Node, error) {
	var rd io.Reader
	if arg == "-" {
		rd = cc.In
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rd = f
	}
	d, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	f := format.YAMLFormat
	if strings.HasSuffix(arg, ".json") {
		f = format.JSONFormat
	}
	doc, err := parse.Document(d, f)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return doc, nil
}
