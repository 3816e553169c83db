package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/pathref"
)

type RefsConfig struct {
	*MainConfig
	Refs *cli.Command
}

func RefsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RefsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Refs, "refs").
		WithAliases("r").
		WithSynopsis("refs <path-expression> <host-doc-file>").
		WithDescription("evaluate a parent-reference expression against a host document").
		WithRun(func(cc *cli.Context, args []string) error {
			return refs(cfg, cc, args)
		})
}

func refs(cfg *RefsConfig, cc *cli.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: refs requires a path expression and a document file", cli.ErrUsage)
	}
	expr, file := args[0], args[1]
	doc, err := loadDocument(cc, file)
	if err != nil {
		return err
	}
	matches, err := pathref.Evaluator{}.Eval(expr, doc)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(cc.Out, color.YellowString("no matches"))
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(cc.Out, "%s: %s\n", color.GreenString("%s", m.Path()), describe(m))
	}
	return nil
}

func describe(n *ir.Node) string {
	switch n.Type {
	case ir.ObjectType:
		return fmt.Sprintf("object with %d field(s)", len(n.Values))
	case ir.ArrayType:
		return fmt.Sprintf("array with %d element(s)", len(n.Values))
	case ir.StringType:
		return fmt.Sprintf("%q", n.String)
	case ir.BoolType:
		return fmt.Sprintf("%v", n.Bool)
	case ir.NumberType:
		return n.Number
	default:
		return "null"
	}
}
