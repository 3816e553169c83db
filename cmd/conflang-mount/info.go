package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/conflang/go-conflang/ir"
)

type InfoConfig struct {
	*MainConfig
	Info *cli.Command
}

func InfoCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InfoConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Info, "info").
		WithAliases("i").
		WithSynopsis("info <ext-data-file>").
		WithDescription("list the mount points declared in schema-mount operational data").
		WithRun(func(cc *cli.Context, args []string) error {
			return info(cfg, cc, args)
		})
}

func info(cfg *InfoConfig, cc *cli.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: info requires one argument, the extension data file", cli.ErrUsage)
	}
	doc, err := loadDocument(cc, args[0])
	if err != nil {
		return err
	}

	if cid := contentIDOf(doc); cid != "" {
		fmt.Fprintf(cc.Out, "content-id: %s\n", color.CyanString("%s", cid))
	} else {
		fmt.Fprintf(cc.Out, "content-id: %s\n", color.YellowString("missing"))
	}

	mps := doc.Lookup("schema-mounts", "mount-point")
	if mps == nil || len(mps.Values) == 0 {
		fmt.Fprintln(cc.Out, "no mount points")
		return nil
	}
	for _, e := range mps.Values {
		mode := "inline"
		if e.Field("shared-schema") != nil {
			mode = "shared"
		}
		access := "rw"
		if cfgLeaf := e.Field("config"); cfgLeaf != nil &&
			((cfgLeaf.Type == ir.BoolType && !cfgLeaf.Bool) || cfgLeaf.String == "false") {
			access = "ro"
		}
		fmt.Fprintf(cc.Out, "%s/%s: %s %s\n",
			e.FieldString("module"),
			color.GreenString("%s", e.FieldString("label")),
			mode, access)
		if refs := e.Lookup("shared-schema", "parent-reference"); refs != nil {
			for _, r := range refs.Values {
				fmt.Fprintf(cc.Out, "  parent-reference: %s\n", r.String)
			}
		}
	}
	return nil
}

func contentIDOf(doc *ir.Node) string {
	if n := doc.Lookup("module-library", "content-id"); n != nil {
		return n.String
	}
	if n := doc.Lookup("modules-state", "module-set-id"); n != nil {
		return n.String
	}
	return ""
}
