// Package cli implements the paysphere command line: stateless scoring, a
// replay of the staged demo on a virtual clock and the FAQ assistant.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/config"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/observability"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs to stderr",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}

	riskTableFlag = &urfave.StringFlag{
		Name:    "risk-table",
		Usage:   "YAML file overriding the jurisdiction table",
		Sources: urfave.EnvVars("RISK_TABLE_FILE"),
	}

	seedFlag = &urfave.Uint64Flag{
		Name:  "seed",
		Usage: "Random seed for processing times and chat replies (0 = time based)",
	}
)

// Execute runs the CLI with the process arguments.
func Execute() {
	if err := NewApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds state resolved by the root command's Before hook.
type app struct {
	out    io.Writer
	format string
	seed   uint64
	scorer *service.RiskScorer
	logger *slog.Logger
}

// NewApp builds the root command writing results to out and logs to errOut.
func NewApp(out, errOut io.Writer) *urfave.Command {
	a := &app{out: out}
	return &urfave.Command{
		Name:      "paysphere",
		Version:   fmt.Sprintf("%s (%s)", version, commit),
		Usage:     "Score payments and replay the PaySphere fraud demo",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []urfave.Flag{
			debugFlag,
			formatFlag,
			riskTableFlag,
			seedFlag,
		},
		Commands: []*urfave.Command{
			a.scoreCmd(),
			a.replayCmd(),
			a.chatCmd(),
			a.jurisdictionsCmd(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			level := "warn"
			if cmd.Bool(debugFlag.Name) {
				level = "debug"
			}
			a.logger = observability.InitLogger(observability.LogConfig{Level: level, Format: "text", Output: errOut})

			switch f := cmd.String(formatFlag.Name); f {
			case formatJSON:
				a.format = formatJSON
			case formatYAML, "yml":
				a.format = formatYAML
			default:
				return ctx, fmt.Errorf("unsupported format %q", f)
			}

			table, err := config.LoadRiskTable(cmd.String(riskTableFlag.Name))
			if err != nil {
				return ctx, err
			}
			a.scorer = service.NewRiskScorer(service.WithJurisdictions(table))
			a.seed = cmd.Uint64(seedFlag.Name)
			return ctx, nil
		},
	}
}

func (a *app) encode(v any) error {
	if a.format == formatYAML {
		enc := yaml.NewEncoder(a.out)
		defer enc.Close()
		return enc.Encode(v)
	}
	e := json.NewEncoder(a.out)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
