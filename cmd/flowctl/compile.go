// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/YamanAlBochi/forml/config"
	"github.com/YamanAlBochi/forml/graph"
	"github.com/YamanAlBochi/forml/operator"
	"github.com/YamanAlBochi/forml/render"
	"github.com/YamanAlBochi/forml/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var compileFormat string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a pipeline definition and print its node shape as JSON or Graphviz DOT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("flowctl: opening %s: %w", args[0], err)
		}
		defer f.Close()

		ps, err := config.Load(f)
		if err != nil {
			return fmt.Errorf("flowctl: loading %s: %w", args[0], err)
		}

		op, err := ps.Compose()
		if err != nil {
			return fmt.Errorf("flowctl: composing pipeline: %w", err)
		}

		s := graph.NewSession()
		compiled, err := operator.Lower(s, op)
		if err != nil {
			return fmt.Errorf("flowctl: lowering pipeline: %w", err)
		}

		slog.SetDefault(slog.New(telemetry.New(nil, otel.Meter("flowctl"), otel.Tracer("flowctl"), false)))

		switch compileFormat {
		case "dot":
			d := render.NewDot(args[0])
			if err := compiled.Apply.Accept(d); err != nil {
				return fmt.Errorf("flowctl: visiting apply graph: %w", err)
			}
			if compiled.Train != nil {
				if err := compiled.Train.Accept(d); err != nil {
					return fmt.Errorf("flowctl: visiting train graph: %w", err)
				}
			}
			if compiled.Label != nil {
				if err := compiled.Label.Accept(d); err != nil {
					return fmt.Errorf("flowctl: visiting label graph: %w", err)
				}
			}
			_, err := fmt.Fprint(os.Stdout, d.String())
			return err
		case "json", "":
			v := telemetry.NewVisitor(context.Background(), args[0])
			if err := compiled.Apply.Accept(v); err != nil {
				return fmt.Errorf("flowctl: visiting apply graph: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(v.Nodes())
		default:
			return fmt.Errorf("flowctl: unknown --format %q (want json or dot)", compileFormat)
		}
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileFormat, "format", "json", "output format: json or dot")
	rootCmd.AddCommand(compileCmd)
}
