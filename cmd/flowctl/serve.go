// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/YamanAlBochi/forml/config"
	"github.com/YamanAlBochi/forml/graph"
	"github.com/YamanAlBochi/forml/operator"
	"github.com/YamanAlBochi/forml/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

const (
	portKey        = "flowctl.port"
	gracePeriodKey = "flowctl.grace_period"
	pipelineKey    = "flowctl.pipeline"
)

// serveCmd hosts /health and a /nodes websocket that streams one message
// per node as the configured pipeline's apply graph is visited, following
// the teacher's fiber.App-per-process Pipe.Run shape.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a compiled pipeline's node stream over HTTP, reading $HOME/.flowctl.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelinePath := viper.GetString(pipelineKey)
		if pipelinePath == "" {
			return fmt.Errorf("flowctl: no %s configured", pipelineKey)
		}

		f, err := os.Open(pipelinePath)
		if err != nil {
			return fmt.Errorf("flowctl: opening %s: %w", pipelinePath, err)
		}
		ps, err := config.Load(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("flowctl: loading %s: %w", pipelinePath, err)
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

		id := uuid.NewString()
		slog.SetDefault(slog.New(telemetry.New(nil, otel.Meter("flowctl"), otel.Tracer("flowctl"), false)))

		app := fiber.New()

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(map[string]interface{}{"pipe_id": id})
		})

		app.Get("/nodes", websocket.New(func(c *websocket.Conn) {
			v := telemetry.NewVisitor(context.Background(), pipelinePath)
			if err := compiled.Apply.Accept(v); err != nil {
				c.WriteJSON(map[string]string{"error": err.Error()})
				return
			}
			for _, n := range v.Nodes() {
				if err := c.WriteJSON(n); err != nil {
					return
				}
			}
		}))

		port := viper.GetInt(portKey)
		gracePeriod := viper.GetInt64(gracePeriodKey)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)

		go func() {
			<-quit
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(gracePeriod)*time.Second)
			defer cancel()
			_ = app.ShutdownWithContext(ctx)
		}()

		return app.Listen(":" + strconv.Itoa(port))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
