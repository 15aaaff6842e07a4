// Copyright 2025 Kosdata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/kosdata/tarik"
	"github.com/kosdata/tarik/core"
	"github.com/kosdata/tarik/dataset"
	"github.com/kosdata/tarik/query"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "tarik",
		Usage: "Embedded search over the customs tariff dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./tarik_db",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Load a tariff dataset JSON file into the store",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the dataset JSON file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Reload even when the store already holds data",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search by code prefix and/or description text",
				ArgsUsage: "[text query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "code",
						Aliases: []string{"c"},
						Usage:   "Code prefix filter",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum rows to return",
						Value: query.DefaultItemLimit,
					},
					&cli.BoolFlag{
						Name:  "tree",
						Usage: "Render results as an indented tree",
					},
				},
			},
			{
				Name:   "dump",
				Usage:  "Print every record as a tree",
				Action: dumpCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show record count and dataset generation",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openService(c *cli.Context) (*tarik.Service, error) {
	svc, err := tarik.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return svc, nil
}

func loadCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	loaded, err := svc.Initialize(ctx, dataset.FileSource(c.String("file")), tarik.InitOptions{
		Force: c.Bool("force"),
		OnProgress: func(phase tarik.Phase, loaded, total int, message string) {
			fmt.Fprintf(os.Stderr, "[%s] %d/%d %s\n", phase, loaded, total, message)
		},
	})
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	if !loaded {
		fmt.Fprintln(os.Stderr, "store already holds data; use --force to reload")
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	textQuery := strings.Join(c.Args().Slice(), " ")
	rows := svc.SearchByFields(ctx, c.String("code"), textQuery, &query.Limits{
		ItemLimit: c.Int("limit"),
	})

	if c.Bool("tree") {
		for _, root := range svc.BuildTreeFromList(rows) {
			printNode(root, 0)
		}
		return nil
	}

	fmt.Printf("Found %d rows\n", len(rows))
	for _, row := range rows {
		description := row.Record.Description
		if row.Highlighted != "" {
			description = row.Highlighted
		}
		fmt.Printf("%-12s %s\n", row.Record.Code, description)
	}
	return nil
}

func printNode(node *core.Node, depth int) {
	fmt.Printf("%s%s %s\n", strings.Repeat("  ", depth), node.Record.Code, node.Record.Description)
	for _, child := range node.SubRows {
		printNode(child, depth+1)
	}
}

func dumpCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	// The snapshot is uncapped, unlike the default query limits.
	snapshot, err := svc.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}
	for _, root := range svc.BuildTreeFromList(core.RowsFromRecords(snapshot.Records)) {
		printNode(root, 0)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	snapshot, err := svc.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}
	fmt.Printf("Records:    %d\n", len(snapshot.Records))
	fmt.Printf("Roots:      %d\n", len(snapshot.RootOrder))
	fmt.Printf("Generation: %d\n", uint64(snapshot.Generation))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
