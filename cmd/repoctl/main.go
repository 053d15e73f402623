/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command repoctl inspects dynamorepo configuration and tables.
//
//	repoctl -version
//	repoctl -config dynamorepo.yaml -check
//	repoctl -config dynamorepo.yaml -count Orders
//
// Without -config the configuration is read from .env and the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/suparena/dynamorepo"
	"github.com/suparena/dynamorepo/config"
	"github.com/suparena/dynamorepo/datastore/ddb"
	"github.com/suparena/dynamorepo/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "repoctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("repoctl", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		versionFlag = fs.Bool("version", false, "Show version information")
		vFlag       = fs.Bool("v", false, "Show version information (short)")
		configPath  = fs.String("config", "", "YAML configuration file (default: .env and environment)")
		check       = fs.Bool("check", false, "Validate the configuration and print it")
		countTable  = fs.String("count", "", "Count the items of a table with a COUNT scan")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *versionFlag || *vFlag {
		info := dynamorepo.GetVersionInfo()
		fmt.Fprintf(out, "repoctl version %s\n", info.Version)
		fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
		fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		return nil
	}
	if !*check && *countTable == "" {
		fs.Usage()
		return flag.ErrHelp
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if *check {
		if err := printConfig(out, cfg); err != nil {
			return err
		}
	}
	if *countTable != "" {
		return count(ctx, out, cfg, *countTable, logger)
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}

// printConfig writes the effective configuration with credentials masked.
func printConfig(out io.Writer, cfg config.Config) error {
	redacted := cfg
	for _, s := range []*string{&redacted.AWS.AccessKeyID, &redacted.AWS.SecretAccessKey, &redacted.AWS.SessionToken} {
		if *s != "" {
			*s = "********"
		}
	}
	fmt.Fprintln(out, "# configuration is valid")
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(redacted); err != nil {
		return fmt.Errorf("failed to print configuration: %w", err)
	}
	return enc.Close()
}

func count(ctx context.Context, out io.Writer, cfg config.Config, table string, logger *zap.Logger) error {
	client, err := ddb.NewDynamoDBClient(ctx, cfg.AWS)
	if err != nil {
		return err
	}
	logger.Debug("counting table", zap.String("table", table), zap.String("region", cfg.AWS.Region))
	n, err := ddb.CountTable(ctx, client, table)
	if err != nil {
		return fmt.Errorf("count %s: %w", table, err)
	}
	fmt.Fprintf(out, "%s\t%d\n", table, n)
	return nil
}
