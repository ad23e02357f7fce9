package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	cfg, gtfsCfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	coreApp, err := BuildApplication(cfg, gtfsCfg)
	if err != nil {
		slog.Error("failed to build application", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(coreApp.Logger)

	srv, api := CreateServer(coreApp, cfg)
	if err := Run(srv, coreApp, api); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}
