// Package main runs ground-state uniqueness checks over configured
// scenarios and records the resulting proofs.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	provercmd "github.com/groundstate/hktheorem/internal/cmd/prover"
	"github.com/groundstate/hktheorem/internal/platform/config"
)

func main() {
	cfg, err := provercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[PROVER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := provercmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to run: %v", err)
	}
}
