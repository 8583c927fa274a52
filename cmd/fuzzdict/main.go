// Copyright 2025 The fuzzdict Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the fuzzy key-path lookup server and CLI [DBG] application.

fuzzdict resolves dotted key paths with typos, abbreviations, or near-matches
against a nested key-value document, returning the closest actual path and its
value. It can operate as a MessagePack IPC server for integration with other
tools, or as a CLI application for testing and debugging.

Queries are matched segment by segment against the live keys of the document
tree using similarity scoring with a configurable threshold. Exact paths
always win without any fuzzy scoring involved.

# Usage

Start the server over a TOML document:

	fuzzdict -data settings.toml

Use a custom threshold and enable debug mode:

	fuzzdict -data settings.toml -t 85 -d

Run in CLI mode for interactive testing:

	fuzzdict -data settings.toml -c

The data document may be TOML, JSON, or msgpack; the format is chosen by
file extension (.toml, .json, .msgpack/.bin).

# Configuration

Runtime configuration is managed through a TOML file that supports resolver
parameters, server limits, and CLI defaults:

	[resolver]
	threshold = 75
	separator = "."
	algorithm = "jaro-winkler"
	fuzzy_enabled = false

	[server]
	max_path_len = 256

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Lookup requests
are processed synchronously with microsecond timing information included in
responses.

Send a lookup request:

	{"id": "req1", "p": "persn.name", "t": 75}

Receive the matched path and value:

	{"id": "req1", "p": "persn.name", "m": "person.name", "v": "John Doe", "us": 120}

Admin requests allow runtime adjustment of the resolver:

	{"id": "adm1", "action": "tree_info"}
	{"id": "adm2", "action": "set_threshold", "threshold": 90}

# Server Mode

The default mode starts a MessagePack IPC server that processes lookup
requests from stdin and writes responses to stdout. This design enables
integration with editors and other applications through process
communication.

	srv := server.NewServer(d, appConfig, configPath)
	err := srv.Start()

The server handles request parsing, validation, and response formatting,
and persists runtime config changes back to the config file.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
resolution behavior. It reads query paths from stdin and displays the
matched path, similarity score, and value.

	inputHandler := cli.NewInputHandler(d, limit, showScores)
	err := inputHandler.Start()

# Command Line Flags

The following flags control application behavior:

	-data string
	    Document file to load (TOML/JSON/msgpack)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-t int
	    Similarity threshold (0-100, overrides config)
	-sep string
	    Path separator (overrides config)
	-fuzzy
	    Enable fuzzy routing for plain lookups
	-config string
	    Custom config file path
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/fuzzdict/fuzzdict/internal/cli"
	"github.com/fuzzdict/fuzzdict/internal/logger"
	"github.com/fuzzdict/fuzzdict/pkg/config"
	"github.com/fuzzdict/fuzzdict/pkg/dict"
	"github.com/fuzzdict/fuzzdict/pkg/keytree"
	"github.com/fuzzdict/fuzzdict/pkg/server"
)

const (
	Version = "0.1.0"
	AppName = "fuzzdict"
	gh      = "https://github.com/fuzzdict/fuzzdict"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataFile := flag.String("data", "", "Document file to load (TOML/JSON/msgpack)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	threshold := flag.Int("t", -1, "Similarity threshold (0-100, overrides config)")
	separator := flag.String("sep", "", "Path separator (overrides config)")
	fuzzyFlag := flag.Bool("fuzzy", false, "Enable fuzzy routing for plain lookups")
	configPathFlag := flag.String("config", "", "Custom config file path")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configPathFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", configPath)

	if *threshold >= 0 {
		appConfig.Resolver.Threshold = *threshold
	}
	if *separator != "" {
		appConfig.Resolver.Separator = *separator
	}
	if *fuzzyFlag {
		appConfig.Resolver.FuzzyEnabled = true
	}

	var tree *keytree.Tree
	if *dataFile != "" {
		tree, err = keytree.LoadFile(*dataFile, keytree.WithSeparator(appConfig.Resolver.Separator))
		if err != nil {
			log.Fatalf("Failed to load document: %v", err)
			os.Exit(1)
		}
		log.Debugf("Loaded document %s: %d paths", *dataFile, len(tree.Paths()))
	} else {
		log.Warn("No data document specified, running with an empty tree...")
		tree = keytree.New(map[string]any{}, keytree.WithSeparator(appConfig.Resolver.Separator))
	}

	d := dict.New(tree,
		dict.WithThreshold(appConfig.Resolver.Threshold),
		dict.WithAlgorithm(appConfig.Resolver.Algorithm),
		dict.WithFuzzyEnabled(appConfig.Resolver.FuzzyEnabled),
	)

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"threshold", d.Threshold(),
			"algorithm", d.Algorithm(),
			"separator", tree.Separator())

		inputHandler := cli.NewInputHandler(d, appConfig.CLI.DefaultLimit, appConfig.CLI.ShowScores)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(d, appConfig, configPath)

	showStartupInfo(*dataFile, d)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
	lg := logger.New("")

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	lg.SetStyles(styles)

	lg.Print("")
	lg.Print("[ fuzzdict ] Close-enough key paths, exact answers.")
	lg.Print("", "version", Version)
	lg.Print("")
	lg.Print("use -h or --help to see available options")
	lg.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataFile string, d *dict.Dict) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" fuzzdict ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data document: ( %s )", dataFile)
	log.Infof("threshold: [ %d ]", d.Threshold())
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
