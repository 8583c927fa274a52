// Package cli handles cmd line input and lookups for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fuzzdict/fuzzdict/internal/logger"
	"github.com/fuzzdict/fuzzdict/pkg/dict"
	"github.com/fuzzdict/fuzzdict/pkg/resolve"
)

// InputHandler processes query paths from stdin, resolving each one
// against the loaded tree. It accepts flags to control behavior such as
// the listing limit and whether similarity scores are shown.
type InputHandler struct {
	dict         *dict.Dict
	log          *log.Logger
	listLimit    int
	showScores   bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(d *dict.Dict, listLimit int, showScores bool) *InputHandler {
	return &InputHandler{
		dict:       d,
		log:        logger.NewWithConfig("", log.GetLevel(), false, false, log.TextFormatter),
		listLimit:  listLimit,
		showScores: showScores,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.log.Print("fuzzdict CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a key path and press Enter to resolve it (Ctrl+C to exit)")
	h.log.Print("prefix a line with 'ls ' to list paths under a prefix")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes a single line: either a path listing command or a
// query path to resolve. Results are formatted and printed to the log.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if prefix, ok := strings.CutPrefix(line, "ls "); ok {
		h.listPaths(strings.TrimSpace(prefix))
		return
	}

	start := time.Now()
	matched, err := h.dict.ResolvePath(line)
	elapsed := time.Since(start)

	if err != nil {
		if resolve.IsInvalidQuery(err) {
			h.log.Errorf("Invalid query: %s", line)
			return
		}
		h.log.Warnf("No match at or above threshold %d for: '%s'", h.dict.Threshold(), line)
		return
	}

	value, err := h.dict.Tree().Get(matched)
	if err != nil {
		h.log.Errorf("Resolved path vanished from tree: %v", err)
		return
	}

	h.log.Debugf("Took [ %v ] for query '%s'", elapsed, line)

	clPath := fmt.Sprintf("\033[38;5;75m%s\033[0m", matched)
	if h.showScores {
		h.log.Printf("%s  (score: %3d)  = %v", clPath, h.matchScore(line, matched), value)
	} else {
		h.log.Printf("%s = %v", clPath, value)
	}
}

// matchScore reports the overall similarity between the raw query and the
// path it resolved to, for display only.
func (h *InputHandler) matchScore(query, matched string) int {
	scorer := h.dict.Scorer()
	return scorer.Score(query, matched)
}

// listPaths prints up to listLimit paths under prefix.
func (h *InputHandler) listPaths(prefix string) {
	paths := h.dict.Tree().PathsWithPrefix(prefix)
	if len(paths) == 0 {
		h.log.Warnf("No paths under prefix '%s'", prefix)
		return
	}

	shown := paths
	if h.listLimit > 0 && len(shown) > h.listLimit {
		shown = shown[:h.listLimit]
	}
	h.log.Printf("Found %d paths under '%s':", len(paths), prefix)
	for i, p := range shown {
		h.log.Printf("%2d. %s", i+1, p)
	}
	if len(shown) < len(paths) {
		h.log.Printf("... and %d more", len(paths)-len(shown))
	}
}
