// Command poem2csv turns a text read on stdin into a deck for learning it by
// heart: each paragraph becomes the back of a card whose front is the
// paragraph before it.
package main

import (
	"bufio"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/conorfennell/leitnerbox/internal/parser"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("read-stdin-failed")
	}
	out := bufio.NewWriter(os.Stdout)
	if err := parser.WriteCSV(out, parser.Poem(string(text))); err != nil {
		log.Fatal().Err(err).Msg("write-csv-failed")
	}
	if err := out.Flush(); err != nil {
		log.Fatal().Err(err).Msg("write-csv-failed")
	}
}
