package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/visitas/internal/sample"
	"github.com/okian/visitas/pkg/logger"
)

func main() {
	def := sample.Defaults()
	var (
		out     = flag.String("out", def.Path, "Output workbook path")
		sheet   = flag.String("sheet", def.Sheet, "Worksheet name")
		rows    = flag.Int("rows", def.Rows, "Number of visit rows to generate")
		invalid = flag.Int("invalid-every", def.InvalidEvery, "Replace every n-th row with an invalid one (0 disables)")
		centers = flag.Int("centers", def.Centers, "Number of distinct centers")
		seed    = flag.Uint64("seed", def.Seed, "Random seed")
		from    = flag.String("from", def.From.Format(time.DateOnly), "First visit date (YYYY-MM-DD)")
		to      = flag.String("to", def.To.Format(time.DateOnly), "Last visit date (YYYY-MM-DD)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fromT, err := time.Parse(time.DateOnly, *from)
	if err != nil {
		log.Fatal(ctx, "invalid -from date", logger.Error(err))
	}
	toT, err := time.Parse(time.DateOnly, *to)
	if err != nil {
		log.Fatal(ctx, "invalid -to date", logger.Error(err))
	}

	cfg := sample.Config{
		Path:         *out,
		Sheet:        *sheet,
		Rows:         *rows,
		InvalidEvery: *invalid,
		Centers:      *centers,
		Seed:         *seed,
		From:         fromT,
		To:           toT,
	}
	if _, err := sample.Generate(ctx, cfg); err != nil {
		log.Fatal(ctx, "failed to generate sample workbook", logger.Error(err))
	}
}
