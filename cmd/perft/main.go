// Command perft prints move-tree counts for a position.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"github.com/benbeisheim/legalchess-backend/internal/notation"
	"github.com/benbeisheim/legalchess-backend/internal/perft"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	fen := flag.String("fen", notation.InitialFEN, "position to count from")
	depth := flag.Int("depth", 4, "plies to search")
	divide := flag.Bool("divide", false, "print the count below each root move")
	workers := flag.Int("workers", 0, "parallel root workers, 0 for one per CPU")
	flag.Parse()

	g, err := notation.ParseFEN(*fen)
	if err != nil {
		log.WithError(err).Fatal("parse fen")
	}

	start := time.Now()
	splits, err := perft.Divide(context.Background(), g, *depth, *workers)
	if err != nil {
		log.WithError(err).Fatal("perft")
	}
	elapsed := time.Since(start)

	if *divide {
		for _, s := range splits {
			fmt.Printf("%s: %d\n", s.UCI, s.Stats.Nodes)
		}
		fmt.Println()
	}

	total := perft.Total(splits)
	fmt.Printf("nodes      %d\n", total.Nodes)
	fmt.Printf("captures   %d\n", total.Captures)
	fmt.Printf("en passant %d\n", total.EnPassant)
	fmt.Printf("castles    %d\n", total.Castles)
	fmt.Printf("promotions %d\n", total.Promotions)
	log.WithFields(log.Fields{
		"depth":   *depth,
		"elapsed": elapsed.String(),
		"nps":     int64(float64(total.Nodes) / elapsed.Seconds()),
	}).Info("done")
}
