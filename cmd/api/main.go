package main

import (
	"context"
	"log"

	"github.com/komsyte/pos-engine/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("engine API exited: %v", err)
	}
}
