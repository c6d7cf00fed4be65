package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/itcaat/olxsearch/internal/cli"
	"github.com/itcaat/olxsearch/internal/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "olxsearch: %v\n", err)
	if errors.Is(err, models.ErrValidation) {
		os.Exit(2)
	}
	os.Exit(1)
}
