// Command menu-proxy serves assembled shop menus from the upstream menu API
// through a Redis cache.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/menu-proxy/internal/app"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, app.New))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, build Builder) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gin.SetMode(gin.ReleaseMode)

	cmd := newRootCmd(build)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("menu-proxy failed")
		return 1
	}
	return 0
}
