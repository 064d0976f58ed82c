package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/web/server"
)

// ServeScenes runs the web server until interrupted.
func ServeScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	port := ctx.Int("port")
	if port < 0 || port > 65535 {
		err := fmt.Errorf("port %d: %w", port, ErrInvalidPort)
		logger.Error(err)
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Noticef("visit http://localhost:%d to render scenes", port)
	if err := server.NewServer(port, ctx.String("static")).Start(sigCtx); err != nil {
		logger.Error(err)
		return err
	}
	return nil
}
