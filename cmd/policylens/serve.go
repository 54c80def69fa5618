package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	plhttp "github.com/fwojciec/policylens/http"
)

// shutdownTimeout bounds draining in-flight requests.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It returns when the context is done.
func (c *ServeCmd) Run(deps *Dependencies) error {
	mux := http.NewServeMux()
	plhttp.NewAnalysisHandler(deps.Generator, deps.Logger).Register(mux)

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	fmt.Fprintf(deps.Stdout, "Serving POST /analyze on %s\n", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-deps.Ctx.Done():
	case <-deps.Interrupt:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
