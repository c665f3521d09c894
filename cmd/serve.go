package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aptitude-lab/modelscore/internal/api"
	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve single-student scoring over HTTP",
	RunE:  runServe,
}

func init() {
	addCatalogFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from MODELSCORE_ADDR, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Addr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}

	cat, _, err := loadCatalog(cmd, diag.NewCollector(cmd.ErrOrStderr()))
	if err != nil {
		if cat == nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: catalog: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(addr, api.NewHandler(cat))
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "serving %s (%d questions) on %s\n", cat.Name, cat.Len(), addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
