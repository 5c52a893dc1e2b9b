package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/tmplsync/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the tmplsync merge engine.

Endpoints:
  GET  /health        health check
  POST /api/hunks     diff one file into hunks
  POST /api/resolve   merge one file from per-hunk answers
  GET  /api/ws        WebSocket for interactive merge sessions`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, api.WithLogger(logger))
	return srv.ListenAndServe()
}
