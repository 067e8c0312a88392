package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/y00281951/fst-time-nlu-sub002/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolve API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "address of server")
	serveCmd.Flags().Int("port", 8081, "port of server")
	serveCmd.Flags().Int("batch-concurrency", 8, "requests of a batch resolved at once")
	serveCmd.Flags().Float64("rate-limit", 10, "requests per second per client, 0 disables limiting")
	serveCmd.Flags().Int("rate-burst", 20, "request burst per client")

	for _, name := range []string{"addr", "port", "batch-concurrency", "rate-limit", "rate-burst"} {
		if err := viper.BindPFlag(name, serveCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, p)
	if err != nil {
		return err
	}
	return server.NewServer(p, svc).Start(ctx)
}
