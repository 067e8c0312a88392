package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one request read from a file or stdin",
	Long: `Reads a request {"base": "...", "tokens": [...]} or a bare token array and prints
the rendered results as JSON.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("base", "", "base instant, overrides the request's base (default now)")
	resolveCmd.Flags().StringP("file", "f", "", "request file (default stdin)")
	resolveCmd.Flags().Bool("pretty", false, "indent the output")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	svc, err := newService(ctx, p)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("file")
	var in io.Reader = cmd.InOrStdin()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", path)
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "failed to read request")
	}
	req, err := timenlu.DecodeRequest(data)
	if err != nil {
		return errors.Wrap(err, "malformed request")
	}
	if base, _ := cmd.Flags().GetString("base"); base != "" {
		req.Base = base
	}

	resp, err := svc.Resolve(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
