package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.lsp.dev/jsonrpc2"

	"github.com/tsg-lang/tsg/internal/lspserver"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the tsg language server over stdio",
	Long: `Starts a jsonrpc2 connection over stdin/stdout and serves
textDocument/didOpen and textDocument/didChange by re-checking the
document and publishing diagnostics.`,
	RunE: runLSP,
}

func init() {
	rootCmd.AddCommand(lspCmd)
}

func runLSP(*cobra.Command, []string) error {
	server := lspserver.NewServer()

	stream := jsonrpc2.NewStream(&stdioRWC{in: os.Stdin, out: os.Stdout})
	conn := jsonrpc2.NewConn(stream)
	server.SetConn(conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.Go(ctx, server.Handler())
	<-conn.Done()
	return nil
}

// stdioRWC wraps stdin/stdout as the io.ReadWriteCloser
// jsonrpc2.NewStream wants.
type stdioRWC struct {
	in  *os.File
	out *os.File
}

func (s *stdioRWC) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *stdioRWC) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *stdioRWC) Close() error                { return nil }

var _ io.ReadWriteCloser = (*stdioRWC)(nil)
