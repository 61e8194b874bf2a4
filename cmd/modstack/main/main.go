package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modstack/cmd/modstack"
	"github.com/arthur-debert/modstack/pkg/style"
)

func main() {
	rootCmd := modstack.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		msg := fmt.Sprintf("Error: %v", err)
		if style.IsTerminal(os.Stderr) {
			msg = style.ErrorStyle.Render(msg)
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
}
