package main

import (
	"log/slog"
	"os"

	"github.com/RealZimboGuy/newsflow/pkg/newsflow"
)

func main() {
	newsflow.SetupLogger()

	if err := newsflow.Start(nil); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
