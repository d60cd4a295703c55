package main

import (
	"fmt"
	"os"

	"simple-media-downloader/internal/cli"
	"simple-media-downloader/internal/ytdlp"
)

func main() {
	if err := ytdlp.CheckDependencies(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := cli.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
