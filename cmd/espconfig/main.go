package main

import (
	"flag"
	"os"

	"github.com/danmuck/espctl/internal/config"
	logs "github.com/danmuck/espctl/internal/logging"
)

func main() {
	output := flag.String("output", "config.toml", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	logs.ConfigureRuntime()
	if *validate {
		if _, err := config.Load(*input); err != nil {
			logs.Errf("espconfig validate failed path=%q err=%v", *input, err)
			os.Exit(1)
		}
		logs.Infof("espconfig validated path=%q", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		logs.Errf("espconfig write failed path=%q err=%v", *output, err)
		os.Exit(1)
	}
	logs.Infof("espconfig wrote template path=%q", *output)
}
