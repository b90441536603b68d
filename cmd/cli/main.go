package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/buildinfo"
	"github.com/dmitrijs2005/gophchat/internal/client/cli"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", r)
			os.Exit(2)
		}
	}()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
