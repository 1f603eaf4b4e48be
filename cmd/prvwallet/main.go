package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	version = "dev"

	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:    "datadir",
			Usage:   "the directory where the wallet state is stored",
			EnvVars: []string{"PRVWALLET_DATADIR"},
		},
		&cli.StringFlag{
			Name:    "accounts",
			Usage:   "the JSON file listing the wallet accounts",
			EnvVars: []string{"PRVWALLET_ACCOUNTS_FILE"},
		},
		&cli.StringFlag{
			Name:    "rpcserver",
			Usage:   "the fullnode seeded as default server if none is configured",
			EnvVars: []string{"PRVWALLET_RPC_SERVER"},
		},
	}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "prvwallet"
	app.Usage = "Command line interface to send and stake PRV"
	app.Flags = globalFlags
	app.Before = initConfig
	app.Commands = append(
		app.Commands,
		&balance,
		&send,
		&stake,
		&servers,
		&webhooks,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func printJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(buf))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[prvwallet] %v\n", err)
	}
	os.Exit(1)
}
