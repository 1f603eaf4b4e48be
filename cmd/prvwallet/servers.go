package main

import (
	"github.com/urfave/cli/v2"
)

var (
	servers = cli.Command{
		Name:  "servers",
		Usage: "list, add, remove fullnodes or select the default one",
		Subcommands: []*cli.Command{
			serversListCmd, serversAddCmd, serversRemoveCmd, serversDefaultCmd,
		},
	}

	serverAddressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "the url of the fullnode",
		Required: true,
	}

	serversListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list all fullnodes",
		Action: listServersAction,
	}
	serversAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a fullnode to the list",
		Flags: []cli.Flag{
			serverAddressFlag,
			&cli.StringFlag{
				Name:  "username",
				Usage: "the optional basic auth username",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "the optional basic auth password",
			},
		},
		Action: addServerAction,
	}
	serversRemoveCmd = &cli.Command{
		Name:   "remove",
		Usage:  "remove a fullnode, the default one can't be removed",
		Flags:  []cli.Flag{serverAddressFlag},
		Action: removeServerAction,
	}
	serversDefaultCmd = &cli.Command{
		Name:   "default",
		Usage:  "select the default fullnode",
		Flags:  []cli.Flag{serverAddressFlag},
		Action: setDefaultServerAction,
	}
)

type serverInfo struct {
	Address string `json:"address"`
	Secured bool   `json:"secured"`
	Default bool   `json:"default"`
}

func listServersAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := app.ServerService().ListServers(ctx.Context)
	if err != nil {
		return err
	}

	info := make([]serverInfo, 0, len(list))
	for _, s := range list {
		info = append(info, serverInfo{
			Address: s.Address,
			Secured: s.Username != "" || s.Password != "",
			Default: s.Default,
		})
	}
	printJSON(info)
	return nil
}

func addServerAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	server, err := app.ServerService().AddServer(
		ctx.Context, ctx.String("address"),
		ctx.String("username"), ctx.String("password"),
	)
	if err != nil {
		return err
	}
	printJSON(serverInfo{Address: server.Address})
	return nil
}

func removeServerAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	return app.ServerService().RemoveServer(ctx.Context, ctx.String("address"))
}

func setDefaultServerAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	return app.ServerService().SetDefaultServer(ctx.Context, ctx.String("address"))
}
