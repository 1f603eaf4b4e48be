package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	webhooks = cli.Command{
		Name:  "webhooks",
		Usage: "add, list or remove webhooks notified about submitted transactions",
		Subcommands: []*cli.Command{
			webhooksAddCmd, webhooksListCmd, webhooksRemoveCmd,
		},
	}

	webhooksAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a (secured) webhook endpoint called whenever the target event occurs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "endpoint",
				Usage:    "the webhook endpoint to be called whenever the target event occurs",
				Required: true,
			},
			&cli.StringFlag{
				Name: "secret",
				Usage: "the eventual secret to use to generate a JWT for " +
					"authenticating requests to the webhook endpoint",
			},
			&cli.StringFlag{
				Name:  "event",
				Usage: "the target event: submitted, failed or any",
				Value: "any",
			},
		},
		Action: addWebhookAction,
	}
	webhooksListCmd = &cli.Command{
		Name:  "list",
		Usage: "list all webhooks, optionally filtered by target event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "event",
				Usage: "the target event: submitted, failed or any",
			},
		},
		Action: listWebhooksAction,
	}
	webhooksRemoveCmd = &cli.Command{
		Name:  "remove",
		Usage: "remove a webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "the id of the webhook to remove",
				Required: true,
			},
		},
		Action: removeWebhookAction,
	}
)

func addWebhookAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := app.PubSubService().AddWebhook(
		ctx.Context, ctx.String("event"), ctx.String("endpoint"),
		ctx.String("secret"),
	)
	if err != nil {
		return err
	}
	printJSON(map[string]string{"id": id})
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	hooks, err := app.PubSubService().ListWebhooks(ctx.Context, ctx.String("event"))
	if err != nil {
		return err
	}
	printJSON(hooks)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	id := ctx.String("id")
	if err := app.PubSubService().RemoveWebhook(ctx.Context, id); err != nil {
		return err
	}
	fmt.Printf("webhook %s removed\n", id)
	return nil
}
