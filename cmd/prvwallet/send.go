package main

import (
	"strconv"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var send = cli.Command{
	Name:  "send",
	Usage: "send PRV or a followed token to a payment address",
	Flags: []cli.Flag{
		accountFlag,
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the receiving payment address",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to send",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "the id of the token to send, PRV if omitted",
		},
		&cli.BoolFlag{
			Name:  "privacy",
			Usage: "send a privacy transaction",
		},
		feeFlag,
		yesFlag,
	},
	Action: sendAction,
}

func sendAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	listener := newCliListener()
	session, err := app.DraftService().OpenSend(
		ctx.Context, ctx.String("account"), listener,
	)
	if err != nil {
		return err
	}
	defer session.Close()

	edits := []struct {
		field domain.DraftField
		value string
	}{
		{domain.FieldToAddress, ctx.String("to")},
		{domain.FieldAmount, ctx.String("amount")},
		{domain.FieldTokenID, ctx.String("token")},
		{domain.FieldPrivacy, strconv.FormatBool(ctx.Bool("privacy"))},
	}
	for _, e := range edits {
		if err := session.Edit(e.field, e.value); err != nil {
			return err
		}
	}

	return confirmAndSubmit(ctx, session, listener)
}
