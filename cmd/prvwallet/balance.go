package main

import (
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:  "balance",
	Usage: "show the balance of an account, or of all accounts",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "account",
			Usage: "the name of the account, all accounts are refreshed if omitted",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "the id of a followed token, PRV if omitted",
		},
	},
	Action: balanceAction,
}

type balanceInfo struct {
	Account string `json:"account"`
	Token   string `json:"token"`
	Amount  string `json:"amount"`
}

func balanceAction(ctx *cli.Context) error {
	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := app.BalanceService()
	accountName := ctx.String("account")

	var entries []domain.BalanceEntry
	if accountName == "" {
		if entries, err = svc.RefreshAll(ctx.Context); err != nil {
			return err
		}
	} else {
		entry, err := svc.GetAccountBalance(ctx.Context, accountName, ctx.String("token"))
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	info := make([]balanceInfo, 0, len(entries))
	for _, e := range entries {
		token := e.TokenID
		if e.Key().IsNative() {
			token = "PRV"
		}
		info = append(info, balanceInfo{
			Account: e.AccountName,
			Token:   token,
			Amount:  domain.FromNano(e.Amount).String(),
		})
	}
	printJSON(info)
	return nil
}
