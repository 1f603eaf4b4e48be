package main

import (
	"fmt"

	"github.com/prvwallet/prvwallet/internal/config"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var stake = cli.Command{
	Name:  "stake",
	Usage: "stake PRV to run a shard or a beacon validator",
	Flags: []cli.Flag{
		accountFlag,
		&cli.StringFlag{
			Name:  "tier",
			Usage: "the validator tier: shard or beacon",
			Value: domain.TierShard.String(),
		},
		&cli.BoolFlag{
			Name:  "no-auto-restake",
			Usage: "don't stake again automatically once unstaked",
		},
		&cli.StringFlag{
			Name:  "candidate",
			Usage: "the payment address of the candidate, the account's if omitted",
		},
		&cli.StringFlag{
			Name:  "reward-receiver",
			Usage: "the payment address receiving the rewards, the account's if omitted",
		},
		feeFlag,
		yesFlag,
	},
	Action: stakeAction,
}

func stakeAction(ctx *cli.Context) error {
	if config.GetString(config.BurnAddressKey) == "" {
		return fmt.Errorf(
			"missing burn address, set PRVWALLET_%s", config.BurnAddressKey,
		)
	}

	app, cleanup, err := newApp(ctx.Context)
	if err != nil {
		return err
	}
	defer cleanup()

	listener := newCliListener()
	session, err := app.DraftService().OpenStake(
		ctx.Context, ctx.String("account"), listener,
	)
	if err != nil {
		return err
	}
	defer session.Close()

	if _, err := domain.ParseStakeTier(ctx.String("tier")); err != nil {
		return err
	}
	if err := session.Edit(domain.FieldStakeTier, ctx.String("tier")); err != nil {
		return err
	}
	if ctx.Bool("no-auto-restake") {
		if err := session.Edit(domain.FieldAutoReStaking, "false"); err != nil {
			return err
		}
	}
	if addr := ctx.String("candidate"); addr != "" {
		if err := session.Edit(domain.FieldCandidatePaymentAddress, addr); err != nil {
			return err
		}
	}
	if addr := ctx.String("reward-receiver"); addr != "" {
		if err := session.Edit(domain.FieldRewardReceiverPaymentAddress, addr); err != nil {
			return err
		}
	}

	return confirmAndSubmit(ctx, session, listener)
}
