package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prvwallet/prvwallet/internal/config"
	"github.com/prvwallet/prvwallet/internal/core/application/draft"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var errEstimationFailed = errors.New("fee estimation failed, set the fee with --fee")

var (
	feeFlag = &cli.StringFlag{
		Name:  "fee",
		Usage: "the fee in PRV, overrides the estimated one",
	}
	yesFlag = &cli.BoolFlag{
		Name:  "yes",
		Usage: "submit without asking for confirmation",
	}
	accountFlag = &cli.StringFlag{
		Name:     "account",
		Usage:    "the name of the sending account",
		Required: true,
	}
)

// cliListener prints warnings and fee updates, and wakes up whoever is
// waiting for an estimation to settle.
type cliListener struct {
	events chan error
}

func newCliListener() *cliListener {
	return &cliListener{make(chan error, 16)}
}

func (l *cliListener) OnEstimationStateChange(state domain.EstimationState) {
	if state == domain.EstimationFailed {
		l.signal(errEstimationFailed)
	}
}

func (l *cliListener) OnFeeUpdated(fee int64) {
	fmt.Printf("estimated fee: %s PRV\n", domain.FromNano(fee))
	l.signal(nil)
}

func (l *cliListener) OnValidationWarning(message string) {
	fmt.Printf("warning: %s\n", message)
}

func (l *cliListener) OnSubmissionResult(domain.SubmissionResult) {}

func (l *cliListener) signal(err error) {
	select {
	case l.events <- err:
	default:
	}
}

// waitEstimation blocks until the fee of the current draft values has been
// estimated.
func (l *cliListener) waitEstimation(session *draft.Session) error {
	timeout := time.After(
		config.GetDuration(config.RPCTimeoutKey) +
			config.GetDuration(config.EstimationDebounceKey),
	)
	for {
		select {
		case err := <-l.events:
			if err != nil {
				return err
			}
			if session.Draft().FeeEstimated {
				return nil
			}
		case <-timeout:
			return fmt.Errorf("timeout waiting for fee estimation")
		}
	}
}

type submissionInfo struct {
	TxID   string `json:"txid"`
	Kind   string `json:"kind"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
}

// confirmAndSubmit waits for the fee, confirms the draft and submits it.
func confirmAndSubmit(
	ctx *cli.Context, session *draft.Session, listener *cliListener,
) error {
	session.Estimate()

	fee := ctx.String("fee")
	if err := listener.waitEstimation(session); err != nil && fee == "" {
		return err
	}
	if fee != "" {
		if err := session.Edit(domain.FieldFee, fee); err != nil {
			return err
		}
	}

	if _, err := session.Confirm(ctx.Context); err != nil {
		return err
	}

	d := session.Draft()
	fmt.Printf(
		"%s %s PRV from %s to %s with fee %s PRV\n",
		d.Kind, d.Amount, session.Account().Name, d.ToAddress, d.Fee,
	)
	if !ctx.Bool("yes") && !askConfirmation() {
		fmt.Println("aborted")
		return session.Cancel()
	}

	result, err := session.Submit(ctx.Context)
	if err != nil {
		return err
	}
	if !result.IsSuccess() {
		return fmt.Errorf("submission failed: %w", result.Reason)
	}

	printJSON(submissionInfo{
		TxID:   result.TxID,
		Kind:   d.Kind.String(),
		From:   session.Account().PaymentAddress,
		To:     d.ToAddress,
		Amount: d.Amount,
		Fee:    d.Fee,
	})
	return nil
}

func askConfirmation() bool {
	fmt.Print("submit transaction? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
