package draft_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prvwallet/prvwallet/internal/core/application/balance"
	"github.com/prvwallet/prvwallet/internal/core/application/draft"
	"github.com/prvwallet/prvwallet/internal/core/application/estimation"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/prvwallet/prvwallet/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	recipient   = "recipientaddress"
	burnAddress = "burnaddress"
	tokenID     = "token1"
)

var (
	ctx     = context.Background()
	account = domain.Account{
		Name:           "Account 1",
		PaymentAddress: "paymentaddress",
		PrivateKey:     "privatekey",
		MiningSeedKey:  "miningseedkey",
	}
)

func TestSendDraft(t *testing.T) {
	t.Run("submission succeeds", func(t *testing.T) {
		rpc := newMockRPC()
		rpc.On(
			"EstimateFee", mock.Anything, account, recipient,
			1*domain.PrivacyUnit, domain.NativeToken, false,
		).Return(int64(100), nil)
		rpc.On("SubmitSend", mock.Anything, ports.SendParams{
			From:   account,
			To:     recipient,
			Amount: 1 * domain.PrivacyUnit,
			Fee:    100,
		}).Return("txid", nil)

		svc, cache := newTestService(t, rpc)
		cache.Save(account.Name, domain.NativeToken, 10*domain.PrivacyUnit)

		listener := newTestListener()
		session, err := svc.OpenSend(ctx, account.Name, listener)
		require.NoError(t, err)
		defer session.Close()

		require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
		require.NoError(t, session.Edit(domain.FieldAmount, "1"))
		require.Equal(t, int64(100), waitFee(t, listener))
		require.Equal(t, domain.EstimationDone, session.EstimationState())

		warnings, err := session.Confirm(ctx)
		require.NoError(t, err)
		require.Empty(t, warnings)
		confirmed := session.Draft()
		require.Equal(t, domain.StateConfirming, confirmed.State())

		result, err := session.Submit(ctx)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		require.Equal(t, "txid", result.TxID)

		require.Equal(t, domain.UnknownBalance, cache.Get(account.Name, domain.NativeToken))
		d := session.Draft()
		require.Equal(t, domain.StateEditing, d.State())
		require.Empty(t, d.Amount)
		require.Empty(t, d.ToAddress)
		require.Equal(t, []domain.SubmissionResult{result}, listener.getResults())
	})

	t.Run("submission fails", func(t *testing.T) {
		rpc := newMockRPC()
		rpc.On(
			"EstimateFee", mock.Anything, account, recipient,
			1*domain.PrivacyUnit, domain.NativeToken, false,
		).Return(int64(100), nil)
		rpc.On("SubmitSend", mock.Anything, mock.Anything).
			Return("", errors.New("rejected by node"))

		svc, cache := newTestService(t, rpc)
		cache.Save(account.Name, domain.NativeToken, 10*domain.PrivacyUnit)

		listener := newTestListener()
		session, err := svc.OpenSend(ctx, account.Name, listener)
		require.NoError(t, err)
		defer session.Close()

		require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
		require.NoError(t, session.Edit(domain.FieldAmount, "1"))
		waitFee(t, listener)

		_, err = session.Confirm(ctx)
		require.NoError(t, err)

		result, err := session.Submit(ctx)
		require.NoError(t, err)
		require.False(t, result.IsSuccess())
		require.EqualError(t, result.Reason, "rejected by node")

		require.Equal(t, 10*domain.PrivacyUnit, cache.Get(account.Name, domain.NativeToken))
		d := session.Draft()
		require.Equal(t, domain.StateEditing, d.State())
		require.Equal(t, "1", d.Amount)
		require.Equal(t, recipient, d.ToAddress)
		require.Len(t, listener.getResults(), 1)
		rpc.AssertNumberOfCalls(t, "SubmitSend", 1)
	})

	t.Run("missing txid", func(t *testing.T) {
		rpc := newMockRPC()
		rpc.On("EstimateFee", mock.Anything, account, recipient,
			1*domain.PrivacyUnit, domain.NativeToken, false,
		).Return(int64(100), nil)
		rpc.On("SubmitSend", mock.Anything, mock.Anything).Return("", nil)

		svc, cache := newTestService(t, rpc)
		cache.Save(account.Name, domain.NativeToken, 10*domain.PrivacyUnit)

		session, err := svc.OpenSend(ctx, account.Name, nil)
		require.NoError(t, err)
		defer session.Close()

		require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
		require.NoError(t, session.Edit(domain.FieldAmount, "1"))
		session.Estimate()

		_, err = session.Confirm(ctx)
		require.NoError(t, err)
		result, err := session.Submit(ctx)
		require.NoError(t, err)
		require.ErrorIs(t, result.Reason, domain.ErrMissingTxID)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		rpc := newMockRPC()
		rpc.On("EstimateFee", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything,
		).Return(int64(100), nil)

		svc, cache := newTestService(t, rpc)
		cache.Save(account.Name, domain.NativeToken, 100*domain.PrivacyUnit)

		session, err := svc.OpenSend(ctx, account.Name, newTestListener())
		require.NoError(t, err)
		defer session.Close()

		require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
		require.NoError(t, session.Edit(domain.FieldAmount, "150"))

		_, err = session.Confirm(ctx)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		edited := session.Draft()
		require.Equal(t, domain.StateEditing, edited.State())

		_, err = session.Submit(ctx)
		require.ErrorIs(t, err, domain.ErrDraftNotConfirming)
		rpc.AssertNumberOfCalls(t, "SubmitSend", 0)
	})

	t.Run("token send clears token balance", func(t *testing.T) {
		rpc := newMockRPC()
		rpc.On("EstimateFee", mock.Anything, account, recipient,
			5*domain.PrivacyUnit, tokenID, true,
		).Return(int64(200), nil)
		rpc.On("SubmitSend", mock.Anything, mock.Anything).Return("txid", nil)

		svc, cache := newTestService(t, rpc)
		cache.Save(account.Name, domain.NativeToken, 1*domain.PrivacyUnit)
		cache.Save(account.Name, tokenID, 10*domain.PrivacyUnit)

		listener := newTestListener()
		session, err := svc.OpenSend(ctx, account.Name, listener)
		require.NoError(t, err)
		defer session.Close()

		require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
		require.NoError(t, session.Edit(domain.FieldTokenID, tokenID))
		require.NoError(t, session.Edit(domain.FieldPrivacy, "true"))
		require.NoError(t, session.Edit(domain.FieldAmount, "5"))
		require.Equal(t, int64(200), waitFee(t, listener))

		_, err = session.Confirm(ctx)
		require.NoError(t, err)
		result, err := session.Submit(ctx)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())

		require.Equal(t, domain.UnknownBalance, cache.Get(account.Name, domain.NativeToken))
		require.Equal(t, domain.UnknownBalance, cache.Get(account.Name, tokenID))
	})

	t.Run("empty balance short-circuits estimation", func(t *testing.T) {
		rpc := newMockRPC()
		rpc.On("GetBalance", mock.Anything, account, domain.NativeToken).
			Return(int64(0), nil)

		svc, _ := newTestService(t, rpc)

		listener := newTestListener()
		session, err := svc.OpenSend(ctx, account.Name, listener)
		require.NoError(t, err)
		defer session.Close()

		require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
		require.NoError(t, session.Edit(domain.FieldAmount, "3"))

		require.Zero(t, waitFee(t, listener))
		require.Contains(t, listener.getWarnings(), estimation.FundAccountWarning)
		rpc.AssertNumberOfCalls(t, "EstimateFee", 0)

		_, err = session.Confirm(ctx)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})
}

func TestEstimationSettlesAfterConfirm(t *testing.T) {
	release := make(chan time.Time)
	rpc := newMockRPC()
	rpc.On(
		"EstimateFee", mock.Anything, account, recipient,
		1*domain.PrivacyUnit, domain.NativeToken, false,
	).WaitUntil(release).Return(int64(100), nil)

	svc, cache := newTestService(t, rpc)
	cache.Save(account.Name, domain.NativeToken, 10*domain.PrivacyUnit)

	listener := newTestListener()
	session, err := svc.OpenSend(ctx, account.Name, listener)
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
	require.NoError(t, session.Edit(domain.FieldAmount, "1"))
	require.NoError(t, session.Edit(domain.FieldFee, "0.0000002"))

	warnings, err := session.Confirm(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, warnings)

	require.Eventually(t, func() bool {
		return session.EstimationState() == domain.EstimationInProgress
	}, time.Second, 5*time.Millisecond)
	close(release)

	require.Eventually(t, func() bool {
		states := listener.getStates()
		return session.EstimationState() == domain.EstimationDone &&
			len(states) > 0 && states[len(states)-1] == domain.EstimationDone
	}, time.Second, 5*time.Millisecond)

	d := session.Draft()
	require.Equal(t, domain.StateConfirming, d.State())
	require.False(t, d.FeeEstimated)
	require.Equal(t, "0.0000002", d.Fee)
	require.Empty(t, listener.fees)
}

func TestCloseFromListener(t *testing.T) {
	rpc := newMockRPC()
	rpc.On(
		"EstimateFee", mock.Anything, account, recipient,
		1*domain.PrivacyUnit, domain.NativeToken, false,
	).Return(int64(100), nil)

	svc, cache := newTestService(t, rpc)
	cache.Save(account.Name, domain.NativeToken, 10*domain.PrivacyUnit)

	listener := &closingListener{
		testListener: testListener{fees: make(chan int64, 100)},
		closed:       make(chan struct{}),
	}
	session, err := svc.OpenSend(ctx, account.Name, listener)
	require.NoError(t, err)
	listener.session = session

	require.NoError(t, session.Edit(domain.FieldToAddress, recipient))
	require.NoError(t, session.Edit(domain.FieldAmount, "1"))

	select {
	case <-listener.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for session to close")
	}

	require.ErrorIs(
		t, session.Edit(domain.FieldAmount, "2"), draft.ErrSessionClosed,
	)
	_, ok := svc.Session(session.ID())
	require.False(t, ok)
}

func TestStakeDraft(t *testing.T) {
	rpc := newMockRPC()
	rpc.On("EstimateStakingAmount", mock.Anything, domain.TierShard).
		Return(1750*domain.PrivacyUnit, nil)
	rpc.On("EstimateStakingAmount", mock.Anything, domain.TierBeacon).
		Return(5250*domain.PrivacyUnit, nil)
	rpc.On(
		"EstimateFee", mock.Anything, account, burnAddress,
		1750*domain.PrivacyUnit, domain.NativeToken, false,
	).Return(int64(20), nil)
	rpc.On("SubmitStake", mock.Anything, ports.StakeParams{
		From:                         account,
		BurnAddress:                  burnAddress,
		Amount:                       1750 * domain.PrivacyUnit,
		Fee:                          20,
		Tier:                         domain.TierShard,
		CandidatePaymentAddress:      account.PaymentAddress,
		CandidateMiningSeedKey:       account.MiningSeedKey,
		RewardReceiverPaymentAddress: account.PaymentAddress,
		AutoReStaking:                true,
	}).Return("staketxid", nil)

	svc, cache := newTestService(t, rpc)
	cache.Save(account.Name, domain.NativeToken, 2000*domain.PrivacyUnit)

	listener := newTestListener()
	session, err := svc.OpenStake(ctx, account.Name, listener)
	require.NoError(t, err)
	defer session.Close()

	d := session.Draft()
	require.True(t, d.IsStake())
	require.Equal(t, burnAddress, d.ToAddress)
	require.Equal(t, "1750", d.Amount)

	// estimation is primed on open.
	require.Equal(t, int64(20), waitFee(t, listener))

	found, ok := svc.Session(session.ID())
	require.True(t, ok)
	require.Equal(t, session, found)

	warnings, err := session.Confirm(ctx)
	require.NoError(t, err)
	require.Empty(t, warnings)

	result, err := session.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, "staketxid", result.TxID)
	require.Equal(t, domain.UnknownBalance, cache.Get(account.Name, domain.NativeToken))

	session.Close()
	_, ok = svc.Session(session.ID())
	require.False(t, ok)
	require.ErrorIs(t, session.Edit(domain.FieldAmount, "1"), draft.ErrSessionClosed)
}

func TestStakeDraftBeaconTier(t *testing.T) {
	rpc := newMockRPC()
	rpc.On("EstimateStakingAmount", mock.Anything, domain.TierShard).
		Return(1750*domain.PrivacyUnit, nil)
	rpc.On("EstimateStakingAmount", mock.Anything, domain.TierBeacon).
		Return(5250*domain.PrivacyUnit, nil)
	rpc.On("EstimateFee", mock.Anything, account, burnAddress,
		mock.Anything, domain.NativeToken, false,
	).Return(int64(20), nil)

	svc, cache := newTestService(t, rpc)
	cache.Save(account.Name, domain.NativeToken, 2000*domain.PrivacyUnit)

	listener := newTestListener()
	session, err := svc.OpenStake(ctx, account.Name, listener)
	require.NoError(t, err)
	defer session.Close()
	waitFee(t, listener)

	require.NoError(t, session.Edit(domain.FieldStakeTier, "beacon"))
	require.Equal(t, "5250", session.Draft().Amount)
	waitFee(t, listener)

	rpc.AssertCalled(t, "EstimateFee", mock.Anything, account, burnAddress,
		5250*domain.PrivacyUnit, domain.NativeToken, false)

	_, err = session.Confirm(ctx)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestFailingOpenStake(t *testing.T) {
	rpc := newMockRPC()
	rpc.On("EstimateStakingAmount", mock.Anything, mock.Anything).
		Return(nil, ports.ErrNetwork)

	svc, _ := newTestService(t, rpc)

	_, err := svc.OpenStake(ctx, account.Name, nil)
	require.ErrorIs(t, err, ports.ErrNetwork)

	_, err = svc.OpenSend(ctx, "unknown", nil)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func newMockRPC() *mockRPC {
	rpc := &mockRPC{}
	rpc.On("ValidateAddress", mock.Anything).Return(true)
	rpc.On("BurnAddress").Return(burnAddress)
	return rpc
}

func newTestService(
	t *testing.T, rpc *mockRPC,
) (*draft.Service, ports.BalanceCache) {
	registry := &mockAccountRegistry{}
	registry.On("GetAccount", mock.Anything, account.Name).Return(&account, nil)
	registry.On("GetAccount", mock.Anything, mock.Anything).
		Return(nil, domain.ErrAccountNotFound)

	cache := inmemory.NewBalanceCache()
	balanceSvc, err := balance.NewService(rpc, cache, registry)
	require.NoError(t, err)

	svc, err := draft.NewService(draft.Config{
		RPC:      rpc,
		Balances: balanceSvc,
		Accounts: registry,
		Debounce: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(svc.CloseAll)
	return svc, cache
}

func waitFee(t *testing.T, listener *testListener) int64 {
	t.Helper()

	select {
	case fee := <-listener.fees:
		return fee
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fee update")
	}
	return 0
}
