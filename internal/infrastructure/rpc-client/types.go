package rpcclient

import (
	"encoding/json"
	"fmt"
)

const (
	jsonrpcVersion = "1.0"

	// node's default estimator params.
	defaultFeePerKb = -1
	numBlocks       = 8

	stakingTypeShard  = 63
	stakingTypeBeacon = 64

	customTokenTransfer = 1
)

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code       int    `json:"Code"`
	Message    string `json:"Message"`
	StackTrace string `json:"StackTrace,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

type response struct {
	ID     interface{}     `json:"Id"`
	Result json.RawMessage `json:"Result"`
	Err    *rpcError       `json:"Error"`
}

type feeEstimation struct {
	EstimateFeeCoinPerKb int64 `json:"EstimateFeeCoinPerKb"`
	EstimateTxSizeInKb   int64 `json:"EstimateTxSizeInKb"`
}

type txResult struct {
	TxID    string `json:"TxID"`
	ShardID int    `json:"ShardID"`
}

type tokenParams struct {
	Privacy        bool             `json:"Privacy"`
	TokenID        string           `json:"TokenID"`
	TokenName      string           `json:"TokenName"`
	TokenSymbol    string           `json:"TokenSymbol"`
	TokenTxType    int              `json:"TokenTxType"`
	TokenAmount    int64            `json:"TokenAmount"`
	TokenReceivers map[string]int64 `json:"TokenReceivers"`
	TokenFee       int64            `json:"TokenFee"`
}

type stakingParams struct {
	StakingType                  int    `json:"StakingType"`
	CandidatePaymentAddress      string `json:"CandidatePaymentAddress"`
	PrivateSeed                  string `json:"PrivateSeed"`
	RewardReceiverPaymentAddress string `json:"RewardReceiverPaymentAddress"`
	AutoReStaking                bool   `json:"AutoReStaking"`
}

func privacyFlag(privacy bool) int {
	if privacy {
		return 1
	}
	return 0
}
