package domain

import "fmt"

// Account is a wallet sub-account derived by the wallet SDK. It is identified
// by its unique name.
type Account struct {
	Name           string `json:"name"`
	PaymentAddress string `json:"paymentAddress"`
	PrivateKey     string `json:"privateKey"`
	MiningSeedKey  string `json:"miningSeedKey,omitempty"`
}

// String never includes the private key, so that accounts can be safely
// logged.
func (a Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.PaymentAddress)
}

// GoString is the %#v counterpart of String.
func (a Account) GoString() string {
	return a.String()
}
