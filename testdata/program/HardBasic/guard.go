//go:build abortif

package payment

import "fmt"

// Refund pays money back. Refunding from test environments is a bug,
// not a feature.
//
//abortif:testenv
func Refund(amount int64) error {
	fmt.Println("refunding", amount)
	return nil
}
