//go:build abortif

package clean

import "fmt"

// Pay moves money. Test environments must never do that.
//
//abortif:testenv
func Pay(amount int64) error {
	fmt.Println("paying", amount)
	return nil
}

//abortif:any(debug, not(optimized)), feature = "legacy"
func Reconcile() {}
