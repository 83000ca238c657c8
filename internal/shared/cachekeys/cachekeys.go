package cachekeys

import "fmt"

// UserBalances is the redis key for a user's computed balances in a year.
// Both leave decisions and TOIL accruals invalidate it.
func UserBalances(userID string, year int) string {
	return fmt.Sprintf("balances:%s:%d", userID, year)
}
