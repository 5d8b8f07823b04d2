package config

import "os"

// LedgerOwner returns the account allowed to run owner operations.
func LedgerOwner() string {
	if v := os.Getenv("LEDGER_OWNER"); v != "" {
		return v
	}
	return "owner"
}

// LedgerTokenAsset returns the symbol of the token sold and staked.
func LedgerTokenAsset() string {
	if v := os.Getenv("LEDGER_TOKEN_ASSET"); v != "" {
		return v
	}
	return "LNCH"
}
