package models

import "github.com/shopspring/decimal"

// Amounts travel as JSON numbers, both to the backend and on the local API.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
