// Package accounttypepkg provides the closed set of payment account types.
package accounttypepkg

import "github.com/go-playground/validator/v10"

// Constants for all supported account types.
const (
	Debit  = "DEBIT"
	Credit = "CREDIT"
	Loan   = "LOAN"
)

// SupportedTypes holds all the supported account types.
var SupportedTypes = []string{
	Debit,
	Credit,
	Loan,
}

// IsSupportedType returns true if the account type is supported.
func IsSupportedType(accountType string) bool {
	for _, t := range SupportedTypes {
		if t == accountType {
			return true
		}
	}

	return false
}

// ValidAccountType validates whether the account type is supported.
var ValidAccountType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return IsSupportedType(t)
	}

	return false
}
