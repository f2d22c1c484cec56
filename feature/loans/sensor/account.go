package sensor

import "loan-sync/core/slug"

// Domain is the entity domain of every identifier built here.
const Domain = "sensor"

// Account identifies the account a set of sensors belongs to.
type Account struct {
	// ID is the stable account id used in unique keys.
	ID string
	// Name is the display name.
	Name string
	// Slug is the identifier fragment derived from Name.
	Slug string
}

// NewAccount builds an Account, slugging name and falling back to id when
// the name has no usable characters.
func NewAccount(id, name string) Account {
	if name == "" {
		name = id
	}
	return Account{ID: id, Name: name, Slug: slug.MakeOr(name, slug.MakeOr(id, "account"))}
}

// LoanUniqueKey returns the stable key of the sensor tracking loanID.
func (a Account) LoanUniqueKey(loanID string) string {
	return a.LoanKeyPrefix() + loanID
}

// LoanKeyPrefix is the prefix shared by all loan sensor keys of the account.
func (a Account) LoanKeyPrefix() string {
	return a.ID + "_loan_"
}

// LoanEntityID returns the identifier the loan sensor should carry.
func (a Account) LoanEntityID(loanID string) string {
	return Domain + "." + a.Slug + "_loan_" + loanID
}

func (a Account) uniqueKey(suffix string) string {
	return a.ID + "_" + suffix
}

func (a Account) entityID(suffix string) string {
	return Domain + "." + a.Slug + "_" + suffix
}
