package domain

// Configuration is the complete contents of an input file.
type Configuration struct {
	Loans    []LoanAccount      `yaml:"loans" json:"loans"`
	Profile  *RetirementProfile `yaml:"profile,omitempty" json:"profile,omitempty"`
	Goals    []SavingsGoal      `yaml:"goals" json:"goals"`
	Settings Settings           `yaml:"settings" json:"settings"`
}

// ActiveLoans returns the loans that still carry a balance.
func (c *Configuration) ActiveLoans() []LoanAccount {
	active := make([]LoanAccount, 0, len(c.Loans))
	for _, l := range c.Loans {
		if l.Balance.IsPositive() {
			active = append(active, l)
		}
	}
	return active
}
