package engine

func (c *Config) HasAuthority() bool { return c.AuthorityIdentity != "" }

// SetAuthority configures the authority identity. It can succeed only once.
func (c *Config) SetAuthority(identity string) error {
	if identity == "" || identity == BurnIdentity {
		return ErrInvalidAuthority
	}
	if c.HasAuthority() {
		return ErrAuthorityAlreadySet
	}
	c.AuthorityIdentity = identity
	return nil
}

// RequireAuthority gates privileged config changes.
func (c *Config) RequireAuthority(caller string) error {
	if !c.HasAuthority() {
		return ErrAuthorityNotConfigured
	}
	if caller != c.AuthorityIdentity {
		return ErrNotAuthority
	}
	return nil
}

func (c *Config) AtCapacity() bool { return c.NextLoanID >= c.MaxLoans }

func (c *Config) SetMaxLoans(n uint64) error {
	if n == 0 {
		return ErrInvalidMaxLoans
	}
	c.MaxLoans = n
	return nil
}

func (c *Config) SetCreationFee(fee int64) error {
	if fee < 0 {
		return ErrInvalidCreationFee
	}
	c.CreationFee = fee
	return nil
}
