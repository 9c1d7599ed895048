package domain

import "context"

// AddressKind distinguishes member deposit addresses from the platform's own
// operational wallet addresses.
type AddressKind int

const (
	AddressKindDeposit AddressKind = iota
	AddressKindOperational
)

func (k AddressKind) String() string {
	switch k {
	case AddressKindDeposit:
		return "deposit"
	case AddressKindOperational:
		return "operational"
	default:
		return "unknown"
	}
}

// Address is an address owned by the platform, either provisioned for a
// member to deposit into or belonging to an operational wallet.
type Address struct {
	// Address as it appears on chain.
	Address string
	// MemberID is the owning member for deposit addresses, empty for
	// operational ones.
	MemberID   string
	CurrencyID string
	ChainKey   string
	Kind       AddressKind
}

// AddressRepository is the abstraction for any kind of database intended to
// persist owned Addresses.
type AddressRepository interface {
	AddAddress(ctx context.Context, address Address) error
	// GetAddressesForChain returns every owned address on the given chain,
	// deposit and operational alike.
	GetAddressesForChain(ctx context.Context, chainKey string) ([]Address, error)
}
