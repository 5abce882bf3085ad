package keychain

import (
	"fmt"
)

// Domain bytes of PRF^expand used to derive the components of an Orchard
// full viewing key from a spending key.
const (
	askDomain  = 0x06
	nkDomain   = 0x07
	rivkDomain = 0x08
)

// OrchardDeriver derives Orchard full viewing keys following ZIP 32.
type OrchardDeriver struct{}

// A compile time check to ensure OrchardDeriver meets the Deriver interface.
var _ Deriver = (*OrchardDeriver)(nil)

// DeriveFullViewingKey derives the account spending key at
// m/32'/coinType'/account' and returns the encoding ak || nk || rivk of its
// full viewing key.
//
// NOTE: part of the Deriver interface.
func (d *OrchardDeriver) DeriveFullViewingKey(seed []byte, coinType,
	account uint32) ([OrchardFVKLen]byte, error) {

	var fvk [OrchardFVKLen]byte

	loc := AccountLocator{CoinType: coinType, Account: account}
	if err := loc.Validate(); err != nil {
		return fvk, err
	}

	master, err := NewMasterKey(seed)
	if err != nil {
		return fvk, err
	}
	defer master.Zero()

	acct, err := master.DerivePath(loc.Path())
	if err != nil {
		return fvk, fmt.Errorf("unable to derive %v: %w", loc, err)
	}
	defer acct.Zero()

	log.Tracef("Derived orchard spending key at %v", loc)

	ak, nk, rivk, err := fvkComponents(acct.Key)
	if err != nil {
		return fvk, err
	}

	copy(fvk[0:32], ak[:])
	copy(fvk[32:64], nk[:])
	copy(fvk[64:96], rivk[:])

	return fvk, nil
}

// fvkComponents computes ak, nk and rivk from an Orchard spending key.
//
// The spend authorizing key is only used through its x coordinate, so ak is
// unaffected by the sign normalisation of ask. The check that ivk is non-zero
// is skipped; it fails with negligible probability and the seed holder can
// always pick another account.
func fvkComponents(sk [keyLen]byte) ([32]byte, [32]byte, [32]byte,
	error) {

	var ak, nk, rivk [32]byte

	askWide, err := prfExpand(sk[:], []byte{askDomain})
	if err != nil {
		return ak, nk, rivk, err
	}
	defer clear(askWide[:])

	ask := toScalar(askWide[:])
	if ask.Sign() == 0 {
		return ak, nk, rivk, ErrInvalidSpendingKey
	}
	defer ask.SetInt64(0)

	nkWide, err := prfExpand(sk[:], []byte{nkDomain})
	if err != nil {
		return ak, nk, rivk, err
	}
	defer clear(nkWide[:])

	rivkWide, err := prfExpand(sk[:], []byte{rivkDomain})
	if err != nil {
		return ak, nk, rivk, err
	}
	defer clear(rivkWide[:])

	ak = spendAuthG.scalarMult(ask).extract()
	nk = encodeFieldElement(toBase(nkWide[:]))
	rivk = encodeFieldElement(toScalar(rivkWide[:]))

	return ak, nk, rivk, nil
}
