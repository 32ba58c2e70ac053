// internal/ledger/asset_memory_test.go
package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelabs/launchpad/internal/types"
)

const (
	authority types.Address = "authority"
	alice     types.Address = "alice"
	bob       types.Address = "bob"
)

func newAsset() *MemoryAssetLedger {
	return NewMemoryAssetLedger("Test Token", "TST", authority)
}

func TestMint(t *testing.T) {
	l := newAsset()

	require.NoError(t, l.Mint(authority, alice, uint256.NewInt(100)))
	assert.Equal(t, "100", l.BalanceOf(alice).Dec())
	assert.Equal(t, "100", l.TotalSupply().Dec())

	// Only the fixed authority may mint.
	err := l.Mint(alice, alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrNotMintAuthority)

	err = l.Mint(authority, alice, uint256.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	err = l.Mint(authority, alice, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBurn(t *testing.T) {
	l := newAsset()
	require.NoError(t, l.Mint(authority, alice, uint256.NewInt(100)))

	require.NoError(t, l.Burn(authority, alice, uint256.NewInt(40)))
	assert.Equal(t, "60", l.BalanceOf(alice).Dec())
	assert.Equal(t, "60", l.TotalSupply().Dec())

	err := l.Burn(alice, alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrNotMintAuthority)

	err = l.Burn(authority, alice, uint256.NewInt(61))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestBurnFromConsumesAllowance(t *testing.T) {
	l := newAsset()
	require.NoError(t, l.Mint(authority, alice, uint256.NewInt(100)))

	// No allowance yet.
	err := l.BurnFrom(bob, alice, uint256.NewInt(10))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	l.Approve(alice, bob, uint256.NewInt(50))
	require.NoError(t, l.BurnFrom(bob, alice, uint256.NewInt(30)))
	assert.Equal(t, "70", l.BalanceOf(alice).Dec())
	assert.Equal(t, "70", l.TotalSupply().Dec())
	assert.Equal(t, "20", l.Allowance(alice, bob).Dec())

	// The remaining allowance caps further burns.
	err = l.BurnFrom(bob, alice, uint256.NewInt(21))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)
}

func TestTransfer(t *testing.T) {
	l := newAsset()
	require.NoError(t, l.Mint(authority, alice, uint256.NewInt(100)))

	require.NoError(t, l.Transfer(alice, bob, uint256.NewInt(30)))
	assert.Equal(t, "70", l.BalanceOf(alice).Dec())
	assert.Equal(t, "30", l.BalanceOf(bob).Dec())
	// Transfers never change the supply.
	assert.Equal(t, "100", l.TotalSupply().Dec())

	err := l.Transfer(alice, bob, uint256.NewInt(71))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	err = l.Transfer(bob, alice, uint256.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransferFrom(t *testing.T) {
	l := newAsset()
	require.NoError(t, l.Mint(authority, alice, uint256.NewInt(100)))

	err := l.TransferFrom(bob, alice, bob, uint256.NewInt(10))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	l.Approve(alice, bob, uint256.NewInt(40))
	require.NoError(t, l.TransferFrom(bob, alice, bob, uint256.NewInt(25)))
	assert.Equal(t, "75", l.BalanceOf(alice).Dec())
	assert.Equal(t, "25", l.BalanceOf(bob).Dec())
	assert.Equal(t, "15", l.Allowance(alice, bob).Dec())
}

func TestApproveOverwrites(t *testing.T) {
	l := newAsset()

	l.Approve(alice, bob, uint256.NewInt(40))
	l.Approve(alice, bob, uint256.NewInt(10))
	assert.Equal(t, "10", l.Allowance(alice, bob).Dec())
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	l := newAsset()
	require.NoError(t, l.Mint(authority, alice, uint256.NewInt(100)))

	b := l.BalanceOf(alice)
	b.SetUint64(0)
	assert.Equal(t, "100", l.BalanceOf(alice).Dec())
}

func TestCurrencyLedger(t *testing.T) {
	l := NewMemoryCurrencyLedger()
	l.Credit(alice, uint256.NewInt(100))

	require.NoError(t, l.Transfer(alice, bob, uint256.NewInt(60)))
	assert.Equal(t, "40", l.BalanceOf(alice).Dec())
	assert.Equal(t, "60", l.BalanceOf(bob).Dec())

	err := l.Transfer(alice, bob, uint256.NewInt(41))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Zero-amount sends are a no-op, not an error.
	require.NoError(t, l.Transfer(alice, bob, uint256.NewInt(0)))

	err = l.Transfer(alice, bob, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Unknown accounts read as zero.
	assert.True(t, l.BalanceOf("nobody").IsZero())
}
