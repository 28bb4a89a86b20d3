package simulation

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// BankStoreKey mounts the bank next to the subspace store.
const BankStoreKey = "bank"

// StoreBankKeeper is a minimal bank that keeps balances and supply in its own
// KV store. Living in the multistore means it commits and rolls back together
// with the subspace keeper when a cached context is discarded.
type StoreBankKeeper struct {
	Balances collections.Map[collections.Pair[sdk.AccAddress, string], sdkmath.Int]
	Supply   collections.Map[string, sdkmath.Int]
}

func NewStoreBankKeeper(storeService store.KVStoreService) *StoreBankKeeper {
	sb := collections.NewSchemaBuilder(storeService)
	bank := &StoreBankKeeper{
		Balances: collections.NewMap(sb, collections.NewPrefix(0), "balances", collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey), sdk.IntValue),
		Supply:   collections.NewMap(sb, collections.NewPrefix(1), "supply", collections.StringKey, sdk.IntValue),
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return bank
}

// Fund mints coins straight into account, raising the supply.
func (b *StoreBankKeeper) Fund(ctx context.Context, account sdk.AccAddress, coins sdk.Coins) error {
	for _, coin := range coins {
		if err := b.addSupply(ctx, coin.Denom, coin.Amount); err != nil {
			return err
		}
	}
	return b.add(ctx, account, coins)
}

// Balance is the amount of denom held by account.
func (b *StoreBankKeeper) Balance(ctx context.Context, account sdk.AccAddress, denom string) sdkmath.Int {
	amount, err := b.Balances.Get(ctx, collections.Join(account, denom))
	if err != nil {
		return sdkmath.ZeroInt()
	}
	return amount
}

// ModuleBalance is the amount of denom held by the module account moduleName.
func (b *StoreBankKeeper) ModuleBalance(ctx context.Context, moduleName, denom string) sdkmath.Int {
	return b.Balance(ctx, authtypes.NewModuleAddress(moduleName), denom)
}

func (b *StoreBankKeeper) SpendableCoins(ctx context.Context, account sdk.AccAddress) sdk.Coins {
	coins := sdk.NewCoins()
	rng := collections.NewPrefixedPairRange[sdk.AccAddress, string](account)
	_ = b.Balances.Walk(ctx, rng, func(key collections.Pair[sdk.AccAddress, string], amount sdkmath.Int) (bool, error) {
		coins = coins.Add(sdk.NewCoin(key.K2(), amount))
		return false, nil
	})
	return coins
}

func (b *StoreBankKeeper) GetSupply(ctx context.Context, denom string) sdk.Coin {
	amount, err := b.Supply.Get(ctx, denom)
	if err != nil {
		return sdk.NewCoin(denom, sdkmath.ZeroInt())
	}
	return sdk.NewCoin(denom, amount)
}

func (b *StoreBankKeeper) SendCoins(ctx context.Context, from, to sdk.AccAddress, coins sdk.Coins) error {
	if err := b.sub(ctx, from, coins); err != nil {
		return err
	}
	return b.add(ctx, to, coins)
}

func (b *StoreBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipient sdk.AccAddress, coins sdk.Coins) error {
	return b.SendCoins(ctx, authtypes.NewModuleAddress(senderModule), recipient, coins)
}

func (b *StoreBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, sender sdk.AccAddress, recipientModule string, coins sdk.Coins) error {
	return b.SendCoins(ctx, sender, authtypes.NewModuleAddress(recipientModule), coins)
}

func (b *StoreBankKeeper) MintCoins(ctx context.Context, moduleName string, coins sdk.Coins) error {
	return b.Fund(ctx, authtypes.NewModuleAddress(moduleName), coins)
}

func (b *StoreBankKeeper) BurnCoins(ctx context.Context, moduleName string, coins sdk.Coins) error {
	if err := b.sub(ctx, authtypes.NewModuleAddress(moduleName), coins); err != nil {
		return err
	}
	for _, coin := range coins {
		if err := b.addSupply(ctx, coin.Denom, coin.Amount.Neg()); err != nil {
			return err
		}
	}
	return nil
}

func (b *StoreBankKeeper) add(ctx context.Context, account sdk.AccAddress, coins sdk.Coins) error {
	for _, coin := range coins {
		current := b.Balance(ctx, account, coin.Denom)
		if err := b.Balances.Set(ctx, collections.Join(account, coin.Denom), current.Add(coin.Amount)); err != nil {
			return err
		}
	}
	return nil
}

func (b *StoreBankKeeper) sub(ctx context.Context, account sdk.AccAddress, coins sdk.Coins) error {
	for _, coin := range coins {
		current := b.Balance(ctx, account, coin.Denom)
		if current.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s has %s%s, needs %s", account, current, coin.Denom, coin.Amount)
		}
	}
	for _, coin := range coins {
		current := b.Balance(ctx, account, coin.Denom)
		if err := b.Balances.Set(ctx, collections.Join(account, coin.Denom), current.Sub(coin.Amount)); err != nil {
			return err
		}
	}
	return nil
}

func (b *StoreBankKeeper) addSupply(ctx context.Context, denom string, delta sdkmath.Int) error {
	current := b.GetSupply(ctx, denom).Amount
	return b.Supply.Set(ctx, denom, current.Add(delta))
}
