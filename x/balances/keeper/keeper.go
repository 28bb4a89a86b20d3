package keeper

import (
	"context"
	"fmt"
	"math"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/agicommies/subspace-network/x/balances/types"
)

type (
	// Keeper exposes free balances of a single denom and keeps staked funds in
	// one holder module account. Every movement is written to the audit log.
	Keeper struct {
		logger log.Logger

		bankKeeper   types.BankKeeper
		holderModule string
		denom        string
		logConfig    LogConfig
	}
)

type LogConfig struct {
	DoubleEntry bool   `json:"double_entry"`
	SimpleEntry bool   `json:"simple_entry"`
	LogLevel    string `json:"log_level"`
}

func NewKeeper(
	logger log.Logger,
	bankKeeper types.BankKeeper,
	holderModule string,
	denom string,
	logConfig LogConfig,
) Keeper {
	if err := sdk.ValidateDenom(denom); err != nil {
		panic(fmt.Sprintf("invalid denom %q: %s", denom, err))
	}
	if holderModule == "" {
		panic("holder module name must not be empty")
	}

	return Keeper{
		logger: logger,

		bankKeeper:   bankKeeper,
		holderModule: holderModule,
		denom:        denom,
		logConfig:    logConfig,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) Denom() string {
	return k.denom
}

func (k Keeper) coins(amount uint64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(k.denom, sdkmath.NewIntFromUint64(amount)))
}

func (k Keeper) FreeBalance(ctx context.Context, account sdk.AccAddress) uint64 {
	return saturatingUint64(k.bankKeeper.SpendableCoins(ctx, account).AmountOf(k.denom))
}

func (k Keeper) Deposit(ctx context.Context, account sdk.AccAddress, amount uint64, memo string) error {
	if amount == 0 {
		return nil
	}
	coins := k.coins(amount)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, k.holderModule, account, coins); err != nil {
		return err
	}
	k.logTransaction(ctx, account.String(), k.holderModule, coins[0], memo, "")
	return nil
}

func (k Keeper) Withdraw(ctx context.Context, account sdk.AccAddress, amount uint64, memo string) error {
	if amount == 0 {
		return nil
	}
	if free := k.FreeBalance(ctx, account); free < amount {
		return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s has %d%s, needs %d", account, free, k.denom, amount)
	}
	coins := k.coins(amount)
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, account, k.holderModule, coins); err != nil {
		return err
	}
	k.logTransaction(ctx, k.holderModule, account.String(), coins[0], memo, "")
	return nil
}

func (k Keeper) Transfer(ctx context.Context, from, to sdk.AccAddress, amount uint64, memo string) error {
	if amount == 0 {
		return nil
	}
	coins := k.coins(amount)
	if err := k.bankKeeper.SendCoins(ctx, from, to, coins); err != nil {
		return err
	}
	k.logTransaction(ctx, to.String(), from.String(), coins[0], memo, "")
	return nil
}

func (k Keeper) Mint(ctx context.Context, amount uint64, memo string) error {
	if amount == 0 {
		return nil
	}
	coins := k.coins(amount)
	if err := k.bankKeeper.MintCoins(ctx, k.holderModule, coins); err != nil {
		return err
	}
	k.logTransaction(ctx, k.holderModule, "supply", coins[0], memo, "")
	return nil
}

func (k Keeper) Burn(ctx context.Context, amount uint64, memo string) error {
	if amount == 0 {
		k.Logger().Debug("No coins to burn")
		return nil
	}
	coins := k.coins(amount)
	if err := k.bankKeeper.BurnCoins(ctx, k.holderModule, coins); err != nil {
		return err
	}
	k.logTransaction(ctx, "supply", k.holderModule, coins[0], memo, "")
	return nil
}

// TotalIssuance is the bank supply of the denom. Staked funds sit in the
// holder module account and are part of it.
func (k Keeper) TotalIssuance(ctx context.Context) uint64 {
	return saturatingUint64(k.bankKeeper.GetSupply(ctx, k.denom).Amount)
}

func (k Keeper) LogSubAccountTransaction(ctx context.Context, recipient string, sender string, subAccount string, amount uint64, memo string) {
	k.logTransaction(ctx, recipient+"_"+subAccount, sender+"_"+subAccount, sdk.NewCoin(k.denom, sdkmath.NewIntFromUint64(amount)), memo, subAccount)
}

func (k Keeper) logTransaction(ctx context.Context, to string, from string, coin sdk.Coin, memo string, subAccount string) {
	if coin.Amount.IsZero() {
		return
	}
	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	logFunc := k.getLogFunction(k.logConfig.LogLevel)
	amount := coin.Amount.String()
	if k.logConfig.DoubleEntry {
		logFunc("TransactionAudit", "type", "debit", "account", to, "counteraccount", from, "amount", amount, "denom", coin.Denom, "memo", memo, "signedAmount", amount, "height", height)
		logFunc("TransactionAudit", "type", "credit", "account", from, "counteraccount", to, "amount", amount, "denom", coin.Denom, "memo", memo, "signedAmount", "-"+amount, "height", height)
	}
	if k.logConfig.SimpleEntry {
		heightString := fmt.Sprintf("%d", height)
		if subAccount != "" {
			// Extra space here to ensure alignment in logs
			logFunc(fmt.Sprintf("SubAccountEntry  to=%s from=%s amount=%20s %-10s height=%8s memo=%s subaccount=%s", fixedSize(to, 64), fixedSize(from, 64), amount, coin.Denom, heightString, memo, subAccount))
		} else {
			logFunc(fmt.Sprintf("TransactionEntry to=%s from=%s amount=%20s %-10s height=%8s memo=%s", fixedSize(to, 64), fixedSize(from, 64), amount, coin.Denom, heightString, memo))
		}
	}
}

func (k Keeper) getLogFunction(level string) func(msg string, keyvals ...interface{}) {
	switch strings.ToLower(level) {
	case "info":
		return k.Logger().Info
	case "debug":
		return k.Logger().Debug
	case "error":
		return k.Logger().Error
	case "warn":
		return k.Logger().Warn
	default:
		return k.Logger().Info
	}
}

// no easy way to truncate AND pad a string in Sprintf
func fixedSize(to string, size int) string {
	if len(to) > size {
		return to[:size]
	}
	return to + strings.Repeat(" ", size-len(to))
}

func saturatingUint64(amount sdkmath.Int) uint64 {
	if amount.IsNegative() {
		return 0
	}
	if !amount.IsUint64() {
		return math.MaxUint64
	}
	return amount.Uint64()
}
