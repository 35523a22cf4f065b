package service

import (
	"context"
	"errors"

	"dinks/config"
	"dinks/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// bitcoinPrecision is the number of decimal places kept on coin balances
const bitcoinPrecision = 8

type bankService struct {
	uowFactory UnitOfWorkFactory
	economy    config.Economy
	prices     PriceSource
}

// NewBankService creates a new bank service
func NewBankService(uowFactory UnitOfWorkFactory, economy config.Economy, prices PriceSource) BankService {
	return &bankService{
		uowFactory: uowFactory,
		economy:    economy,
		prices:     prices,
	}
}

func (s *bankService) Invest(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, *models.Account, error) {
	amount, err := validAmount(s.economy, amount)
	if err != nil {
		return decimal.Zero, nil, err
	}

	var moved decimal.Decimal
	var account *models.Account
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		var err error
		account, err = getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		moved = decimal.Min(account.Dinks, amount)
		if !moved.IsPositive() {
			return ErrInsufficientFunds
		}

		before := account.Dinks
		account.Dinks = account.Dinks.Sub(moved)
		account.Invested = account.Invested.Add(moved)

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}
		return recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeInvest, nil)
	})
	if err != nil {
		return decimal.Zero, nil, err
	}
	return moved, account, nil
}

func (s *bankService) Claim(ctx context.Context, userID int64, amount decimal.Decimal) (*models.ClaimResult, error) {
	amount, err := validAmount(s.economy, amount)
	if err != nil {
		return nil, err
	}

	var result *models.ClaimResult
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		claimed := decimal.Min(account.Profit, amount)
		if !claimed.IsPositive() {
			return ErrInsufficientFunds
		}

		before := account.Dinks
		account.Profit = account.Profit.Sub(claimed)
		account.Dinks = account.Dinks.Add(claimed)

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}
		if err := recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeClaim, map[string]any{
			"profit": claimed.String(),
		}); err != nil {
			return err
		}

		result = &models.ClaimResult{
			ProfitClaimed:     claimed,
			PrincipalReturned: decimal.Zero,
			Account:           account,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *bankService) ClaimAll(ctx context.Context, userID int64) (*models.ClaimResult, error) {
	var result *models.ClaimResult
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if account.BankTotal().IsZero() {
			return ErrInsufficientFunds
		}

		result = &models.ClaimResult{
			ProfitClaimed:     account.Profit,
			PrincipalReturned: account.Invested,
			Account:           account,
		}

		before := account.Dinks
		account.Dinks = account.Dinks.Add(account.BankTotal())
		account.Invested = decimal.Zero
		account.Profit = decimal.Zero
		account.InvestedDays = 0

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}
		return recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeClaim, map[string]any{
			"profit":    result.ProfitClaimed.String(),
			"principal": result.PrincipalReturned.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *bankService) Upgrade(ctx context.Context, userID int64, track models.UpgradeTrack) (*models.UpgradeResult, error) {
	curve, ok := upgradeCurve(s.economy, track)
	if !ok {
		return nil, ErrInvalidTrack
	}

	var result *models.UpgradeResult
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		price := UpgradePrice(curve, account.Level(track))
		if account.Dinks.LessThan(price) {
			return ErrInsufficientFunds
		}

		before := account.Dinks
		account.Dinks = account.Dinks.Sub(price)
		switch track {
		case models.UpgradeTrackInterest:
			account.InterestLevel++
		case models.UpgradeTrackCapacity:
			account.CapacityLevel++
		case models.UpgradeTrackRob:
			account.RobLevel++
		}

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}
		if err := recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeUpgrade, map[string]any{
			"track": string(track),
			"level": account.Level(track),
		}); err != nil {
			return err
		}

		result = &models.UpgradeResult{
			Track:    track,
			NewLevel: account.Level(track),
			Price:    price,
			Account:  account,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"track":  track,
		"level":  result.NewLevel,
	}).Info("Bank upgrade purchased")
	return result, nil
}

func (s *bankService) Upgrades(ctx context.Context, userID int64) ([]models.UpgradeOption, error) {
	var account *models.Account
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		var err error
		account, err = getOrCreateAccount(ctx, uow, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	options := make([]models.UpgradeOption, 0, len(models.UpgradeTracks))
	for _, track := range models.UpgradeTracks {
		curve, _ := upgradeCurve(s.economy, track)
		level := account.Level(track)
		options = append(options, models.UpgradeOption{
			Track:     track,
			Level:     level,
			NextPrice: UpgradePrice(curve, level),
		})
	}
	return options, nil
}

func (s *bankService) BitcoinPrice(ctx context.Context) (decimal.Decimal, error) {
	if s.prices == nil {
		return decimal.Zero, ErrPriceUnavailable
	}
	price, err := s.prices.BitcoinPrice(ctx)
	if err != nil {
		return decimal.Zero, errors.Join(ErrPriceUnavailable, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, ErrPriceUnavailable
	}
	return price, nil
}

func (s *bankService) BuyBitcoin(ctx context.Context, userID int64, dinks decimal.Decimal) (*models.BitcoinTrade, error) {
	dinks, err := validAmount(s.economy, dinks)
	if err != nil {
		return nil, err
	}
	price, err := s.BitcoinPrice(ctx)
	if err != nil {
		return nil, err
	}

	coins := dinks.Div(price).Truncate(bitcoinPrecision)
	if !coins.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var trade *models.BitcoinTrade
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if account.Dinks.LessThan(dinks) {
			return ErrInsufficientFunds
		}

		before := account.Dinks
		account.Dinks = account.Dinks.Sub(dinks)
		account.Bitcoins = account.Bitcoins.Add(coins)

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}
		if err := recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeBitcoinBuy, map[string]any{
			"coins": coins.String(),
			"price": price.String(),
		}); err != nil {
			return err
		}

		trade = &models.BitcoinTrade{Coins: coins, Dinks: dinks, Price: price, Account: account}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *bankService) SellBitcoin(ctx context.Context, userID int64, coins decimal.Decimal) (*models.BitcoinTrade, error) {
	if err := CheckAmountMagnitude(coins); err != nil {
		return nil, err
	}
	coins = coins.Truncate(bitcoinPrecision)
	if !coins.IsPositive() {
		return nil, ErrInvalidAmount
	}
	price, err := s.BitcoinPrice(ctx)
	if err != nil {
		return nil, err
	}
	proceeds := money(s.economy, coins.Mul(price))

	var trade *models.BitcoinTrade
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if account.Bitcoins.LessThan(coins) {
			return ErrInsufficientFunds
		}

		before := account.Dinks
		account.Bitcoins = account.Bitcoins.Sub(coins)
		// Selling swaps bitcoin value for dinks, so the headroom is
		// measured with the coins already gone.
		account.Dinks = account.Dinks.Add(clampCredit(s.economy, account, price, proceeds))

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}
		if err := recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeBitcoinSell, map[string]any{
			"coins": coins.String(),
			"price": price.String(),
		}); err != nil {
			return err
		}

		trade = &models.BitcoinTrade{Coins: coins, Dinks: account.Dinks.Sub(before), Price: price, Account: account}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}
