package service

import (
	"context"
	"fmt"

	"dinks/config"
	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type robService struct {
	uowFactory UnitOfWorkFactory
	economy    config.Economy
	prices     PriceSource
	rng        RandomSource
}

// NewRobService creates a new rob service
func NewRobService(uowFactory UnitOfWorkFactory, economy config.Economy, prices PriceSource, rng RandomSource) RobService {
	return &robService{
		uowFactory: uowFactory,
		economy:    economy,
		prices:     prices,
		rng:        rng,
	}
}

func (s *robService) Rob(ctx context.Context, req RobRequest) (*models.RobResult, error) {
	if req.AttackerID == req.TargetID {
		return nil, ErrSelfTarget
	}
	if req.TargetIsBot {
		return nil, ErrInvalidTarget
	}
	quote := bitcoinQuote(ctx, s.prices)

	var result *models.RobResult
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		attacker, target, err := s.loadParticipants(ctx, uow, req)
		if err != nil {
			return err
		}

		if err := quote.guard(attacker, target); err != nil {
			return err
		}

		result = s.resolve(attacker, target)
		return s.apply(ctx, uow, attacker, target, quote.price, result)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"attackerID": req.AttackerID,
		"targetID":   req.TargetID,
		"outcome":    result.Outcome,
		"roll":       result.Roll,
		"threshold":  result.Threshold,
		"stolen":     result.Stolen.String(),
	}).Info("Rob attempt resolved")
	return result, nil
}

// loadParticipants checks every precondition before any roll is made
func (s *robService) loadParticipants(ctx context.Context, uow UnitOfWork, req RobRequest) (*models.Account, *models.Account, error) {
	attackerRecord, err := uow.PrisonRepository().Get(ctx, req.AttackerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get attacker prison record: %w", err)
	}
	if attackerRecord != nil {
		return nil, nil, ErrAlreadyImprisoned
	}
	targetRecord, err := uow.PrisonRepository().Get(ctx, req.TargetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get target prison record: %w", err)
	}
	if targetRecord != nil {
		return nil, nil, ErrInvalidTarget
	}

	attacker, err := getOrCreateAccount(ctx, uow, req.AttackerID)
	if err != nil {
		return nil, nil, err
	}
	one := decimal.NewFromInt(1)
	if attacker.Dinks.LessThan(one) {
		return nil, nil, ErrInsufficientFunds
	}

	target, err := getOrCreateAccount(ctx, uow, req.TargetID)
	if err != nil {
		return nil, nil, err
	}
	if target.Dinks.LessThan(one) && target.Invested.LessThan(one) {
		return nil, nil, ErrInvalidTarget
	}
	return attacker, target, nil
}

// resolve rolls the outcome. It only reads the accounts.
func (s *robService) resolve(attacker, target *models.Account) *models.RobResult {
	result := &models.RobResult{
		AttackerID: attacker.UserID,
		TargetID:   target.UserID,
		Threshold:  RobThreshold(s.economy, target.RobLevel),
		Stolen:     decimal.Zero,
		Paid:       decimal.Zero,
	}

	// TODO: the roll floor uses capacity_level, which also sizes the loot.
	// Switch to rob_level if that track gains an offensive effect.
	result.Roll = rollBetween(s.rng, attacker.CapacityLevel, s.economy.RobRollMax)
	if result.Roll > result.Threshold {
		result.Outcome = models.RobOutcomeSuccess
		return result
	}

	result.Fate = rollBetween(s.rng, 1, s.economy.RobFateSides)
	switch {
	case result.Fate < s.economy.RobLeaveBehindMax:
		result.Outcome = models.RobOutcomeLeftBehind
	case result.Fate == s.economy.RobCaughtFate:
		result.Outcome = models.RobOutcomeCaught
	default:
		result.Outcome = models.RobOutcomeEscaped
	}
	return result
}

// apply books the outcome on both accounts and the prison table
func (s *robService) apply(ctx context.Context, uow UnitOfWork, attacker, target *models.Account, price decimal.Decimal, result *models.RobResult) error {
	capacity := Capacity(s.economy, attacker.CapacityLevel)
	attackerBefore, targetBefore := attacker.Dinks, target.Dinks
	targetChanged := false

	switch result.Outcome {
	case models.RobOutcomeSuccess:
		stolen := decimal.Min(capacity, target.Invested.Add(target.Dinks))
		stolen = clampCredit(s.economy, attacker, price, stolen)
		fromInvested := decimal.Min(stolen, target.Invested)
		fromDinks := stolen.Sub(fromInvested)

		target.Invested = target.Invested.Sub(fromInvested)
		target.Dinks = target.Dinks.Sub(fromDinks)
		attacker.Dinks = attacker.Dinks.Add(stolen)
		attacker.RobSuccesses++
		attacker.RobStolen = attacker.RobStolen.Add(stolen)
		result.Stolen = stolen
		targetChanged = stolen.IsPositive()

	case models.RobOutcomeLeftBehind:
		punishment := money(s.economy, capacity.Div(decimal.NewFromInt(2)))
		paid := decimal.Min(punishment, attacker.Dinks)
		attacker.Dinks = attacker.Dinks.Sub(paid)
		// Whatever the target cannot hold under the cap is lost
		target.Dinks = target.Dinks.Add(clampCredit(s.economy, target, price, paid))
		attacker.RobFailures++
		result.Paid = paid
		targetChanged = paid.IsPositive()

		if shortfall := punishment.Sub(paid); shortfall.IsPositive() {
			result.Prison = newPrisonRecord(s.economy, attacker.UserID, shortfall, JailDays(s.economy, attacker.CapacityLevel))
		}

	case models.RobOutcomeCaught:
		attacker.RobFailures++
		result.Prison = newPrisonRecord(s.economy, attacker.UserID, capacity, JailDays(s.economy, attacker.CapacityLevel))

	default:
		attacker.RobFailures++
	}

	if targetChanged {
		if err := updateAccounts(ctx, uow, attacker, target); err != nil {
			return err
		}
	} else if err := updateAccounts(ctx, uow, attacker); err != nil {
		return err
	}

	if result.Prison != nil {
		reason := events.PrisonReasonShortfall
		if result.Outcome == models.RobOutcomeCaught {
			reason = events.PrisonReasonCaught
		}
		if err := imprison(ctx, uow, result.Prison, reason); err != nil {
			return fmt.Errorf("failed to imprison attacker: %w", err)
		}
	}

	attackerType, targetType := models.TransactionTypeRobGain, models.TransactionTypeRobLoss
	if result.Outcome != models.RobOutcomeSuccess {
		attackerType, targetType = models.TransactionTypeRobPenaltyPaid, models.TransactionTypeRobPenaltyGain
	}
	metadata := map[string]any{
		"attacker_id": attacker.UserID,
		"target_id":   target.UserID,
		"outcome":     string(result.Outcome),
	}
	if err := recordDinksChange(ctx, uow, attacker.UserID, attackerBefore, attacker.Dinks, attackerType, metadata); err != nil {
		return err
	}
	if err := recordDinksChange(ctx, uow, target.UserID, targetBefore, target.Dinks, targetType, metadata); err != nil {
		return err
	}

	uow.EventBus().Publish(events.RobAttemptedEvent{
		AttackerID: attacker.UserID,
		TargetID:   target.UserID,
		Outcome:    result.Outcome,
		Stolen:     result.Stolen,
		Paid:       result.Paid,
	})
	return nil
}
