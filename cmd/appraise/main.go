package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"mystic_market/internal/config"
	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/service/pricing"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/logx"
)

// go run ./cmd/appraise <rarity> [manual discount] [persuasion roll]
//
// e.g. go run ./cmd/appraise very_rare 10 22

var errUsage = errors.New("usage: appraise <rarity> [manual discount] [persuasion roll]")

func main() {
	log := logx.New(os.Stderr, slog.LevelInfo, false)

	if err := run(os.Args[1:]); err != nil {
		log.Error("appraise failed", logx.Error(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || len(args) > 3 {
		return errUsage
	}

	_ = godotenv.Load()

	var cfg config.Pricing
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("env.Parse: %w", err)
	}

	policy, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("cfg.Policy: %w", err)
	}

	rarity, err := value.ParseRarity(args[0])
	if err != nil {
		return fmt.Errorf("value.ParseRarity: %w", err)
	}

	manual, roll := 0, entity.DefaultPersuasionRoll

	if len(args) > 1 {
		if manual, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("manual discount: %w", err)
		}
	}

	if len(args) > 2 {
		if roll, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("persuasion roll: %w", err)
		}
	}

	if err := policy.ValidateManualDiscount(manual); err != nil {
		return err //nolint:wrapcheck
	}

	if err := policy.ValidatePersuasionRoll(roll); err != nil {
		return err //nolint:wrapcheck
	}

	base := pricing.RollPrice(rarity, pricing.NewRandomSource(cfg.Seed))
	v := policy.Evaluate(rarity, base, manual, roll)

	fmt.Printf("%s\nbase price:  %s\ndiscount:    %d%% manual + %d%% persuasion = %d%%\nfinal price: %s\n",
		rarity.DisplayName(), v.BasePrice, v.ManualDiscount, v.PersuasionDiscount, v.TotalDiscount, v.FinalPrice)

	return nil
}
