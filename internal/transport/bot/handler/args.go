package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrBadNumber       = errors.New("not a whole number")
	ErrNamesFormat     = errors.New("expected: character | artifact")

	errNoSession = errors.New("no active session")
)

// commandArgs drops the command itself, including any @botname suffix.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	return fields[1:]
}

type quoteArgs struct {
	rarity value.Rarity
	manual int
	roll   int
}

// parseQuote reads "<rarity> [manual] [roll]". The rarity may be written as
// two words, e.g. "very rare 10".
func parseQuote(args []string) (quoteArgs, error) {
	if len(args) == 0 {
		return quoteArgs{}, fmt.Errorf("%w: rarity", ErrMissingArgument)
	}

	if len(args) > 1 && strings.EqualFold(args[0], "very") {
		args = append([]string{args[0] + "_" + args[1]}, args[2:]...)
	}

	rarity, err := value.ParseRarity(args[0])
	if err != nil {
		return quoteArgs{}, err //nolint:wrapcheck
	}

	parsed := quoteArgs{rarity: rarity, roll: entity.DefaultPersuasionRoll}

	if len(args) > 1 {
		if parsed.manual, err = parseNumber(args[1]); err != nil {
			return quoteArgs{}, err
		}
	}

	if len(args) > 2 { //nolint:mnd
		if parsed.roll, err = parseNumber(args[2]); err != nil {
			return quoteArgs{}, err
		}
	}

	return parsed, nil
}

func parseRarity(args []string) (value.Rarity, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: rarity", ErrMissingArgument)
	}

	return value.ParseRarity(strings.Join(args, " ")) //nolint:wrapcheck
}

func parseSingleNumber(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}

	return parseNumber(args[0])
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}

	return n, nil
}

// parseNames splits "Character | Artifact". Either side may be empty to clear it.
func parseNames(args []string) (string, string, error) {
	character, artifact, ok := strings.Cut(strings.Join(args, " "), "|")
	if !ok {
		return "", "", ErrNamesFormat
	}

	return strings.TrimSpace(character), strings.TrimSpace(artifact), nil
}
