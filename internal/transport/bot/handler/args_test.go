package handler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
)

func TestCommandArgs(t *testing.T) {
	rq := require.New(t)

	rq.Nil(commandArgs(""))
	rq.Empty(commandArgs("/show"))
	rq.Equal([]string{"rare", "10"}, commandArgs("/quote@mystic_bot  rare   10"))
}

func TestParseQuote(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    quoteArgs
		wantErr error
	}{
		{
			name: "rarity only",
			args: []string{"rare"},
			want: quoteArgs{rarity: value.RarityRare, roll: entity.DefaultPersuasionRoll},
		},
		{
			name: "all arguments",
			args: []string{"uncommon", "15%", "22"},
			want: quoteArgs{rarity: value.RarityUncommon, manual: 15, roll: 22},
		},
		{
			name: "two word rarity",
			args: []string{"Very", "Rare", "5"},
			want: quoteArgs{rarity: value.RarityVeryRare, manual: 5, roll: entity.DefaultPersuasionRoll},
		},
		{
			name:    "missing rarity",
			wantErr: ErrMissingArgument,
		},
		{
			name:    "unknown rarity",
			args:    []string{"legendary"},
			wantErr: value.ErrUnknownRarity,
		},
		{
			name:    "bad discount",
			args:    []string{"rare", "lots"},
			wantErr: ErrBadNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			got, err := parseQuote(tt.args)
			if tt.wantErr != nil {
				rq.ErrorIs(err, tt.wantErr)
				return
			}

			rq.NoError(err)
			rq.Equal(tt.want, got)
		})
	}
}

func TestParseRarity(t *testing.T) {
	rq := require.New(t)

	rarity, err := parseRarity([]string{"very", "rare"})
	rq.NoError(err)
	rq.Equal(value.RarityVeryRare, rarity)

	_, err = parseRarity(nil)
	rq.ErrorIs(err, ErrMissingArgument)
}

func TestParseSingleNumber(t *testing.T) {
	rq := require.New(t)

	n, err := parseSingleNumber([]string{"-3"}, "roll")
	rq.NoError(err)
	rq.Equal(-3, n)

	_, err = parseSingleNumber(nil, "roll")
	rq.ErrorIs(err, ErrMissingArgument)

	_, err = parseSingleNumber([]string{"1.5"}, "roll")
	rq.ErrorIs(err, ErrBadNumber)
}

func TestParseNames(t *testing.T) {
	rq := require.New(t)

	character, artifact, err := parseNames([]string{"Lia", "Stormborn", "|", "Cloak", "of", "Elvenkind"})
	rq.NoError(err)
	rq.Equal("Lia Stormborn", character)
	rq.Equal("Cloak of Elvenkind", artifact)

	character, artifact, err = parseNames([]string{"|"})
	rq.NoError(err)
	rq.Empty(character)
	rq.Empty(artifact)

	_, _, err = parseNames([]string{"Lia"})
	rq.ErrorIs(err, ErrNamesFormat)
}
