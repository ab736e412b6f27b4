// Package chain encodes option contracts into OCC-style chain identifiers.
package chain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/pkg/errors"
)

const (
	expirationLayout = "060102"
	strikeScale      = 1000
	strikeWidth      = 8
	// suffixLen is YYMMDD + option type + strike field.
	suffixLen = len(expirationLayout) + 1 + strikeWidth

	// MaxStrike is the largest whole strike whose scaled value fits the strike field.
	MaxStrike = 99999
)

// Build encodes key as SYMBOL + YYMMDD + C|P + strike*1000 zero padded to eight digits,
// e.g. SPY220218C00420000.
func Build(key types.ChainKey) (string, error) {
	if err := ValidateSymbol(key.Symbol); err != nil {
		return "", err
	}

	if !key.Type.IsValid() {
		return "", errors.Newf(errors.ErrCodeInvalidOptionType, "invalid option type %q", key.Type)
	}

	if key.Strike <= 0 || key.Strike > MaxStrike {
		return "", errors.Newf(errors.ErrCodeInvalidStrike, "strike %d must be between 1 and %d", key.Strike, MaxStrike)
	}

	return fmt.Sprintf("%s%s%s%0*d",
		key.Symbol,
		key.Expiration.Format(expirationLayout),
		key.Type,
		strikeWidth,
		key.Strike*strikeScale,
	), nil
}

// ValidateSymbol reports whether symbol can prefix a chain identifier.
func ValidateSymbol(symbol string) error {
	if symbol == "" || strings.ContainsAny(symbol, " \t\n/\\:") {
		return errors.Newf(errors.ErrCodeInvalidParameter, "invalid underlying symbol %q", symbol)
	}

	return nil
}

// MustBuild is Build for keys already known to be valid. It panics otherwise.
func MustBuild(key types.ChainKey) string {
	id, err := Build(key)
	if err != nil {
		panic(err)
	}

	return id
}

// Parse decodes an identifier produced by Build.
func Parse(id string) (types.ChainKey, error) {
	if len(id) <= suffixLen {
		return types.ChainKey{}, errors.Newf(errors.ErrCodeInvalidIdentifier, "identifier %q is too short", id)
	}

	symbol := id[:len(id)-suffixLen]
	suffix := id[len(id)-suffixLen:]

	expiration, err := time.Parse(expirationLayout, suffix[:6])
	if err != nil {
		return types.ChainKey{}, errors.Wrapf(errors.ErrCodeInvalidIdentifier, err, "identifier %q has an invalid expiration", id)
	}

	optionType := types.OptionType(suffix[6:7])
	if !optionType.IsValid() {
		return types.ChainKey{}, errors.Newf(errors.ErrCodeInvalidOptionType, "identifier %q has an invalid option type", id)
	}

	scaled, err := strconv.Atoi(suffix[7:])
	if err != nil {
		return types.ChainKey{}, errors.Wrapf(errors.ErrCodeInvalidIdentifier, err, "identifier %q has an invalid strike", id)
	}

	if scaled%strikeScale != 0 || scaled == 0 {
		return types.ChainKey{}, errors.Newf(errors.ErrCodeInvalidStrike, "identifier %q does not encode a whole strike", id)
	}

	return types.ChainKey{
		Symbol:     symbol,
		Expiration: expiration,
		Strike:     scaled / strikeScale,
		Type:       optionType,
	}, nil
}
