package quantnote

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// ChainParams selects the chain for chain-scoped lookups.
type ChainParams struct {
	Chain Chain `param:"chain" default:"bsc" validate:"chain"`
}

// TokenRef names a token either by contract address or by ticker symbol.
// An explicit contract wins; a symbol listed on several chains needs Chain
// to disambiguate.
type TokenRef struct {
	Symbol   string `param:"symbol"`
	Contract string `param:"contract" validate:"omitempty,hexaddr"`
	Chain    Chain  `param:"chain" default:"bsc" validate:"chain"`
}

func (r *TokenRef) requireTarget(add func(field, reason string)) {
	if strings.TrimSpace(r.Symbol) == "" && strings.TrimSpace(r.Contract) == "" {
		add("symbol", "either symbol or contract must be set")
	}
}

// setPageQuery writes the shared listing parameters into q, leaving unset
// ones off the wire. The sort expression passes through as given.
func setPageQuery(q url.Values, limit int, page int64, sort string) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if page > 0 {
		q.Set("page", strconv.FormatInt(page, 10))
	}
	if sort = strings.TrimSpace(sort); sort != "" {
		q.Set("sort", sort)
	}
}

// sortSupportedColumns is the service-wide set of sortable columns. A sort
// expression must name a column present both here and in the calling
// method's own column list.
var sortSupportedColumns = map[string]bool{
	"market_cap":         true,
	"liquidity_usd":      true,
	"name":               true,
	"symbol":             true,
	"total_supply":       true,
	"circulating_supply": true,
	"price_stable":       true,
	"price_peg":          true,
	"time":               true,
	"created_at":         true,
}

// sortColumnSets keys the per-method column lists for the sortexpr rule.
var sortColumnSets = map[string][]string{
	"listing": {
		"chain", "circulating_supply", "contract", "decimals", "liquidity_usd",
		"market_cap", "name", "price_change_24_h", "price_change_7_d",
		"price_peg", "price_usd", "symbol", "total_supply", "volume_24_h",
	},
	"swaps": {"amount_0", "amount_1", "time", "token_contract", "token_symbol"},
}

// splitSortExpr parses "+column", "-column", "column.asc" or "column.desc".
// Matching is case-insensitive; the raw expression still goes on the wire.
func splitSortExpr(expr string) (col, order string, ok bool) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if i := strings.IndexByte(expr, '.'); i >= 0 {
		return expr[:i], expr[i+1:], true
	}
	if len(expr) < 2 {
		return "", "", false
	}
	return expr[1:], expr[:1], true
}

func validSortExpr(expr, setName string) bool {
	col, order, ok := splitSortExpr(expr)
	if !ok {
		return false
	}
	switch order {
	case "+", "-", "asc", "desc":
	default:
		return false
	}
	if !sortSupportedColumns[col] {
		return false
	}
	for _, allowed := range sortColumnSets[setName] {
		if col == allowed {
			return true
		}
	}
	return false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// paramValidator returns the shared validator with the domain rules
// registered: chain spellings, resolution enums, against currencies, hex
// contract addresses, date spellings and sort expressions.
func paramValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("param"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
			return fld.Name
		})
		must := func(tag string, fn validator.Func) {
			if err := validate.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
		must("chain", func(fl validator.FieldLevel) bool {
			_, ok := Chain(fl.Field().String()).ID()
			return ok
		})
		must("resolution", func(fl validator.FieldLevel) bool {
			return Resolution(fl.Field().String()).valid()
		})
		must("series_resolution", func(fl validator.FieldLevel) bool {
			return Resolution(fl.Field().String()).plannable()
		})
		must("against", func(fl validator.FieldLevel) bool {
			switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
			case "USD", "PEG":
				return true
			}
			return false
		})
		must("hexaddr", func(fl validator.FieldLevel) bool {
			return common.IsHexAddress(fl.Field().String())
		})
		must("date", func(fl validator.FieldLevel) bool {
			return validDateValue(fl.Field().String())
		})
		must("sortexpr", func(fl validator.FieldLevel) bool {
			return validSortExpr(fl.Field().String(), fl.Param())
		})
	})
	return validate
}

// checkParams fills defaults into p (a struct pointer), then gathers every
// violated constraint instead of stopping at the first. relational adds
// cross-field checks the tag rules cannot express; it may be nil.
func checkParams(p any, relational func(add func(field, reason string))) error {
	if err := defaults.Set(p); err != nil {
		return fmt.Errorf("quantnote: apply parameter defaults: %w", err)
	}
	var violations []Violation
	add := func(field, reason string) {
		violations = append(violations, Violation{Field: field, Reason: reason})
	}
	if err := paramValidator().Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("quantnote: validate parameters: %w", err)
		}
		for _, fe := range fieldErrs {
			add(fe.Field(), violationReason(fe))
		}
	}
	if relational != nil {
		relational(add)
	}
	if len(violations) > 0 {
		return &ParamsError{Violations: violations}
	}
	return nil
}

// violationReason spells out the constraint a failed rule enforces.
func violationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "chain":
		return fmt.Sprintf("unsupported chain %q, use bsc, eth, polygon, avax, ftm or a known chain id", fe.Value())
	case "resolution", "series_resolution":
		return fmt.Sprintf("unsupported resolution %q", fe.Value())
	case "against":
		return fmt.Sprintf("against must be USD or PEG, got %q", fe.Value())
	case "hexaddr":
		return fmt.Sprintf("%q is not a contract address", fe.Value())
	case "date":
		return fmt.Sprintf("unrecognized date %q", fe.Value())
	case "sortexpr":
		return fmt.Sprintf("unsupported sort expression %q", fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	default:
		return fmt.Sprintf("violates %s constraint", fe.Tag())
	}
}
