package dto

import (
	"html"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"batched-savings-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	addressRe    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	depositIDRe  = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	uintStringRe = regexp.MustCompile(`^[0-9]+$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("ledger_addr", validateAddress)
		_ = v.RegisterValidation("deposit_id", validateDepositID)
		_ = v.RegisterValidation("uint_str", validateUintString)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateAddress accepts a 20-byte hex address with 0x prefix.
func validateAddress(fl validator.FieldLevel) bool {
	return addressRe.MatchString(fl.Field().String())
}

// validateDepositID accepts a 32-byte hex identifier without prefix.
func validateDepositID(fl validator.FieldLevel) bool {
	return depositIDRe.MatchString(fl.Field().String())
}

// validateUintString accepts a non-negative decimal integer string. Magnitude
// limits are enforced by the service layer, not here.
func validateUintString(fl validator.FieldLevel) bool {
	return uintStringRe.MatchString(fl.Field().String())
}

// ParseDepositIDs decodes a sequence of hex identifiers.
func ParseDepositIDs(raw []string) ([]domain.DepositID, error) {
	ids := make([]domain.DepositID, 0, len(raw))
	for _, s := range raw {
		id, err := domain.ParseDepositID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseAmounts decodes a sequence of decimal amount strings.
func ParseAmounts(raw []string) ([]*big.Int, bool) {
	amounts := make([]*big.Int, 0, len(raw))
	for _, s := range raw {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, false
		}
		amounts = append(amounts, v)
	}
	return amounts, true
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				s := sanitize(elem.String())
				elem.SetString(s)
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
