package currency

import (
	"errors"
	"fmt"
	"strings"

	isocurrency "golang.org/x/text/currency"
)

type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	AUD Code = "AUD"
	CAD Code = "CAD"
	PKR Code = "PKR"
	INR Code = "INR"

	EmptyCode Code = ""

	// BaseCurrency is the currency every fetched rate is expressed against.
	BaseCurrency = USD
)

var (
	ErrInvalidCode     = errors.New("value is not a valid ISO 4217 currency code")
	ErrUnsupportedCode = errors.New("currency is not supported")

	supported = [...]Code{USD, EUR, GBP, JPY, AUD, CAD, PKR, INR}
)

// Codes returns the supported currencies in display order.
func Codes() []Code {
	codes := make([]Code, len(supported))
	copy(codes, supported[:])

	return codes
}

func (c Code) IsSupported() bool {
	for _, s := range supported {
		if s == c {
			return true
		}
	}

	return false
}

func (c Code) String() string {
	return string(c)
}

// Scale returns the number of minor-unit digits ISO 4217 defines for the currency.
func (c Code) Scale() int {
	unit, err := isocurrency.ParseISO(string(c))
	if err != nil {
		return 2
	}

	scale, _ := isocurrency.Standard.Rounding(unit)

	return scale
}

func ConvertToCodesFromStringSlice(strs []string) ([]Code, error) {
	codes := make([]Code, 0, len(strs))

	for _, str := range strs {
		code, err := ConvertToCodeFromString(str)
		if err != nil {
			return nil, err
		}

		codes = append(codes, code)
	}

	return codes, nil
}

func ConvertToCodeFromString(str string) (Code, error) {
	normalized := strings.ToUpper(strings.TrimSpace(str))

	if _, err := isocurrency.ParseISO(normalized); err != nil {
		return EmptyCode, fmt.Errorf("%w: %q", ErrInvalidCode, str)
	}

	code := Code(normalized)

	if !code.IsSupported() {
		return EmptyCode, fmt.Errorf("%w: %s", ErrUnsupportedCode, normalized)
	}

	return code, nil
}

func (c *Code) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}

	code, err := ConvertToCodeFromString(str)
	if err != nil {
		return err
	}

	*c = code

	return nil
}

func (c Code) MarshalYAML() (interface{}, error) {
	return string(c), nil
}
