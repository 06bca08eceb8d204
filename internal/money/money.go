package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a currency amount in integer minor units. Prices cross the wire
// as decimal numbers ("8.50") but are never held as floats, so repeated
// cart arithmetic cannot drift.
type Cents int64

var ErrBadDecimal = errors.New("money: malformed decimal amount")

func FromParts(units, hundredths int64) Cents {
	return Cents(units*100 + hundredths)
}

func (c Cents) Add(o Cents) Cents { return c + o }

func (c Cents) Mul(qty int) Cents { return c * Cents(qty) }

// ParseDecimal converts a decimal string such as "8.5" or "12.00" to cents.
// More than two fraction digits is an error, not a rounding.
func ParseDecimal(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadDecimal
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrBadDecimal
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, ErrBadDecimal
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrBadDecimal
	}
	var hundredths int64
	if fracPart != "00" {
		hundredths, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, ErrBadDecimal
		}
	}

	total := units*100 + hundredths
	if neg {
		total = -total
	}
	return Cents(total), nil
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cents) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := ParseDecimal(s)
	if err != nil {
		return fmt.Errorf("money: unmarshal %q: %w", data, err)
	}
	*c = v
	return nil
}

func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Cents) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = 0
	case int64:
		*c = Cents(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", v, err)
		}
		*c = Cents(n)
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}
