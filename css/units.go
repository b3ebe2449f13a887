package css

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// precision of converted values, digits after decimal point
const unitPrecision = 3

var (
	pxPattern  = regexp.MustCompile(`(-?\d*\.?\d+)px\b`)
	remPattern = regexp.MustCompile(`(-?\d*\.?\d+)rem\b`)
)

// PxToRem rewrites every numeric px value as rem dividing it by base.
// Values too close to zero become bare 0.
func PxToRem(css string, base float64) string {
	return convertUnits(css, pxPattern, func(n float64) string {
		if math.Abs(n) < 1e-8 {
			return "0"
		}
		return formatNumber(n/base) + "rem"
	})
}

// RemToPx rewrites every numeric rem value as px multiplying it by base.
func RemToPx(css string, base float64) string {
	return convertUnits(css, remPattern, func(n float64) string {
		return formatNumber(n*base) + "px"
	})
}

func convertUnits(css string, re *regexp.Regexp, conv func(float64) string) string {
	return re.ReplaceAllStringFunc(css, func(match string) string {
		num := re.FindStringSubmatch(match)[1]
		n, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return match
		}
		return conv(n)
	})
}

// formatNumber prints value with fixed precision and removes trailing zeros
// and dangling decimal point: 1.500 -> 1.5, 2.000 -> 2. Exact halves are
// rounded away from zero: 0.0625 -> 0.063.
func formatNumber(v float64) string {
	s := fixed(v)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// fixed rounds exact binary value of v to unitPrecision digits, half away
// from zero.
func fixed(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', unitPrecision, 64)
	}

	scaled := new(big.Rat).SetFloat64(math.Abs(v))
	scaled.Mul(scaled, new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(unitPrecision), nil)))

	q, m := new(big.Int).QuoRem(scaled.Num(), scaled.Denom(), new(big.Int))
	if m.Lsh(m, 1).Cmp(scaled.Denom()) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	digits := q.String()
	if len(digits) <= unitPrecision {
		digits = strings.Repeat("0", unitPrecision-len(digits)+1) + digits
	}
	s := digits[:len(digits)-unitPrecision] + "." + digits[len(digits)-unitPrecision:]
	if v < 0 && q.Sign() != 0 {
		s = "-" + s
	}
	return s
}
