package simdcsv

import (
	"math"
	"strconv"
	"time"
)

// Field is a zero-copy (begin, end) handle into a Mapped Source's byte
// range. View, Len, Empty and the fast parsers read the bytes in place;
// String copies them, and so does ParseFloat64 when it falls back to
// strconv.
type Field struct {
	base  []byte
	start uint32
	end   uint32
}

func newField(base []byte, start, end uint32) Field {
	return Field{base: base, start: start, end: end}
}

// View returns the field's bytes as a borrowed slice into the mapping.
// The slice is invalid once the owning Mapped Source is closed.
func (f Field) View() []byte {
	return f.base[f.start:f.end]
}

// Len returns the field's byte length.
func (f Field) Len() int {
	return int(f.end - f.start)
}

// Empty reports whether begin == end.
func (f Field) Empty() bool {
	return f.start == f.end
}

// String copies the field's bytes into a new Go string. Unlike View, this
// allocates.
func (f Field) String() string {
	return string(f.View())
}

// IsNull applies a NullPolicy's vocabulary to the field. It is a free
// function, not a method, because Go methods cannot introduce their own
// type parameters independent of the receiver's.
func IsNull[NP NullPolicy](f Field) bool {
	var policy NP
	v := f.View()
	switch len(v) {
	case 0:
		return policy.checkEmpty()
	case 1:
		return policy.checkDash() && v[0] == '-'
	case 2:
		return policy.checkNA() && v[0] == 'N' && v[1] == 'A'
	case 3:
		if !policy.checkNA() {
			return false
		}
		return (v[0] == 'N' && v[1] == '/' && v[2] == 'A') ||
			(v[0] == 'n' && v[1] == '/' && v[2] == 'a')
	case 4:
		if policy.checkNullWord() && (equalsBytes(v, "null") || equalsBytes(v, "NULL") || equalsBytes(v, "None")) {
			return true
		}
		if policy.checkNone() && (equalsBytes(v, "None") || equalsBytes(v, "none") || equalsBytes(v, "NONE")) {
			return true
		}
		return false
	default:
		return false
	}
}

func equalsBytes(v []byte, s string) bool {
	if len(v) != len(s) {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] != s[i] {
			return false
		}
	}
	return true
}

// ParseInt64 consumes the entire field as a base-10 signed integer with an
// optional leading '+' or '-'. It fails with ErrOutOfRange if the value
// does not fit an int64, ErrInvalidInteger otherwise.
func (f Field) ParseInt64() (int64, error) {
	v := f.View()
	if len(v) == 0 {
		return 0, &ParseError{Code: InvalidInteger, Field: f}
	}
	i := 0
	neg := false
	switch v[0] {
	case '+':
		i = 1
	case '-':
		neg = true
		i = 1
	}
	if i == len(v) {
		return 0, &ParseError{Code: InvalidInteger, Field: f}
	}
	var acc uint64
	for ; i < len(v); i++ {
		c := v[i]
		if c < '0' || c > '9' {
			return 0, &ParseError{Code: InvalidInteger, Field: f}
		}
		d := uint64(c - '0')
		if acc > (1<<64-1-d)/10 {
			return 0, &ParseError{Code: OutOfRange, Field: f}
		}
		acc = acc*10 + d
	}
	if neg {
		if acc > 1<<63 {
			return 0, &ParseError{Code: OutOfRange, Field: f}
		}
		return -int64(acc), nil
	}
	if acc > 1<<63-1 {
		return 0, &ParseError{Code: OutOfRange, Field: f}
	}
	return int64(acc), nil
}

// ParseUint64 consumes the entire field as a base-10 unsigned integer. A
// leading '+' is accepted; a leading '-' is a parse failure.
func (f Field) ParseUint64() (uint64, error) {
	v := f.View()
	if len(v) == 0 {
		return 0, &ParseError{Code: InvalidInteger, Field: f}
	}
	i := 0
	if v[0] == '+' {
		i = 1
	}
	if i == len(v) {
		return 0, &ParseError{Code: InvalidInteger, Field: f}
	}
	var acc uint64
	for ; i < len(v); i++ {
		c := v[i]
		if c < '0' || c > '9' {
			return 0, &ParseError{Code: InvalidInteger, Field: f}
		}
		d := uint64(c - '0')
		if acc > (^uint64(0)-d)/10 {
			return 0, &ParseError{Code: OutOfRange, Field: f}
		}
		acc = acc*10 + d
	}
	return acc, nil
}

// ParseFloat64 accepts decimal notation with an optional sign, integer
// part, fractional part, and exponent. The whole field must be consumed.
//
// A fast path handles the sign/integer/fraction case without allocating;
// anything it does not handle (an exponent, more significant digits than
// fit exactly in a float64 mantissa, or malformed input) falls back to
// strconv.ParseFloat, which is the only place a successful call allocates.
func (f Field) ParseFloat64() (float64, error) {
	v := f.View()
	if len(v) == 0 {
		return 0, &ParseError{Code: InvalidFloat, Field: f}
	}
	if val, ok := parseFloatFast(v); ok {
		return val, nil
	}
	val, err := strconv.ParseFloat(string(v), 64)
	if err != nil {
		return 0, &ParseError{Code: InvalidFloat, Field: f}
	}
	return val, nil
}

// maxFastDigits bounds how many integer or fractional digits the fast path
// will accumulate; up to 15 digits the accumulated integer converts to
// float64 exactly (2^53 has 16 digits), so longer runs defer to strconv's
// arbitrary-precision path instead of returning a subtly wrong value.
const maxFastDigits = 15

// parseFloatFast handles sign, integer digits, and a fractional part with
// no exponent, reading directly from the field's byte view. It reports
// ok=false for anything outside that shape so the caller can defer to the
// general parser.
func parseFloatFast(v []byte) (float64, bool) {
	i := 0
	neg := false
	switch v[0] {
	case '+':
		i = 1
	case '-':
		neg = true
		i = 1
	}
	if i == len(v) {
		return 0, false
	}

	intStart := i
	var intPart uint64
	for i < len(v) && v[i] >= '0' && v[i] <= '9' {
		intPart = intPart*10 + uint64(v[i]-'0')
		i++
	}
	intDigits := i - intStart
	if intDigits > maxFastDigits {
		return 0, false
	}
	hasInt := intDigits > 0
	result := float64(intPart)

	if i < len(v) && v[i] == '.' {
		i++
		fracStart := i
		var frac uint64
		for i < len(v) && v[i] >= '0' && v[i] <= '9' {
			frac = frac*10 + uint64(v[i]-'0')
			i++
		}
		fracDigits := i - fracStart
		if fracDigits > maxFastDigits {
			return 0, false
		}
		if fracDigits == 0 && !hasInt {
			return 0, false
		}
		if fracDigits > 0 {
			result += float64(frac) / math.Pow10(fracDigits)
		}
	} else if !hasInt {
		return 0, false
	}

	if i != len(v) {
		// Exponent or trailing garbage: let strconv decide validity.
		return 0, false
	}
	if neg {
		result = -result
	}
	return result, true
}

// ParseBool maps the field to true/false per the fixed vocabulary
// {"1","t","T","y","Y","true","True","TRUE","yes","Yes","YES"} and
// {"0","f","F","n","N","false","False","FALSE","no","No","NO"}.
func (f Field) ParseBool() (bool, error) {
	v := f.View()
	switch string(v) {
	case "1", "t", "T", "y", "Y", "true", "True", "TRUE", "yes", "Yes", "YES":
		return true, nil
	case "0", "f", "F", "n", "N", "false", "False", "FALSE", "no", "No", "NO":
		return false, nil
	default:
		return false, &ParseError{Code: InvalidBool, Field: f}
	}
}

// ParseDate accepts exactly "YYYY-MM-DD" (10 bytes) with calendar-valid
// month, day, and leap-year handling.
func (f Field) ParseDate() (time.Time, error) {
	v := f.View()
	if len(v) != 10 || v[4] != '-' || v[7] != '-' {
		return time.Time{}, &ParseError{Code: InvalidDate, Field: f}
	}
	year, ok := digits4(v[0:4])
	if !ok {
		return time.Time{}, &ParseError{Code: InvalidDate, Field: f}
	}
	month, ok := digits2(v[5:7])
	if !ok {
		return time.Time{}, &ParseError{Code: InvalidDate, Field: f}
	}
	day, ok := digits2(v[8:10])
	if !ok {
		return time.Time{}, &ParseError{Code: InvalidDate, Field: f}
	}
	if !validCalendarDate(year, month, day) {
		return time.Time{}, &ParseError{Code: InvalidDate, Field: f}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParseDateTime accepts "YYYY-MM-DD<sep>HH:MM:SS" (19 bytes) where sep is
// ' ' or 'T'. Seconds up to 60 (leap second) are tolerated.
func (f Field) ParseDateTime() (time.Time, error) {
	v := f.View()
	if len(v) != 19 || v[4] != '-' || v[7] != '-' || (v[10] != ' ' && v[10] != 'T') ||
		v[13] != ':' || v[16] != ':' {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	year, ok := digits4(v[0:4])
	if !ok {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	month, ok := digits2(v[5:7])
	if !ok {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	day, ok := digits2(v[8:10])
	if !ok {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	if !validCalendarDate(year, month, day) {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	hour, ok := digits2(v[11:13])
	if !ok || hour > 23 {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	minute, ok := digits2(v[14:16])
	if !ok || minute > 59 {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	second, ok := digits2(v[17:19])
	if !ok || second > 60 {
		return time.Time{}, &ParseError{Code: InvalidDateTime, Field: f}
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

func digits2(b []byte) (int, bool) {
	if b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
		return 0, false
	}
	return int(b[0]-'0')*10 + int(b[1]-'0'), true
}

func digits4(b []byte) (int, bool) {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func validCalendarDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	daysInMonth := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	max := daysInMonth[month-1]
	if month == 2 && isLeapYear(year) {
		max = 29
	}
	return day <= max
}

// Int64Or runs ParseInt64 and returns def on failure.
func (f Field) Int64Or(def int64) int64 {
	v, err := f.ParseInt64()
	if err != nil {
		return def
	}
	return v
}

// Float64Or runs ParseFloat64 and returns def on failure.
func (f Field) Float64Or(def float64) float64 {
	v, err := f.ParseFloat64()
	if err != nil {
		return def
	}
	return v
}

// BoolOr runs ParseBool and returns def on failure.
func (f Field) BoolOr(def bool) bool {
	v, err := f.ParseBool()
	if err != nil {
		return def
	}
	return v
}

// StringOr returns the field's string value, or def if the field is empty.
func (f Field) StringOr(def string) string {
	if f.Empty() {
		return def
	}
	return f.String()
}

// OptionalInt64 returns (0, false) if IsNull under NP, else the result of
// ParseInt64 mapped to (value, true)/(0, false).
func OptionalInt64[NP NullPolicy](f Field) (int64, bool) {
	if IsNull[NP](f) {
		return 0, false
	}
	v, err := f.ParseInt64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// OptionalFloat64 mirrors OptionalInt64 for float64.
func OptionalFloat64[NP NullPolicy](f Field) (float64, bool) {
	if IsNull[NP](f) {
		return 0, false
	}
	v, err := f.ParseFloat64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// OptionalBool mirrors OptionalInt64 for bool.
func OptionalBool[NP NullPolicy](f Field) (bool, bool) {
	if IsNull[NP](f) {
		return false, false
	}
	v, err := f.ParseBool()
	if err != nil {
		return false, false
	}
	return v, true
}

// OptionalString mirrors OptionalInt64 for string; string parsing never
// fails, so the only source of absence is the null policy.
func OptionalString[NP NullPolicy](f Field) (string, bool) {
	if IsNull[NP](f) {
		return "", false
	}
	return f.String(), true
}
