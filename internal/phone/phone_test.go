package phone

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid_SpanishMobile(t *testing.T) {
	// 9-digit numbers starting 6 or 7 are valid regardless of the
	// foreign-number policy.
	for _, first := range []string{"6", "7"} {
		num := first + "09553462"
		assert.True(t, IsValid(num, false), num)
		assert.True(t, IsValid(num, true), num)
	}
}

func TestIsValid_SpanishLandlineRejectedWhenDomesticOnly(t *testing.T) {
	assert.False(t, IsValid("919237378", false))
	// Loose fallback accepts it once foreign numbers are allowed.
	assert.True(t, IsValid("919237378", true))
}

func TestIsValid_PlusPrefix(t *testing.T) {
	assert.True(t, IsValid("+34600111222", false))
	assert.True(t, IsValid("+447911123456", false))
	assert.False(t, IsValid("+3460011", false)) // too few digits
	assert.False(t, IsValid("+1234567890123456", false))
}

func TestIsValid_ZeroZeroPrefix(t *testing.T) {
	assert.True(t, IsValid("0034600111222", false))
	assert.True(t, IsValid("00447911123456", false))
	assert.False(t, IsValid("0034600111", false))
}

func TestIsValid_CountryCode(t *testing.T) {
	assert.True(t, IsValid("34600111222", false))
	assert.False(t, IsValid("3460011122", false)) // 10 digits starting 34
}

func TestIsValid_Foreign(t *testing.T) {
	cases := []struct {
		raw           string
		domestic, any bool
	}{
		{"447911123456", false, true},
		{"15551234567", false, true},
		{"", false, false},
		{"nan", false, false},
		{"12345", false, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.domestic, IsValid(tc.raw, false), tc.raw)
		assert.Equal(t, tc.any, IsValid(tc.raw, true), tc.raw)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		raw  string
		want Category
	}{
		{"+34600111222", SpanishInternational},
		{"+447911123456", ForeignInternational},
		{"0034600111222", SpanishInternationalZeroZero},
		{"00447911123456", ForeignInternationalZeroZero},
		{"609553462", SpanishNational},
		{"712345678", SpanishNational},
		{"34600111222", SpanishWithCountryCode},
		{"447911123456", Foreign},
		{"919 23 73 78", SpecialFormat},
		{"12345", Unknown},
		{"", Invalid},
		{"nan", Invalid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.raw), tc.raw)
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Español Nacional", SpanishNational.String())
	assert.Equal(t, "Inválido", Invalid.String())
}

func TestFormatForChannel(t *testing.T) {
	cases := []struct {
		raw, want string
	}{
		{"+34600111222", "+34600111222"}, // already formatted, untouched
		{"0034600111222", "+34600111222"},
		{"00447911123456", "+447911123456"},
		{"34600111222", "+34600111222"},
		{"609553462", "+34609553462"},
		{"609 55 34 62", "+34609553462"},
		{"447911123456", "+447911123456"},
		{"60955", "+3460955"}, // incomplete, assumed domestic
		{"919237378", "+34919237378"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatForChannel(tc.raw), tc.raw)
	}
}

func TestFormatForChannel_SpanishMobilesGetCountryCode(t *testing.T) {
	for i := 0; i < 10; i++ {
		num := fmt.Sprintf("6%08d", i*11111111%100000000)
		assert.Equal(t, "+34"+num, FormatForChannel(num))
	}
}

func TestExtractFromNoisyField(t *testing.T) {
	// Phone appended to a flight code after punctuation.
	assert.Equal(t, "609553462", ExtractFromNoisyField("T4-T4-IB23677-609553462", true))
	// Run anchored at the end wins.
	assert.Equal(t, "609553462", ExtractFromNoisyField("IB23677 609553462", true))
	// Space-separated run in the middle.
	assert.Equal(t, "609553462", ExtractFromNoisyField("vuelo 609553462 (conf)", true))
	// Nothing valid.
	assert.Equal(t, "", ExtractFromNoisyField("IB23677", true))
	assert.Equal(t, "", ExtractFromNoisyField("", true))
	assert.Equal(t, "", ExtractFromNoisyField("nan", true))
}

func TestExtractFromNoisyField_RespectsPolicy(t *testing.T) {
	// A UK number embedded in a flight field is only extracted when the
	// foreign policy allows it.
	assert.Equal(t, "447911123456", ExtractFromNoisyField("BA123-447911123456", true))
	assert.Equal(t, "", ExtractFromNoisyField("BA123-447911123456", false))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "34600111222", Digits("+34 600-111-222"))
	assert.Equal(t, "", Digits("abc"))
}

func TestSanityProperty_NineDigitMobiles(t *testing.T) {
	for _, num := range []string{"600000000", "655443322", "799999999", "712312312"} {
		assert.True(t, IsValid(num, false))
		assert.True(t, IsValid(num, true))
		assert.Equal(t, "+34"+num, FormatForChannel(num))
		assert.Equal(t, SpanishNational, Classify(num))
	}
}
