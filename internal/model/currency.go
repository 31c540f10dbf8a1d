package model

import "slices"

// CurrencyCode identifies a currency profile
type CurrencyCode string

const (
	CurrencyHUF CurrencyCode = "HUF" // primary profile
	CurrencyEUR CurrencyCode = "EUR" // secondary profile
)

// DefaultCurrency is the profile active in a fresh session
const DefaultCurrency = CurrencyHUF

// AssetTerms holds the purchase and financing constants for one asset
type AssetTerms struct {
	Cash        int64 `json:"cash"`        // one-off purchase price
	Installment int64 `json:"installment"` // total price when financed
	Down        int64 `json:"down"`        // down payment when financed
	Monthly     int64 `json:"monthly"`     // regular loan installment
}

// Financed returns the amount borrowed when buying on installment
func (t AssetTerms) Financed() int64 {
	return t.Installment - t.Down
}

// InsuranceTerms holds the cost and optional payout of an insurance
type InsuranceTerms struct {
	Cost   int64 `json:"cost"`
	Payout int64 `json:"payout,omitempty"`
}

// CurrencyProfile is the immutable bundle of monetary constants for one currency
type CurrencyProfile struct {
	Code              CurrencyCode                     `json:"code"`
	Symbol            string                           `json:"symbol"`
	StartCash         int64                            `json:"startCash"`
	StartAccount      int64                            `json:"startAccount"`
	StartPassThrough  int64                            `json:"startPassThrough"`
	StartLanding      int64                            `json:"startLanding"`
	Apartment         AssetTerms                       `json:"apartment"`
	Car               AssetTerms                       `json:"car"`
	Insurance         map[InsuranceType]InsuranceTerms `json:"insurance"`
	WinConditionExtra int64                            `json:"winConditionExtra"`
}

// Terms returns the asset terms for the given asset kind
func (p CurrencyProfile) Terms(asset AssetKind) AssetTerms {
	if asset == AssetCar {
		return p.Car
	}
	return p.Apartment
}

var profiles = map[CurrencyCode]CurrencyProfile{
	CurrencyHUF: {
		Code:             CurrencyHUF,
		Symbol:           "Ft",
		StartCash:        238000,
		StartAccount:     3000000,
		StartPassThrough: 500000,
		StartLanding:     1000000,
		Apartment:        AssetTerms{Cash: 9500000, Installment: 11000000, Down: 2000000, Monthly: 90000},
		Car:              AssetTerms{Cash: 7000000, Installment: 7960000, Down: 2500000, Monthly: 130000},
		Insurance: map[InsuranceType]InsuranceTerms{
			InsuranceChildFuture: {Cost: 180000, Payout: 1500000},
			InsurancePension:     {Cost: 180000},
			InsuranceHomeGuard:   {Cost: 30000},
			InsuranceCasco:       {Cost: 50000},
		},
		WinConditionExtra: 600000,
	},
	CurrencyEUR: {
		Code:             CurrencyEUR,
		Symbol:           "€",
		StartCash:        18000,
		StartAccount:     10000,
		StartPassThrough: 2000,
		StartLanding:     4000,
		Apartment:        AssetTerms{Cash: 30000, Installment: 35000, Down: 15000, Monthly: 500},
		Car:              AssetTerms{Cash: 25000, Installment: 27500, Down: 6500, Monthly: 500},
		Insurance: map[InsuranceType]InsuranceTerms{
			InsuranceChildFuture: {Cost: 600, Payout: 5000},
			InsurancePension:     {Cost: 600},
			InsuranceHomeGuard:   {Cost: 100},
			InsuranceCasco:       {Cost: 160},
		},
		WinConditionExtra: 2000,
	},
}

// GetProfile returns the profile for a currency code.
// The returned value is a copy; callers cannot edit the catalogue.
func GetProfile(code CurrencyCode) (CurrencyProfile, error) {
	p, ok := profiles[code]
	if !ok {
		return CurrencyProfile{}, ErrUnknownCurrency
	}
	ins := make(map[InsuranceType]InsuranceTerms, len(p.Insurance))
	for k, v := range p.Insurance {
		ins[k] = v
	}
	p.Insurance = ins
	return p, nil
}

// ValidCurrencies returns all supported currency codes in display order
func ValidCurrencies() []CurrencyCode {
	return []CurrencyCode{CurrencyHUF, CurrencyEUR}
}

// IsValidCurrency reports whether the code names a known profile
func IsValidCurrency(code CurrencyCode) bool {
	return slices.Contains(ValidCurrencies(), code)
}
