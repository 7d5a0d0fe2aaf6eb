package books

import "github.com/shopspring/decimal"

// Nigeria Tax Act 2025 figures, effective January 1, 2026. Business profit
// of sole proprietors is treated as personal income; the first NGN 800,000
// of annual income is fully exempt and the bands below apply to chargeable
// income only (income after the exemption).

// TaxYear is the year the current band table applies to.
const TaxYear = 2026

// TaxDisclaimer accompanies every tax estimate in API responses.
const TaxDisclaimer = "These are estimates only and do not constitute official tax filing with FIRS " +
	"(Federal Inland Revenue Service). Consult a licensed tax professional for " +
	"accurate tax computation and filing."

const calculationMethod = "Nigeria Tax Act 2025 – PIT for Sole Proprietors (NGN 800,000 exemption applied)"

var (
	pitExemptThreshold = decimal.NewFromInt(800_000)
	vatRate            = decimal.NewFromFloat(0.075) // 7.5%
)

// taxBand is a cumulative upper limit on chargeable income with its marginal
// rate. A zero Upper marks the final, unbounded band.
type taxBand struct {
	Upper decimal.Decimal
	Rate  decimal.Decimal
}

var pitBands2026 = []taxBand{
	{Upper: decimal.NewFromInt(2_200_000), Rate: decimal.NewFromFloat(0.15)},
	{Upper: decimal.NewFromInt(11_200_000), Rate: decimal.NewFromFloat(0.18)},
	{Upper: decimal.NewFromInt(24_200_000), Rate: decimal.NewFromFloat(0.21)},
	{Upper: decimal.NewFromInt(49_200_000), Rate: decimal.NewFromFloat(0.23)},
	{Rate: decimal.NewFromFloat(0.25)},
}

// TaxCalculator estimates Nigerian personal income tax and, optionally, VAT.
type TaxCalculator struct {
	VATEnabled bool
}

// PersonalIncomeTax computes PIT payable on an annual income in naira.
func (TaxCalculator) PersonalIncomeTax(income decimal.Decimal) decimal.Decimal {
	chargeable := income.Sub(pitExemptThreshold)
	if chargeable.Sign() <= 0 {
		return decimal.Zero
	}
	tax := decimal.Zero
	prev := decimal.Zero
	for _, b := range pitBands2026 {
		if chargeable.LessThanOrEqual(prev) {
			break
		}
		inBand := chargeable.Sub(prev)
		if !b.Upper.IsZero() {
			if width := b.Upper.Sub(prev); inBand.GreaterThan(width) {
				inBand = width
			}
		}
		if inBand.Sign() > 0 {
			tax = tax.Add(inBand.Mul(b.Rate))
		}
		if b.Upper.IsZero() {
			break
		}
		prev = b.Upper
	}
	return tax.Round(2)
}

// VAT computes 7.5% of revenue when enabled, zero otherwise.
func (c TaxCalculator) VAT(revenue decimal.Decimal) decimal.Decimal {
	if !c.VATEnabled || revenue.Sign() <= 0 {
		return decimal.Zero
	}
	return revenue.Mul(vatRate).Round(2)
}

// TaxSummary is the annual (or monthly) tax estimate for a business period.
type TaxSummary struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	TaxableIncome      decimal.Decimal `json:"taxable_income"`
	EstimatedIncomeTax decimal.Decimal `json:"estimated_income_tax"`
	EffectiveTaxRate   float64         `json:"effective_tax_rate"`
	VATPayable         decimal.Decimal `json:"vat_payable"`
	TaxYear            int             `json:"tax_year"`
	CalculationMethod  string          `json:"calculation_method"`
	Disclaimer         string          `json:"disclaimer"`
}

// Summary combines revenue and expenses into a full tax estimate. Losses
// clamp net profit to zero; no tax is owed on a loss.
func (c TaxCalculator) Summary(revenue, expenses decimal.Decimal) TaxSummary {
	netProfit := revenue.Sub(expenses)
	if netProfit.Sign() < 0 {
		netProfit = decimal.Zero
	}
	pit := c.PersonalIncomeTax(netProfit)
	effectiveRate := 0.0
	if netProfit.Sign() > 0 {
		effectiveRate, _ = pit.Div(netProfit).Round(4).Float64()
	}
	return TaxSummary{
		TotalRevenue:       revenue,
		TotalExpenses:      expenses,
		NetProfit:          netProfit,
		TaxableIncome:      netProfit,
		EstimatedIncomeTax: pit,
		EffectiveTaxRate:   effectiveRate,
		VATPayable:         c.VAT(revenue),
		TaxYear:            TaxYear,
		CalculationMethod:  calculationMethod,
		Disclaimer:         TaxDisclaimer,
	}
}
