package output

// DefaultAssumptions lists the modelling limits printed with detailed output.
var DefaultAssumptions = []string{
	"FY 2024-25 simplified slabs, no surcharge",
	"New regime: ₹75,000 standard deduction, rebate up to ₹7,00,000 taxable",
	"Old regime: ₹50,000 standard deduction, 80C capped at ₹1,50,000, 80D uncapped, rebate up to ₹5,00,000 taxable",
	"Final tax includes 4% cess; the payable and cess split is backed out of it",
	"New regime slabs end at ₹12,00,000; income above is reported but not taxed",
}
