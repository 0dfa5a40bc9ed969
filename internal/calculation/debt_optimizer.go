package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// DebtOptimizer orders a debt set by strategy and evaluates payoff plans,
// consolidation and accelerated payments.
type DebtOptimizer struct {
	amortizer  *AmortizationEngine
	Thresholds domain.RecommendationThresholds
	Logger     Logger
}

// NewDebtOptimizer creates an optimizer backed by the given amortization engine.
func NewDebtOptimizer(amortizer *AmortizationEngine, thresholds domain.RecommendationThresholds) *DebtOptimizer {
	if amortizer == nil {
		amortizer = NewAmortizationEngine(domain.DefaultAmortizationOptions())
	}
	return &DebtOptimizer{amortizer: amortizer, Thresholds: thresholds, Logger: NopLogger{}}
}

// activeLoans validates the input and drops loans without a balance.
func activeLoans(operation string, loans []domain.LoanAccount) ([]domain.LoanAccount, error) {
	active := make([]domain.LoanAccount, 0, len(loans))
	for i, loan := range loans {
		if err := loan.Validate(); err != nil {
			return nil, fmt.Errorf("loan %d (%s): %w", i, loan.Label(), err)
		}
		if loan.Balance.IsPositive() {
			active = append(active, loan)
		}
	}
	if len(active) == 0 {
		return nil, &domain.EmptyInputError{Operation: operation, What: "active loans"}
	}
	return active, nil
}

// OrderLoans returns a copy of loans sorted for the strategy. Avalanche is
// rate descending then balance descending; snowball is balance ascending then
// rate descending. Equal loans keep their input order.
func OrderLoans(loans []domain.LoanAccount, strategy domain.PayoffStrategy) []domain.LoanAccount {
	ordered := make([]domain.LoanAccount, len(loans))
	copy(ordered, loans)

	switch strategy {
	case domain.StrategySnowball:
		sort.SliceStable(ordered, func(i, j int) bool {
			if c := ordered[i].Balance.Cmp(ordered[j].Balance); c != 0 {
				return c < 0
			}
			return ordered[i].InterestRate.GreaterThan(ordered[j].InterestRate)
		})
	default:
		sort.SliceStable(ordered, func(i, j int) bool {
			if c := ordered[i].InterestRate.Cmp(ordered[j].InterestRate); c != 0 {
				return c > 0
			}
			return ordered[i].Balance.GreaterThan(ordered[j].Balance)
		})
	}
	return ordered
}

func validateStrategy(strategy domain.PayoffStrategy) error {
	if strategy != domain.StrategyAvalanche && strategy != domain.StrategySnowball {
		return domain.NewValidationError("strategy", "unknown payoff strategy %q", strategy)
	}
	return nil
}

// Optimize builds a payoff plan. The whole extra payment goes to the first
// loan in strategy order; every other loan is paid at its minimum and
// amortized independently.
//
// The plan's PayoffMonths is the running maximum of the independent payoff
// times. It does not roll a paid-off loan's payment into the next loan; see
// SimulateWaterfall for the month-indexed joint simulation.
func (do *DebtOptimizer) Optimize(loans []domain.LoanAccount, extraPayment decimal.Decimal, strategy domain.PayoffStrategy) (*domain.PayoffPlan, error) {
	if extraPayment.IsNegative() {
		return nil, domain.NewValidationError("extra_payment", "must not be negative, got %s", extraPayment.StringFixed(2))
	}
	if err := validateStrategy(strategy); err != nil {
		return nil, err
	}
	active, err := activeLoans("optimize", loans)
	if err != nil {
		return nil, err
	}

	ordered := OrderLoans(active, strategy)
	plan := &domain.PayoffPlan{
		Strategy:             strategy,
		ExtraPayment:         extraPayment,
		TotalDebt:            decimal.Zero,
		TotalMinimumPayments: decimal.Zero,
		TotalInterest:        decimal.Zero,
		Entries:              make([]domain.PayoffPlanEntry, 0, len(ordered)),
	}

	runningMonths := 0
	for i, loan := range ordered {
		payment := loan.MinimumPayment
		if i == 0 {
			payment = payment.Add(extraPayment)
		}

		result, err := do.amortizer.Amortize(loan.Balance, loan.InterestRate, payment)
		if err != nil {
			return nil, fmt.Errorf("failed to amortize loan %s: %w", loan.Label(), err)
		}

		runningMonths = MaxInt(runningMonths, result.Months)
		plan.Entries = append(plan.Entries, domain.PayoffPlanEntry{
			LoanID:          loan.ID,
			Name:            loan.Name,
			Balance:         loan.Balance,
			InterestRate:    loan.InterestRate,
			MinimumPayment:  loan.MinimumPayment,
			AssignedPayment: payment,
			PayoffOrder:     i + 1,
			PayoffMonths:    result.Months,
			TotalInterest:   result.TotalInterest,
		})
		plan.TotalDebt = plan.TotalDebt.Add(loan.Balance)
		plan.TotalMinimumPayments = plan.TotalMinimumPayments.Add(loan.MinimumPayment)
		plan.TotalInterest = plan.TotalInterest.Add(result.TotalInterest)
	}
	plan.PayoffMonths = runningMonths

	do.Logger.Debugf("optimize: %s", plan)
	return plan, nil
}

// CompareStrategies computes both plans and recommends one. Avalanche wins
// when it saves more than the interest threshold or the payoff times are
// within the month tolerance; otherwise snowball is preferred for larger
// debt sets.
func (do *DebtOptimizer) CompareStrategies(loans []domain.LoanAccount, extraPayment decimal.Decimal) (*domain.StrategyComparison, error) {
	avalanche, err := do.Optimize(loans, extraPayment, domain.StrategyAvalanche)
	if err != nil {
		return nil, fmt.Errorf("avalanche plan: %w", err)
	}
	snowball, err := do.Optimize(loans, extraPayment, domain.StrategySnowball)
	if err != nil {
		return nil, fmt.Errorf("snowball plan: %w", err)
	}

	savings := snowball.TotalInterest.Sub(avalanche.TotalInterest)
	delta := snowball.PayoffMonths - avalanche.PayoffMonths
	absDelta := delta
	if absDelta < 0 {
		absDelta = -absDelta
	}

	cmp := &domain.StrategyComparison{
		Avalanche:         avalanche,
		Snowball:          snowball,
		InterestSavings:   savings,
		PayoffMonthsDelta: delta,
	}

	t := do.Thresholds
	switch {
	case savings.GreaterThan(t.InterestSavings) || absDelta <= t.MonthTolerance():
		cmp.RecommendedStrategy = domain.StrategyAvalanche
		cmp.RecommendationReason = fmt.Sprintf("The avalanche method saves $%s in interest over the snowball method. "+
			"This strategy is mathematically optimal and recommended when interest savings are significant.",
			savings.StringFixed(2))
	case len(avalanche.Entries) > t.SnowballMinDebts:
		cmp.RecommendedStrategy = domain.StrategySnowball
		cmp.RecommendationReason = "The snowball method is recommended for psychological motivation. " +
			"With multiple debts, paying off smaller balances first can provide momentum and motivation to continue."
	default:
		cmp.RecommendedStrategy = domain.StrategyAvalanche
		cmp.RecommendationReason = "The avalanche method is recommended as it minimizes total interest paid " +
			"and the psychological benefits of the snowball method are less significant with fewer debts."
	}
	return cmp, nil
}

// AnalyzeConsolidation compares paying each loan on its own schedule with a
// single loan at consolidationRate for the combined balance, paid at the
// combined minimum payment.
func (do *DebtOptimizer) AnalyzeConsolidation(loans []domain.LoanAccount, consolidationRate decimal.Decimal) (*domain.ConsolidationReport, error) {
	if consolidationRate.IsNegative() || consolidationRate.GreaterThan(one) {
		return nil, domain.NewValidationError("consolidation_rate", "must be a fraction between 0 and 1, got %s", consolidationRate.String())
	}
	active, err := activeLoans("consolidation analysis", loans)
	if err != nil {
		return nil, err
	}

	report := &domain.ConsolidationReport{
		TotalCurrentDebt:            decimal.Zero,
		TotalCurrentMinimumPayments: decimal.Zero,
		CurrentTotalInterest:        decimal.Zero,
		ConsolidatedInterestRate:    consolidationRate,
	}
	for _, loan := range active {
		result, err := do.amortizer.Amortize(loan.Balance, loan.InterestRate, loan.MinimumPayment)
		if err != nil {
			return nil, fmt.Errorf("failed to amortize loan %s: %w", loan.Label(), err)
		}
		report.TotalCurrentDebt = report.TotalCurrentDebt.Add(loan.Balance)
		report.TotalCurrentMinimumPayments = report.TotalCurrentMinimumPayments.Add(loan.MinimumPayment)
		report.CurrentTotalInterest = report.CurrentTotalInterest.Add(result.TotalInterest)
		report.CurrentPayoffMonths = MaxInt(report.CurrentPayoffMonths, result.Months)
	}

	report.ConsolidatedLoanAmount = report.TotalCurrentDebt
	report.ConsolidatedMonthlyPayment = report.TotalCurrentMinimumPayments
	consolidated, err := do.amortizer.Amortize(report.ConsolidatedLoanAmount, consolidationRate, report.ConsolidatedMonthlyPayment)
	if err != nil {
		return nil, fmt.Errorf("failed to amortize consolidated loan: %w", err)
	}
	report.ConsolidatedTotalInterest = consolidated.TotalInterest
	report.ConsolidatedPayoffMonths = consolidated.Months
	report.TotalInterestSavings = report.CurrentTotalInterest.Sub(consolidated.TotalInterest)
	report.TimeSavingsMonths = report.CurrentPayoffMonths - consolidated.Months
	report.IsConsolidationBeneficial = report.TotalInterestSavings.IsPositive() || report.TimeSavingsMonths > 0

	if report.IsConsolidationBeneficial {
		report.Recommendation = fmt.Sprintf("Debt consolidation is recommended. You could save $%s in interest over the life of your loans.",
			report.TotalInterestSavings.StringFixed(2))
		report.Benefits = []string{
			"Lower overall interest rate",
			fmt.Sprintf("Simplified payment management (one payment instead of %d)", len(active)),
			fmt.Sprintf("Save $%s in total interest", report.TotalInterestSavings.StringFixed(2)),
		}
		if report.TimeSavingsMonths > 0 {
			report.Benefits = append(report.Benefits, fmt.Sprintf("Pay off debt %d months earlier", report.TimeSavingsMonths))
		}
	} else {
		report.Recommendation = "Debt consolidation may not be beneficial at this interest rate. " +
			"Consider negotiating a lower rate or exploring other debt reduction strategies."
		report.Considerations = []string{
			"Consolidation rate is not significantly lower than current average rate",
			"May not provide substantial interest savings",
		}
	}
	report.Considerations = append(report.Considerations,
		"Ensure you qualify for the consolidation loan rate",
		"Consider any fees associated with the consolidation loan",
		"Avoid taking on new debt after consolidation",
		"Consider the impact on your credit score",
	)
	return report, nil
}

// ComparePaymentStrategies compares paying only the minimums with the
// avalanche plan that adds extraPayment.
func (do *DebtOptimizer) ComparePaymentStrategies(loans []domain.LoanAccount, extraPayment decimal.Decimal) (*domain.PaymentComparison, error) {
	active, err := activeLoans("payment comparison", loans)
	if err != nil {
		return nil, err
	}

	minimum := domain.PaymentScenario{
		Label:          "Minimum payments",
		MonthlyPayment: decimal.Zero,
		TotalInterest:  decimal.Zero,
		TotalPaid:      decimal.Zero,
	}
	for _, loan := range active {
		result, err := do.amortizer.Amortize(loan.Balance, loan.InterestRate, loan.MinimumPayment)
		if err != nil {
			return nil, fmt.Errorf("failed to amortize loan %s: %w", loan.Label(), err)
		}
		minimum.MonthlyPayment = minimum.MonthlyPayment.Add(loan.MinimumPayment)
		minimum.TotalInterest = minimum.TotalInterest.Add(result.TotalInterest)
		minimum.TotalPaid = minimum.TotalPaid.Add(result.TotalPaid)
		minimum.PayoffMonths = MaxInt(minimum.PayoffMonths, result.Months)
	}

	plan, err := do.Optimize(active, extraPayment, domain.StrategyAvalanche)
	if err != nil {
		return nil, fmt.Errorf("accelerated plan: %w", err)
	}
	accelerated := domain.PaymentScenario{
		Label:          "Accelerated payments",
		MonthlyPayment: plan.TotalMinimumPayments.Add(extraPayment),
		PayoffMonths:   plan.PayoffMonths,
		TotalInterest:  plan.TotalInterest,
		TotalPaid:      plan.TotalDebt.Add(plan.TotalInterest),
	}

	cmp := &domain.PaymentComparison{
		Minimum:           minimum,
		Accelerated:       accelerated,
		ExtraPayment:      extraPayment,
		InterestSavings:   minimum.TotalInterest.Sub(accelerated.TotalInterest),
		TimeSavingsMonths: minimum.PayoffMonths - accelerated.PayoffMonths,
		TotalSavings:      minimum.TotalPaid.Sub(accelerated.TotalPaid),
	}

	switch {
	case cmp.InterestSavings.GreaterThan(do.Thresholds.AccelerateHighlyRecommended):
		cmp.Recommendation = fmt.Sprintf("Highly recommended! Extra payments of $%s per month will save you $%s in interest "+
			"and %d months of payments. This represents significant long-term savings.",
			extraPayment.StringFixed(2), cmp.InterestSavings.StringFixed(2), cmp.TimeSavingsMonths)
	case cmp.InterestSavings.IsPositive():
		cmp.Recommendation = fmt.Sprintf("Recommended if budget allows. Extra payments will save $%s in interest "+
			"and %d months of payments.", cmp.InterestSavings.StringFixed(2), cmp.TimeSavingsMonths)
	default:
		cmp.Recommendation = "Consider focusing on building an emergency fund or investing if debt interest rates are low."
	}
	return cmp, nil
}

// SimulateWaterfall runs the month-indexed joint payoff simulation. The
// monthly budget is every minimum payment plus extraPayment. Each month
// interest accrues on every open loan, minimums are paid, and whatever is
// left goes to open loans in strategy order, so a paid-off loan's payment
// rolls into the next one.
func (do *DebtOptimizer) SimulateWaterfall(loans []domain.LoanAccount, extraPayment decimal.Decimal, strategy domain.PayoffStrategy) (*domain.WaterfallSchedule, error) {
	if extraPayment.IsNegative() {
		return nil, domain.NewValidationError("extra_payment", "must not be negative, got %s", extraPayment.StringFixed(2))
	}
	if err := validateStrategy(strategy); err != nil {
		return nil, err
	}
	active, err := activeLoans("waterfall simulation", loans)
	if err != nil {
		return nil, err
	}
	ordered := OrderLoans(active, strategy)

	keys := make([]string, len(ordered))
	balances := make([]decimal.Decimal, len(ordered))
	rates := make([]decimal.Decimal, len(ordered))
	budget := extraPayment
	for i, loan := range ordered {
		keys[i] = loan.ID
		if keys[i] == "" || contains(keys[:i], keys[i]) {
			keys[i] = fmt.Sprintf("loan-%d", i+1)
		}
		balances[i] = loan.Balance
		rates[i] = MonthlyRate(loan.InterestRate)
		budget = budget.Add(loan.MinimumPayment)
	}

	schedule := &domain.WaterfallSchedule{
		Strategy:      strategy,
		MonthlyBudget: budget,
		Order:         keys,
		TotalInterest: decimal.Zero,
		LoanPayoff:    make(map[string]int, len(ordered)),
	}

	maxMonths := do.amortizer.Options.MaxMonths
	paidOff := make([]bool, len(ordered))
	open := len(ordered)
	for month := 1; open > 0; month++ {
		if month > maxMonths {
			remaining := decimal.Zero
			for _, b := range balances {
				remaining = remaining.Add(b)
			}
			return nil, &domain.PayoffHorizonExceededError{MaxMonths: maxMonths, RemainingBalance: remaining}
		}

		before := decimal.Zero
		interest := decimal.Zero
		for i := range balances {
			if !balances[i].IsPositive() {
				continue
			}
			before = before.Add(balances[i])
			accrued := RoundMoney(balances[i].Mul(rates[i]))
			balances[i] = balances[i].Add(accrued)
			interest = interest.Add(accrued)
		}

		available := budget
		for i, loan := range ordered {
			if !balances[i].IsPositive() {
				continue
			}
			pay := decimal.Min(loan.MinimumPayment, balances[i])
			balances[i] = balances[i].Sub(pay)
			available = available.Sub(pay)
		}
		for i := range ordered {
			if !available.IsPositive() {
				break
			}
			if !balances[i].IsPositive() {
				continue
			}
			pay := decimal.Min(available, balances[i])
			balances[i] = balances[i].Sub(pay)
			available = available.Sub(pay)
		}

		after := decimal.Zero
		snapshot := make(map[string]decimal.Decimal, len(ordered))
		for i := range balances {
			if balances[i].LessThanOrEqual(cent) && balances[i].IsPositive() {
				balances[i] = decimal.Zero
			}
			if !paidOff[i] && !balances[i].IsPositive() {
				paidOff[i] = true
				open--
				schedule.LoanPayoff[keys[i]] = month
			}
			snapshot[keys[i]] = balances[i]
			after = after.Add(balances[i])
		}

		if after.GreaterThanOrEqual(before) {
			return nil, &domain.PaymentTooLowError{Payment: budget, Interest: interest, Balance: before}
		}

		schedule.TotalInterest = schedule.TotalInterest.Add(interest)
		schedule.Months = append(schedule.Months, domain.WaterfallMonth{
			Month:    month,
			Interest: interest,
			Paid:     budget.Sub(available),
			Balances: snapshot,
		})
		schedule.PayoffMonths = month
	}

	do.Logger.Debugf("waterfall: %s budget %s paid off in %d months", strategy, budget.StringFixed(2), schedule.PayoffMonths)
	return schedule, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
