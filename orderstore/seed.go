package orderstore

import (
	"fmt"
	"math/rand"
	"time"
)

//nolint:gochecknoglobals // fixture vocabulary for generated orders
var (
	seedPartNumbers = []string{"C20207000", "P199753", "A45892", "B78321", "D12456", "E98765", "F34567", "G87654"}
	seedParts       = []string{"HUBCAP", "FILTER", "BEARING", "GASKET", "VALVE", "CONNECTOR", "SEAL", "BRACKET"}
	seedCustomers   = []string{"TTK", "AAL", "EK", "QR", "SV"}
	seedSuppliers   = []string{
		"GMF AeroAsia Tbk",
		"Air Industries France, Inc",
		"Honeywell Aerospace",
		"Collins Aerospace",
		"Parker Hannifin",
	}
	seedStatuses = []Status{
		StatusYetToBeProcessed,
		StatusProcessed,
		StatusSupplierPaid,
		StatusTransitToUAE,
		StatusReceivedInUAE,
		StatusReadyForDispatch,
		StatusDelivered,
	}
	seedTerms      = []Term{TermPrepay, TermNet7, TermNet30}
	seedCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyAED}
	seedYesNo      = []YesNo{Yes, No}
)

// GenerateRandomOrder produces a plausible order carrying the given serial
// number, with profit fields consistent with the derivation law. It backs the
// seeding CLI and the replacement inserts of the fixed-population policy.
func GenerateRandomOrder(serialNumber int64, rng *rand.Rand) Order {
	now := time.Now()

	poValue := float64(rng.Intn(10000) + 100)
	costs := float64(int(poValue * (0.6 + rng.Float64()*0.3)))

	var customsDuty *float64
	if rng.Float64() > 0.5 {
		duty := float64(int(costs * 0.05))
		customsDuty = &duty
	}

	var freightCost *float64
	if rng.Float64() > 0.5 {
		freight := float64(rng.Intn(500))
		freightCost = &freight
	}

	remarks := ""
	if rng.Float64() > 0.7 {
		remarks = "Urgent delivery required"
	}

	dispatchDate := (*time.Time)(nil)
	if rng.Float64() > 0.5 {
		d := randomSeedDate(rng)
		dispatchDate = &d
	}

	awbToUAE := ""
	if rng.Float64() > 0.3 {
		awbToUAE = fmt.Sprintf("%d", rng.Int63n(9_000_000_000)+1_000_000_000)
	}

	targetDate := randomSeedDate(rng)

	order := Order{
		SerialNumber:    serialNumber,
		PartNumber:      seedPartNumbers[rng.Intn(len(seedPartNumbers))],
		Description:     seedParts[rng.Intn(len(seedParts))],
		Qty:             float64(rng.Intn(20) + 1),
		Customer:        seedCustomers[rng.Intn(len(seedCustomers))],
		CustPO:          fmt.Sprintf("PO %d", 9000+serialNumber),
		PODate:          randomSeedDate(rng),
		Term:            seedTerms[rng.Intn(len(seedTerms))],
		Currency:        seedCurrencies[rng.Intn(len(seedCurrencies))],
		POValue:         poValue,
		Costs:           costs,
		CustomsDuty:     customsDuty,
		FreightCost:     freightCost,
		Status:          seedStatuses[rng.Intn(len(seedStatuses))],
		PaymentReceived: seedYesNo[rng.Intn(len(seedYesNo))],
		InvestorPaid:    seedYesNo[rng.Intn(len(seedYesNo))],
		Remarks:         remarks,
		TargetDate:      &targetDate,
		DispatchDate:    dispatchDate,
		Supplier:        seedSuppliers[rng.Intn(len(seedSuppliers))],
		SupplierPO:      fmt.Sprintf("PO24%04d", serialNumber),
		SupplierPODate:  randomSeedDate(rng),
		AWBToUAE:        awbToUAE,
		Stability:       float64(rng.Intn(10) + 1),
		LastEdited:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	order.ApplyProfit(DeriveProfit(order.POValue, order.Costs, order.CustomsDuty, order.FreightCost))

	return order
}

// randomSeedDate picks a calendar day between 2024-01-01 and 2025-12-31.
func randomSeedDate(rng *rand.Rand) time.Time {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)

	return start.AddDate(0, 0, rng.Intn(days+1))
}
