// Package estimate reconstructs tank gallons for activity logs
// written before the kiosk recorded them directly. The reconstruction
// is a prioritized chain of fallbacks, most reliable signal first,
// because different historical writer versions left different traces.
// It never fails: a record with no recoverable signal yields a zero,
// estimated result.
package estimate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tntkiosk/models"
)

// Estimate sources, in priority order.
const (
	SourceDirect   = "direct"    // typed tank gallon fields, authoritative
	SourceRate     = "rate"      // product amounts divided by a known rate
	SourceDetails  = "details"   // parsed from free-text details
	SourceSibling  = "sibling"   // alternate field names on the raw document
	SourceAmounts  = "amounts"   // doubled product totals, floored at 50
	SourceFallback = "fallback"  // configured allow-list of user codes
	SourceNone     = "none"      // nothing recoverable
)

// Estimate is the reconstructed gallons for one activity log.
// Estimated distinguishes heuristic figures from authoritative ones so
// aggregate reports can disclose data quality.
type Estimate struct {
	Tank1Gallons float64 `json:"tank1_gallons"`
	Tank2Gallons float64 `json:"tank2_gallons"`
	Estimated    bool    `json:"estimated"`
	Source       string  `json:"source"`
}

// Total returns the combined gallons across both tanks.
func (e Estimate) Total() float64 {
	return e.Tank1Gallons + e.Tank2Gallons
}

// Estimator reconstructs gallons from historical activity logs.
// Products are indexed by name: old records reference products by name
// only, so the name is the join key whether we like it or not.
type Estimator struct {
	productsByName  map[string]models.Product
	fallbackCodes   map[string]bool
	fallbackGallons float64
}

// NewEstimator builds an estimator over the current product catalog.
// fallbackCodes lists user codes with known activity but no
// recoverable signal; their records default to fallbackGallons per
// tank as a last resort.
func NewEstimator(products []models.Product, fallbackCodes []string, fallbackGallons float64) *Estimator {
	byName := make(map[string]models.Product, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}
	codes := make(map[string]bool, len(fallbackCodes))
	for _, code := range fallbackCodes {
		codes[code] = true
	}
	return &Estimator{
		productsByName:  byName,
		fallbackCodes:   codes,
		fallbackGallons: fallbackGallons,
	}
}

type strategy func(rec models.ActivityLog) (Estimate, bool)

// Reconstruct derives tank gallons for one activity log by trying
// each strategy in priority order and taking the first hit. The order
// is load-bearing: later strategies are rougher guesses and must not
// shadow earlier, more specific signals.
func (e *Estimator) Reconstruct(rec models.ActivityLog) Estimate {
	strategies := []strategy{
		e.fromDirectFields,
		e.fromProductRates,
		e.fromDetailsText,
		e.fromSiblingFields,
		e.fromProductAmounts,
		e.fromFallbackCodes,
	}
	for _, try := range strategies {
		if est, ok := try(rec); ok {
			return est
		}
	}
	return Estimate{Estimated: true, Source: SourceNone}
}

// fromDirectFields uses the typed gallon fields as-is. These were
// written by the current kiosk and are authoritative, not estimated.
func (e *Estimator) fromDirectFields(rec models.ActivityLog) (Estimate, bool) {
	if rec.Tank1Gallons <= 0 && rec.Tank2Gallons <= 0 {
		return Estimate{}, false
	}
	return Estimate{
		Tank1Gallons: rec.Tank1Gallons,
		Tank2Gallons: rec.Tank2Gallons,
		Estimated:    false,
		Source:       SourceDirect,
	}, true
}

// fromProductRates back-computes gallons by dividing recorded product
// amounts by the product's current rate. The scan stops at the first
// product line with a usable rate; averaging across lines would mix
// signals of different quality.
func (e *Estimator) fromProductRates(rec models.ActivityLog) (Estimate, bool) {
	for _, usage := range rec.Products {
		p, known := e.productsByName[usage.Name]
		if !known {
			continue
		}
		rate := e.rateForRecord(p, rec.TruckType)
		if rate <= 0 {
			continue
		}

		// Per-tank amount fields differ by rig style; whichever pair
		// is populated is the one the historical writer used.
		amount1 := usage.FrontTank
		if amount1 == 0 {
			amount1 = usage.DriverTank
		}
		amount2 := usage.BackTank
		if amount2 == 0 {
			amount2 = usage.PassengerTank
		}

		if amount1 > 0 || amount2 > 0 {
			return Estimate{
				Tank1Gallons: amount1 / rate,
				Tank2Gallons: amount2 / rate,
				Estimated:    true,
				Source:       SourceRate,
			}, true
		}
		if usage.Total > 0 {
			gallons := usage.Total / rate
			return Estimate{
				Tank1Gallons: gallons / 2,
				Tank2Gallons: gallons / 2,
				Estimated:    true,
				Source:       SourceRate,
			}, true
		}

		// First usable rate, but no amounts recorded against it.
		return Estimate{}, false
	}
	return Estimate{}, false
}

// rateForRecord picks the product rate matching the record's truck
// type; records without one try hose first, then cart.
func (e *Estimator) rateForRecord(p models.Product, truck models.TruckType) float64 {
	switch truck {
	case models.TruckHose:
		return p.HoseRatePerGallon
	case models.TruckCart:
		return p.CartRatePerGallon
	}
	if p.HoseRatePerGallon > 0 {
		return p.HoseRatePerGallon
	}
	return p.CartRatePerGallon
}

var (
	tank1Pattern   = regexp.MustCompile(`(?i)tank\s*1\s*:\s*(\d+(?:\.\d+)?)`)
	tank2Pattern   = regexp.MustCompile(`(?i)tank\s*2\s*:\s*(\d+(?:\.\d+)?)`)
	gallonsPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*gallons?`)
)

// fromDetailsText scans the free-text details field. Explicit
// "tank 1: N" / "tank 2: N" pairs were written by hand at load time
// and count as authoritative; a bare "N gallons" only gives a total,
// split evenly and marked estimated.
func (e *Estimator) fromDetailsText(rec models.ActivityLog) (Estimate, bool) {
	if strings.TrimSpace(rec.Details) == "" {
		return Estimate{}, false
	}

	m1 := tank1Pattern.FindStringSubmatch(rec.Details)
	m2 := tank2Pattern.FindStringSubmatch(rec.Details)
	if m1 != nil && m2 != nil {
		tank1, err1 := strconv.ParseFloat(m1[1], 64)
		tank2, err2 := strconv.ParseFloat(m2[1], 64)
		if err1 == nil && err2 == nil {
			return Estimate{
				Tank1Gallons: tank1,
				Tank2Gallons: tank2,
				Estimated:    false,
				Source:       SourceDetails,
			}, true
		}
	}

	if m := gallonsPattern.FindStringSubmatch(rec.Details); m != nil {
		if total, err := strconv.ParseFloat(m[1], 64); err == nil && total > 0 {
			return Estimate{
				Tank1Gallons: total / 2,
				Tank2Gallons: total / 2,
				Estimated:    true,
				Source:       SourceDetails,
			}, true
		}
	}
	return Estimate{}, false
}

// siblingFieldNames is the fixed probe list of alternate gallon field
// names various historical writers used on the raw document.
var siblingFieldNames = []string{
	"gallons",
	"tank1Gallons",
	"tank2Gallons",
	"tankGallons",
	"waterAmount",
	"volume",
}

// fromSiblingFields probes the raw document map for known alternate
// field names. A field holding an object with tank sub-fields is used
// directly; a bare number is split evenly. Either way the result is
// marked estimated.
func (e *Estimator) fromSiblingFields(rec models.ActivityLog) (Estimate, bool) {
	if rec.Raw == nil {
		return Estimate{}, false
	}
	for _, name := range siblingFieldNames {
		value, present := rec.Raw[name]
		if !present {
			continue
		}

		if nested, ok := value.(map[string]interface{}); ok {
			tank1, ok1 := asFloat(nested["tank1"])
			tank2, ok2 := asFloat(nested["tank2"])
			if (ok1 && tank1 > 0) || (ok2 && tank2 > 0) {
				return Estimate{
					Tank1Gallons: tank1,
					Tank2Gallons: tank2,
					Estimated:    true,
					Source:       SourceSibling,
				}, true
			}
			continue
		}

		if total, ok := asFloat(value); ok && total > 0 {
			return Estimate{
				Tank1Gallons: total / 2,
				Tank2Gallons: total / 2,
				Estimated:    true,
				Source:       SourceSibling,
			}, true
		}
	}
	return Estimate{}, false
}

// fromProductAmounts is the rough heuristic of last resort before the
// allow-list: assume roughly two gallons of water per recorded ounce
// of product, never less than 50 gallons total.
func (e *Estimator) fromProductAmounts(rec models.ActivityLog) (Estimate, bool) {
	var sum float64
	for _, usage := range rec.Products {
		if usage.Total > 0 {
			sum += usage.Total
		}
	}
	if sum <= 0 {
		return Estimate{}, false
	}

	total := sum * 2
	if total < 50 {
		total = 50
	}
	return Estimate{
		Tank1Gallons: total / 2,
		Tank2Gallons: total / 2,
		Estimated:    true,
		Source:       SourceAmounts,
	}, true
}

// fromFallbackCodes patches a known historical gap: a handful of user
// codes had genuine activity with no recoverable signal at all. Their
// records default to the configured gallons per tank.
func (e *Estimator) fromFallbackCodes(rec models.ActivityLog) (Estimate, bool) {
	if !e.fallbackCodes[rec.UserCode] {
		return Estimate{}, false
	}
	return Estimate{
		Tank1Gallons: e.fallbackGallons,
		Tank2Gallons: e.fallbackGallons,
		Estimated:    true,
		Source:       SourceFallback,
	}, true
}

// asFloat coerces the numeric shapes a schemaless document can hold.
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// UserTotals aggregates reconstructed gallons for one user code. The
// two booleans let reports disclose that some contributions are exact
// while others are approximate; there is no numeric confidence score.
type UserTotals struct {
	UserCode         string  `json:"user_code"`
	Records          int     `json:"records"`
	Tank1Gallons     float64 `json:"tank1_gallons"`
	Tank2Gallons     float64 `json:"tank2_gallons"`
	TotalGallons     float64 `json:"total_gallons"`
	HasEstimated     bool    `json:"has_estimated"`
	HasAuthoritative bool    `json:"has_authoritative"`
}

// AggregateByUser reconstructs every record and sums gallons per user
// code, sorted by code for stable output.
func (e *Estimator) AggregateByUser(records []models.ActivityLog) []UserTotals {
	byCode := make(map[string]*UserTotals)
	for _, rec := range records {
		est := e.Reconstruct(rec)

		totals, found := byCode[rec.UserCode]
		if !found {
			totals = &UserTotals{UserCode: rec.UserCode}
			byCode[rec.UserCode] = totals
		}
		totals.Records++
		totals.Tank1Gallons += est.Tank1Gallons
		totals.Tank2Gallons += est.Tank2Gallons
		totals.TotalGallons += est.Total()
		if est.Estimated {
			totals.HasEstimated = true
		} else {
			totals.HasAuthoritative = true
		}
	}

	result := make([]UserTotals, 0, len(byCode))
	for _, totals := range byCode {
		result = append(result, *totals)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserCode < result[j].UserCode
	})
	return result
}
