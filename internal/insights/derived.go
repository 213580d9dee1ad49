package insights

// Totals holds summed base counters, either for a single day or for a whole
// stored series. Ratio metrics must always be computed from summed counters,
// never averaged across days.
type Totals struct {
	Impressions   int64
	Clicks        int64
	Spend         float64
	Reach         int64
	Conversions   int64
	PurchaseValue float64
}

// Add folds another set of totals into t.
func (t *Totals) Add(other Totals) {
	t.Impressions += other.Impressions
	t.Clicks += other.Clicks
	t.Spend += other.Spend
	t.Reach += other.Reach
	t.Conversions += other.Conversions
	t.PurchaseValue += other.PurchaseValue
}

// Derived holds the ratio metrics computed from base counters.
type Derived struct {
	CTR  float64 `json:"ctr"`
	CPC  float64 `json:"cpc"`
	CPM  float64 `json:"cpm"`
	CPA  float64 `json:"cpa"`
	ROAS float64 `json:"roas"`
}

// Derive computes ratio metrics from base counters. Every ratio is defined as
// zero when its denominator is zero, so callers never see NaN or Inf. ROAS is
// additionally zero when there is no purchase value.
func Derive(t Totals) Derived {
	var d Derived
	if t.Impressions > 0 {
		d.CTR = float64(t.Clicks) / float64(t.Impressions) * 100
		d.CPM = t.Spend / float64(t.Impressions) * 1000
	}
	if t.Clicks > 0 {
		d.CPC = t.Spend / float64(t.Clicks)
	}
	if t.Conversions > 0 {
		d.CPA = t.Spend / float64(t.Conversions)
	}
	if t.Spend > 0 && t.PurchaseValue > 0 {
		d.ROAS = t.PurchaseValue / t.Spend
	}
	return d
}
