package cryptofolio

// Row is the valuation of one entry.
type Row struct {
	Coin      Coin     `json:"coin"`
	Amount    Quantity `json:"amount"`
	PriceEach Money    `json:"priceEach"` // price paid per unit
	Paid      Money    `json:"paid"`      // Amount × PriceEach
	Current   Money    `json:"current"`   // Amount × current price
	Profit    Money    `json:"profit"`    // Current − Paid
	Positive  bool     `json:"positive"`  // Profit ≥ 0
}

// Summary is the valuation of a whole section.
type Summary struct {
	Paid     Money `json:"paid"`
	Current  Money `json:"current"`
	Profit   Money `json:"profit"`
	Positive bool  `json:"positive"`
}

// SectionView is the valuation of the entries of one section.
type SectionView struct {
	Name    string  `json:"name"`
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// View is the valuation of a holdings document at given prices.
type View struct {
	Currency string        `json:"currency"`
	Source   PriceSource   `json:"source"`
	Sections []SectionView `json:"sections"`
}

// Compute values every entry of each section in doc at prices.
//
// Sections are returned in the given order and rows in insertion order.
// Compute has no side effects.
func Compute(doc Document, prices PriceTable, sections []string) View {
	v := View{Currency: prices.Currency(), Source: prices.Source()}
	for _, name := range sections {
		v.Sections = append(v.Sections, computeSection(name, doc.Entries(name), prices))
	}
	return v
}

func computeSection(name string, entries []Entry, prices PriceTable) SectionView {
	cur := prices.Currency()
	s := SectionView{Name: name, Rows: make([]Row, 0, len(entries))}
	totalPaid, totalCurrent := M(0, cur), M(0, cur)

	for _, e := range entries {
		coin, ok := LookupCoin(e.Coin)
		if !ok {
			coin = Coin{Key: e.Coin, Name: e.Coin}
		}
		price, _ := prices.Price(e.Coin) // zero when unknown
		amount := Q(e.Amount)
		priceEach := M(e.PriceEach, cur)

		paid := priceEach.Mul(amount)
		current := price.Mul(amount)
		profit := current.Sub(paid)

		totalPaid = totalPaid.Add(paid)
		totalCurrent = totalCurrent.Add(current)

		s.Rows = append(s.Rows, Row{
			Coin:      coin,
			Amount:    amount,
			PriceEach: priceEach,
			Paid:      paid,
			Current:   current,
			Profit:    profit,
			Positive:  !profit.IsNegative(),
		})
	}

	profit := totalCurrent.Sub(totalPaid)
	s.Summary = Summary{
		Paid:     totalPaid,
		Current:  totalCurrent,
		Profit:   profit,
		Positive: !profit.IsNegative(),
	}
	return s
}
