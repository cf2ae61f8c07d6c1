package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

const priceScale = 4

// Pricer derives an item price from its sales demand and quantity on hand:
//
//	price = max(Base + Base*DemandFactor*demand - Base*StockFactor*(1 - quantity/StockReference), Base*FloorRatio)
type Pricer struct {
	Base           decimal.Decimal
	DemandFactor   decimal.Decimal
	StockFactor    decimal.Decimal
	StockReference decimal.Decimal
	FloorRatio     decimal.Decimal
}

func NewPricer(base, demandFactor, stockFactor, stockReference, floorRatio float64) (Pricer, error) {
	if base <= 0 {
		return Pricer{}, errors.New("base price must be positive")
	}
	if stockReference <= 0 {
		return Pricer{}, errors.New("stock reference must be positive")
	}
	if floorRatio < 0 {
		return Pricer{}, errors.New("floor ratio must not be negative")
	}
	return Pricer{
		Base:           decimal.NewFromFloat(base),
		DemandFactor:   decimal.NewFromFloat(demandFactor),
		StockFactor:    decimal.NewFromFloat(stockFactor),
		StockReference: decimal.NewFromFloat(stockReference),
		FloorRatio:     decimal.NewFromFloat(floorRatio),
	}, nil
}

// DefaultPricer uses base 10, demand factor 0.5, stock factor 0.3, a reference
// stock of 100 units and a floor at half the base price.
func DefaultPricer() Pricer {
	p, _ := NewPricer(10, 0.5, 0.3, 100, 0.5)
	return p
}

func (p Pricer) Price(demand, quantity int) decimal.Decimal {
	raw := p.raw(demand, quantity)
	return decimal.Max(raw, p.floor()).Round(priceScale)
}

// Sensitivity returns the change in price per extra sale and per extra unit in
// stock. Both are zero while the price sits on the floor.
func (p Pricer) Sensitivity(demand, quantity int) (perSale, perUnit decimal.Decimal) {
	if p.raw(demand, quantity).LessThan(p.floor()) {
		return decimal.Zero, decimal.Zero
	}
	perSale = p.Base.Mul(p.DemandFactor)
	perUnit = p.Base.Mul(p.StockFactor).Div(p.StockReference)
	return perSale.Round(priceScale), perUnit.Round(priceScale)
}

func (p Pricer) raw(demand, quantity int) decimal.Decimal {
	demandAdj := p.Base.Mul(p.DemandFactor).Mul(decimal.NewFromInt(int64(demand)))
	stockRatio := decimal.NewFromInt(int64(quantity)).Div(p.StockReference)
	stockAdj := p.Base.Mul(p.StockFactor).Mul(decimal.NewFromInt(1).Sub(stockRatio))
	return p.Base.Add(demandAdj).Sub(stockAdj)
}

func (p Pricer) floor() decimal.Decimal {
	return p.Base.Mul(p.FloorRatio)
}
