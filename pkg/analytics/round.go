package analytics

import "github.com/shopspring/decimal"

func round2(v float64) float64 { return decimal.NewFromFloat(v).Round(2).InexactFloat64() }
func round1(v float64) float64 { return decimal.NewFromFloat(v).Round(1).InexactFloat64() }
